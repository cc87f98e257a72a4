package trace

import (
	"fmt"
	"strings"
)

// Level controls trace verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring buffer only, dumped when a run fails
	LevelPhase        // driver, file and phase spans
	LevelDetail       // plus per-line points
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if name == want {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelError, LevelPhase:
		// error-уровень пишет то же, что phase, но только в кольцо
		return scope <= ScopePhase
	case LevelDetail:
		return scope <= ScopeLine
	case LevelDebug:
		return true
	}
	return false
}

package trace

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto   Format = iota // by output file extension
	FormatText                 // one human readable line per event
	FormatNDJSON               // one JSON object per line
	FormatChrome               // chrome://tracing / Perfetto "traceEvents"
)

var formatNames = [...]string{"auto", "text", "ndjson", "chrome"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat converts a format name.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(name, s) {
			return Format(i), nil
		}
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: %s)", s, strings.Join(formatNames[:], "|"))
}

// DetectFormat picks a format from an output path.
func DetectFormat(path string) Format {
	switch {
	case path == "" || path == "-":
		return FormatText
	case strings.HasSuffix(path, ".ndjson"):
		return FormatNDJSON
	case strings.HasSuffix(path, ".json"):
		return FormatChrome
	}
	return FormatText
}

// FormatEvent encodes ev. start anchors relative timestamps of the text
// and chrome encodings; zero start means ev.Time itself.
func FormatEvent(ev *Event, format Format, start time.Time) []byte {
	if start.IsZero() {
		start = ev.Time
	}
	switch format {
	case FormatNDJSON:
		return formatNDJSON(ev)
	case FormatChrome:
		return formatChrome(ev, start)
	default:
		return formatText(ev, start)
	}
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.UTC().Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

type chromeEvent struct {
	Name  string            `json:"name"`
	Cat   string            `json:"cat"`
	Ph    string            `json:"ph"`
	Ts    int64             `json:"ts"` // микросекунды от старта
	Pid   int               `json:"pid"`
	Tid   uint64            `json:"tid"`
	Scope string            `json:"s,omitempty"`
	Args  map[string]string `json:"args,omitempty"`
}

func formatChrome(ev *Event, start time.Time) []byte {
	ce := chromeEvent{
		Name: ev.Name,
		Cat:  ev.Scope.String(),
		Ts:   ev.Time.Sub(start).Microseconds(),
		Pid:  1,
		Tid:  ev.GID,
	}
	switch ev.Kind {
	case KindSpanBegin:
		ce.Ph = "B"
	case KindSpanEnd:
		ce.Ph = "E"
	default:
		ce.Ph = "i"
		ce.Scope = "t"
	}
	if ev.Detail != "" || len(ev.Extra) > 0 {
		ce.Args = make(map[string]string, len(ev.Extra)+1)
		for k, v := range ev.Extra {
			ce.Args[k] = v
		}
		if ev.Detail != "" {
			ce.Args["detail"] = ev.Detail
		}
	}
	data, err := json.Marshal(ce)
	if err != nil {
		return nil
	}
	return data
}

// formatText: "[   1.250ms] → phase:spines (detail) {k=v}".
func formatText(ev *Event, start time.Time) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%9.3fms] ", float64(ev.Time.Sub(start).Microseconds())/1000)
	if ev.ParentID != 0 {
		sb.WriteString("  ")
	}
	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	case KindPoint:
		sb.WriteString("• ")
	case KindHeartbeat:
		sb.WriteString("♡ ")
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k + "=" + ev.Extra[k])
		}
		sb.WriteString("}")
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

package hum

import (
	"fmt"

	"fortio.org/safecast"
)

type (
	// TokenID is a 1-based handle into the token arena of a File.
	TokenID uint32
	// LineID is a 1-based handle into the line arena of a File.
	LineID uint32
)

const (
	NoTokenID TokenID = 0
	NoLineID  LineID  = 0
)

func (id TokenID) IsValid() bool { return id != NoTokenID }
func (id LineID) IsValid() bool  { return id != NoLineID }

type arena[T any] struct {
	data []T
}

func newArena[T any](capHint int) *arena[T] {
	return &arena[T]{data: make([]T, 0, max(capHint, 0))}
}

// Возвращает индекс нового элемента (1-based).
func (a *arena[T]) allocate(value T) uint32 {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return n
}

func (a *arena[T]) get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

func (a *arena[T]) len() int {
	return len(a.data)
}

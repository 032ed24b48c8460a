// Package ordering checks whether a sequence of strings honors a requested
// sort direction under locale-aware collation.
package ordering

import (
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a requested sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection parses an order query value. An empty value means
// Ascending, the service default.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "":
		return Ascending, nil
	case Ascending, Descending:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Checker compares adjacent elements with a collator for one locale.
// The zero value uses English collation.
type Checker struct {
	Tag language.Tag
}

// New returns a checker for the given locale.
func New(tag language.Tag) Checker {
	return Checker{Tag: tag}
}

// Sorted reports whether values are monotonic in dir.
// Equal neighbours never violate either direction.
func (c Checker) Sorted(values []string, dir Direction) bool {
	_, ok := c.FirstViolation(values, dir)
	return ok
}

// FirstViolation returns the index i of the first element that breaks dir
// relative to element i-1. ok is true when there is no such element.
// It panics when dir is neither Ascending nor Descending.
func (c Checker) FirstViolation(values []string, dir Direction) (i int, ok bool) {
	if dir != Ascending && dir != Descending {
		panic(fmt.Sprintf("ordering: unknown sort direction %q", dir))
	}
	// Collators carry internal buffers and are not safe for concurrent use,
	// so one is built per call.
	col := collate.New(c.tag())
	for i = 1; i < len(values); i++ {
		cmp := col.CompareString(values[i-1], values[i])
		if dir == Ascending && cmp > 0 {
			return i, false
		}
		if dir == Descending && cmp < 0 {
			return i, false
		}
	}
	return 0, true
}

func (c Checker) tag() language.Tag {
	if c.Tag == language.Und {
		return language.English
	}
	return c.Tag
}

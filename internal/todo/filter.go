package todo

import (
	"errors"
	"fmt"
	"strings"
)

// Filter selects which items the derived view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterTodo      Filter = "todo"
)

// Filters lists every valid filter in display order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterTodo}

// ErrInvalidFilter is returned by ParseFilter for unknown names.
var ErrInvalidFilter = errors.New("invalid filter")

// ParseFilter converts a name (case-insensitive, trimmed) into a Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidFilter, s)
	}
	return f, nil
}

// Valid reports whether f is one of the known filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterCompleted, FilterTodo:
		return true
	}
	return false
}

// Match reports whether it passes the filter.
func (f Filter) Match(it Item) bool {
	switch f {
	case FilterCompleted:
		return it.Completed
	case FilterTodo:
		return !it.Completed
	default:
		return true
	}
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	for i, v := range Filters {
		if v == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

func (f Filter) String() string { return string(f) }

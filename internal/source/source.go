// Package source defines the backend-agnostic interface for fetching the
// initial todo items.
package source

import (
	"context"
	"errors"

	"todoapp/internal/todo"
)

// DefaultLimit is how many items a Source returns at most.
const DefaultLimit = 3

// ErrLoad marks errors from a failed initial fetch.
var ErrLoad = errors.New("load failed")

// ErrTimeout marks a fetch that ran past its deadline.
var ErrTimeout = errors.New("request timed out")

// Source fetches the initial item set from a remote backend.
// Commands and views never import backend SDKs directly.
type Source interface {
	// FetchInitialItems returns at most the configured number of items,
	// in the order the backend returned them, with fields unmodified.
	FetchInitialItems(ctx context.Context) ([]todo.Item, error)
}

// Func adapts a plain function to the Source interface.
type Func func(ctx context.Context) ([]todo.Item, error)

// FetchInitialItems implements Source.
func (f Func) FetchInitialItems(ctx context.Context) ([]todo.Item, error) {
	return f(ctx)
}

// ClampLimit returns n when it lies in 1..DefaultLimit and DefaultLimit
// otherwise, so every backend caps the initial fetch the same way.
func ClampLimit(n int) int {
	if n < 1 || n > DefaultLimit {
		return DefaultLimit
	}
	return n
}

// Truncate returns at most ClampLimit(limit) items.
func Truncate(items []todo.Item, limit int) []todo.Item {
	if limit = ClampLimit(limit); len(items) > limit {
		return items[:limit]
	}
	return items
}

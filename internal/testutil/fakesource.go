// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"slices"
	"sync"

	"todoapp/internal/todo"
)

// FakeSource is an in-memory implementation of source.Source for testing.
type FakeSource struct {
	mu    sync.Mutex
	items []todo.Item
	calls int

	// Error injection for testing
	FetchErr error

	// Block, when set, makes fetches wait for it to close or ctx to end.
	Block chan struct{}
}

// NewFakeSource creates a FakeSource that returns items.
func NewFakeSource(items ...todo.Item) *FakeSource {
	return &FakeSource{items: items}
}

// SetItems replaces the items returned by later fetches.
func (f *FakeSource) SetItems(items ...todo.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
}

// Items returns a copy of the configured items.
func (f *FakeSource) Items() []todo.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items)
}

// Calls returns how many fetches were made.
func (f *FakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FetchInitialItems implements source.Source.
func (f *FakeSource) FetchInitialItems(ctx context.Context) ([]todo.Item, error) {
	f.mu.Lock()
	f.calls++
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return f.Items(), nil
}

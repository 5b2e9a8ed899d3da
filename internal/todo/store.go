// Package todo holds the todo-list state container: items, the active
// filter, the id counter, and the filtered view derived from them.
package todo

import (
	"slices"
	"strings"
	"sync"
)

// DefaultSeed is the initial value of the id counter.
// The first item created by Add gets DefaultSeed+1.
const DefaultSeed = 3000

// Item is a single todo entry.
type Item struct {
	ID        int    `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Listener is called after a mutation changed the store.
type Listener func()

// Option configures a Store.
type Option func(*Store)

// WithSeed sets the initial id counter.
func WithSeed(seed int) Option {
	return func(s *Store) {
		s.counter = seed
	}
}

// WithReconcile makes Initialize raise the id counter to the largest
// incoming id, so later Adds cannot collide with loaded items.
func WithReconcile(enabled bool) Option {
	return func(s *Store) {
		s.reconcile = enabled
	}
}

// Store owns the item list, the filter and the id counter.
// Mutations never fail: invalid input is ignored.
type Store struct {
	mu        sync.Mutex
	items     []Item
	filter    Filter
	counter   int
	reconcile bool

	// revision changes whenever items change; it keys the selector cache
	revision  uint64
	cache     []Item
	cacheRev  uint64
	cacheFilt Filter
	cacheOK   bool

	listeners []listenerEntry
	nextLID   int
}

type listenerEntry struct {
	id int
	fn Listener
}

// New creates an empty store with filter "all" and the default seed.
func New(opts ...Option) *Store {
	s := &Store{
		filter:  FilterAll,
		counter: DefaultSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize replaces the whole list with a copy of items, in their order.
// The id counter is left alone unless the store reconciles ids.
func (s *Store) Initialize(items []Item) {
	s.mu.Lock()
	s.items = slices.Clone(items)
	if s.reconcile {
		for _, it := range s.items {
			if it.ID > s.counter {
				s.counter = it.ID
			}
		}
	}
	s.revision++
	s.mu.Unlock()

	s.notify()
}

// Add appends a new open item with the next id.
// Blank titles are ignored. Reports whether an item was added.
func (s *Store) Add(title string) bool {
	if strings.TrimSpace(title) == "" {
		return false
	}

	s.mu.Lock()
	s.counter++
	s.items = append(s.items, Item{ID: s.counter, Title: title})
	s.revision++
	s.mu.Unlock()

	s.notify()
	return true
}

// Delete removes the item with the given id. Reports whether it existed.
func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	// Delete on a fresh slice keeps earlier snapshots intact.
	s.items = slices.Delete(slices.Clone(s.items), i, i+1)
	s.revision++
	s.mu.Unlock()

	s.notify()
	return true
}

// Toggle flips Completed on the item with the given id.
// Reports whether it existed.
func (s *Store) Toggle(id int) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	items := slices.Clone(s.items)
	items[i].Completed = !items[i].Completed
	s.items = items
	s.revision++
	s.mu.Unlock()

	s.notify()
	return true
}

// SetFilter replaces the active filter. Unknown values are rejected.
// Reports whether the filter changed.
func (s *Store) SetFilter(f Filter) bool {
	if !f.Valid() {
		return false
	}

	s.mu.Lock()
	if s.filter == f {
		s.mu.Unlock()
		return false
	}
	s.filter = f
	s.mu.Unlock()

	s.notify()
	return true
}

// SelectFiltered returns the items matching the active filter, in store
// order. The result is recomputed only when items or filter changed.
func (s *Store) SelectFiltered() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cacheOK || s.cacheRev != s.revision || s.cacheFilt != s.filter {
		s.cache = Select(s.items, s.filter)
		s.cacheRev = s.revision
		s.cacheFilt = s.filter
		s.cacheOK = true
	}
	return slices.Clone(s.cache)
}

// Select is the pure filter behind SelectFiltered.
func Select(items []Item, f Filter) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Items returns a copy of all items in store order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the item with the given id.
func (s *Store) Get(id int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Item{}, false
	}
	return s.items[i], true
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Counter returns the id counter; the next Add uses Counter()+1.
func (s *Store) Counter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Subscribe registers fn to run after every change.
// The returned func removes it again.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextLID++
	id := s.nextLID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(e listenerEntry) bool {
			return e.id == id
		})
	}
}

// notify runs listeners outside the lock so they may read the store.
func (s *Store) notify() {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn()
	}
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.items, func(it Item) bool {
		return it.ID == id
	})
}

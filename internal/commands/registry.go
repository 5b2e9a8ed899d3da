package commands

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu    sync.RWMutex
	cmds  map[string]Command
	order []string // primary names, sorted
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Command)}
}

// Register adds a command under its name and aliases.
// Returns an error if any of them is empty or already taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("command name must not be empty")
		}
		if _, exists := r.cmds[n]; exists {
			return fmt.Errorf("command already registered: %s", n)
		}
	}

	for _, n := range names {
		r.cmds[n] = c
	}
	i, _ := slices.BinarySearch(r.order, c.Name())
	r.order = slices.Insert(r.order, i, c.Name())
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// All returns every command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, len(r.order))
	for i, name := range r.order {
		result[i] = r.cmds[name]
	}
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}

// Package session ties one todo store to the source that seeds it.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"todoapp/internal/logging"
	"todoapp/internal/source"
	"todoapp/internal/todo"
)

// LoadState describes the initial fetch.
type LoadState int

const (
	// Idle means no fetch has been started.
	Idle LoadState = iota
	// Loading means a fetch is in flight.
	Loading
	// Loaded means the last fetch initialized the store.
	Loaded
	// Failed means the last fetch failed; the store was left untouched.
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

// Session owns a Store and the Source used to initialize it.
type Session struct {
	Store *todo.Store

	src    source.Source
	logger *log.Logger

	mu      sync.Mutex
	state   LoadState
	loadErr error
}

// New creates a session. A nil logger discards output.
func New(store *todo.Store, src source.Source, logger *log.Logger) *Session {
	if store == nil {
		store = todo.New()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{Store: store, src: src, logger: logger}
}

// Logger returns the session logger.
func (s *Session) Logger() *log.Logger {
	return s.logger
}

// State returns the load state and the error of the last failed fetch.
func (s *Session) State() (LoadState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.loadErr
}

// Fetch runs the source without touching the store. It marks the session
// as loading; the result must be handed to Apply on the goroutine that
// owns the store.
func (s *Session) Fetch(ctx context.Context) ([]todo.Item, error) {
	s.mu.Lock()
	s.state = Loading
	s.mu.Unlock()

	if s.src == nil {
		return nil, fmt.Errorf("%w: no source configured", source.ErrLoad)
	}

	s.logger.Debug("initial fetch started")
	items, err := s.src.FetchInitialItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrLoad, err)
	}
	return items, nil
}

// Apply posts a fetch result. On success the store is initialized with
// items; on failure the store is left as it is and the error is kept.
func (s *Session) Apply(items []todo.Item, err error) {
	s.mu.Lock()
	if err != nil {
		s.state = Failed
		s.loadErr = err
		s.mu.Unlock()
		// Callers report the error; keep it out of the default log level.
		s.logger.Debug("initial fetch failed", "err", err)
		return
	}
	s.state = Loaded
	s.loadErr = nil
	s.mu.Unlock()

	s.logger.Debug("initial fetch finished", "count", len(items))
	s.Store.Initialize(items)
}

// Load fetches and applies in one step.
func (s *Session) Load(ctx context.Context) error {
	items, err := s.Fetch(ctx)
	s.Apply(items, err)
	return err
}

// EnsureLoaded loads once: it does nothing if a fetch already succeeded.
func (s *Session) EnsureLoaded(ctx context.Context) error {
	if state, _ := s.State(); state == Loaded {
		return nil
	}
	return s.Load(ctx)
}

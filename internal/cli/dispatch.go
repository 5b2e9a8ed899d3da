package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"todoapp/internal/commands"
	"todoapp/internal/config"
	"todoapp/internal/exitcode"
	"todoapp/internal/logging"
	"todoapp/internal/session"
	"todoapp/internal/source"
	"todoapp/internal/todo"
)

// ErrSourceSetup marks failures to construct the configured source,
// such as missing credentials.
var ErrSourceSetup = errors.New("source unavailable")

// SourceFactory creates a Source from config.
// Used to inject the backend during dispatch.
type SourceFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (source.Source, error)

// InteractiveFunc runs a full-screen session until the user quits.
type InteractiveFunc func(ctx context.Context, cfg *config.Config, sess *session.Session) error

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInput sets the reader the shell reads commands from.
func WithInput(r io.Reader) Option {
	return func(d *Dispatcher) { d.in = r }
}

// WithTerminal overrides terminal detection.
func WithTerminal(fn func() bool) Option {
	return func(d *Dispatcher) { d.isTerminal = fn }
}

// WithTUI sets the full-screen front end.
func WithTUI(fn InteractiveFunc) Option {
	return func(d *Dispatcher) { d.runTUI = fn }
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry   *commands.Registry
	factory    SourceFactory
	in         io.Reader
	isTerminal func() bool
	runTUI     InteractiveFunc
}

// NewDispatcher creates a new dispatcher with the given registry and source factory.
func NewDispatcher(registry *commands.Registry, factory SourceFactory, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:   registry,
		factory:    factory,
		in:         os.Stdin,
		isTerminal: stdioIsTerminal,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func stdioIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> interactive session
	if len(args) == 0 {
		return d.interactive(ctx, "", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	switch cmdName {
	case modeShell, modeTUI:
		return d.interactive(ctx, cmdName, args[1:], out, errOut)
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

// commonFlags are accepted by every command and by the interactive modes.
type commonFlags struct {
	configDir string
	source    string
	endpoint  string
	quiet     bool
	debug     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", "", "")
	fs.StringVar(&c.source, "source", "", "")
	fs.StringVar(&c.endpoint, "endpoint", "", "")
	fs.BoolVar(&c.quiet, "quiet", false, "")
	fs.BoolVar(&c.debug, "debug", false, "")
}

// config loads settings and applies the flags on top.
func (c *commonFlags) config() (*config.Config, error) {
	cfg, err := config.Load(c.configDir)
	if err != nil {
		return nil, err
	}
	cfg.Quiet = c.quiet
	cfg.Debug = cfg.Debug || c.debug
	if c.source != "" {
		cfg.Source = c.source
	}
	if c.endpoint != "" {
		cfg.Endpoint = c.endpoint
	}
	return cfg, cfg.Validate()
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves
	return fs
}

// parseFlags parses args and reports flag errors the way every command
// does. ok is false when the caller should exit with code.
func parseFlags(fs *flag.FlagSet, args []string, errOut io.Writer) (positional []string, code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Check for missing flag value
		if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
			parts := strings.Split(errStr, ":")
			if len(parts) > 1 {
				flagPart := strings.TrimSpace(parts[1])
				fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
				return nil, exitcode.UserError, false
			}
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return nil, exitcode.UserError, false
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return nil, exitcode.UserError, false
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positional = fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return nil, exitcode.UserError, false
	}
	return positional, exitcode.Success, true
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := newFlagSet(cmd.Name())

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	positional, code, ok := parseFlags(fs, args, errOut)
	if !ok {
		return code
	}

	cfg, err := common.config()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	sess := d.newSession(ctx, cfg, errOut)

	if cmd.NeedsLoad() {
		loadCtx, cancel := commands.FetchContext(ctx, cfg)
		err := sess.EnsureLoaded(loadCtx)
		cancel()
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			if errors.Is(err, ErrSourceSetup) {
				return exitcode.ConfigError
			}
			return exitcode.LoadError
		}
	}

	return cmd.Run(ctx, cfg, sess, positional, out, errOut)
}

// newSession builds the per-run store and session. The source is created
// on first fetch so commands that never load work without a backend.
func (d *Dispatcher) newSession(ctx context.Context, cfg *config.Config, errOut io.Writer) *session.Session {
	logger := logging.New(errOut, cfg.Debug)
	store := todo.New(todo.WithReconcile(cfg.ReconcileIDs))

	var src source.Source
	if d.factory != nil {
		src = lazySource(func() (source.Source, error) {
			return d.factory(ctx, cfg, logger)
		})
	}
	logger.Debug("session started", "source", cfg.Source, "dir", cfg.Dir)
	return session.New(store, src, logger)
}

// lazySource defers construction of the real source until the first
// fetch. A failed construction is retried on the next fetch.
func lazySource(build func() (source.Source, error)) source.Source {
	var (
		mu    sync.Mutex
		built source.Source
	)
	return source.Func(func(ctx context.Context) ([]todo.Item, error) {
		mu.Lock()
		if built == nil {
			src, err := build()
			if err != nil {
				mu.Unlock()
				return nil, fmt.Errorf("%w: %w", ErrSourceSetup, err)
			}
			built = src
		}
		src := built
		mu.Unlock()

		return src.FetchInitialItems(ctx)
	})
}

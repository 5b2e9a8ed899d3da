package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoapp/internal/config"
	"todoapp/internal/exitcode"
	"todoapp/internal/session"
)

func init() {
	Register(&LoadCmd{})
}

// LoadCmd re-runs the initial fetch, replacing the current items.
// It is the retry path after a failed load.
type LoadCmd struct{}

func (c *LoadCmd) Name() string      { return "load" }
func (c *LoadCmd) Aliases() []string { return []string{"reload"} }
func (c *LoadCmd) Synopsis() string  { return "Fetch the initial items again" }
func (c *LoadCmd) Usage() string     { return "todo load" }
func (c *LoadCmd) NeedsLoad() bool   { return false }

func (c *LoadCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoadCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	ctx, cancel := FetchContext(ctx, cfg)
	defer cancel()

	if err := sess.Load(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.LoadError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "loaded %d items\n", sess.Store.Len())
	}
	return exitcode.Success
}

// FetchContext bounds ctx by the configured fetch timeout, if any.
func FetchContext(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.FetchTimeout > 0 {
		return context.WithTimeout(ctx, cfg.FetchTimeout)
	}
	return context.WithCancel(ctx)
}

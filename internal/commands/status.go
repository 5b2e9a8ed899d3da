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
	Register(&StatusCmd{})
}

// StatusCmd prints the session state.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Show load state, filter and counters" }
func (c *StatusCmd) Usage() string     { return "todo status" }
func (c *StatusCmd) NeedsLoad() bool   { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	state, loadErr := sess.State()

	fmt.Fprintf(out, "source:  %s\n", cfg.Source)
	fmt.Fprintf(out, "load:    %s\n", state)
	if loadErr != nil {
		fmt.Fprintf(out, "error:   %v\n", loadErr)
	}
	fmt.Fprintf(out, "filter:  %s\n", sess.Store.Filter())
	fmt.Fprintf(out, "items:   %d (%d shown)\n", sess.Store.Len(), len(sess.Store.SelectFiltered()))
	fmt.Fprintf(out, "next id: %d\n", sess.Store.Counter()+1)
	return exitcode.Success
}

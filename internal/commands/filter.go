package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todoapp/internal/config"
	"todoapp/internal/exitcode"
	"todoapp/internal/session"
	"todoapp/internal/todo"
)

func init() {
	Register(&FilterCmd{})
}

// FilterCmd implements the filter command.
// With no argument it prints the active filter.
type FilterCmd struct{}

func (c *FilterCmd) Name() string      { return "filter" }
func (c *FilterCmd) Aliases() []string { return nil }
func (c *FilterCmd) Synopsis() string  { return "Show or change the active filter" }
func (c *FilterCmd) Usage() string     { return "todo filter [all|completed|todo]" }
func (c *FilterCmd) NeedsLoad() bool   { return false }

func (c *FilterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FilterCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(out, sess.Store.Filter())
		return exitcode.Success
	}

	f, err := todo.ParseFilter(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	sess.Store.SetFilter(f)
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

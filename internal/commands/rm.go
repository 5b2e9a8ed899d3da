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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete", "del"} }
func (c *RmCmd) Synopsis() string  { return "Delete an item" }
func (c *RmCmd) Usage() string     { return "todo rm <id>" }
func (c *RmCmd) NeedsLoad() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	id, err := ParseItemID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !sess.Store.Delete(id) {
		fmt.Fprintf(errOut, "error: item not found: %d\n", id)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

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
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create", "new"} }
func (c *AddCmd) Synopsis() string  { return "Create an item" }
func (c *AddCmd) Usage() string     { return "todo add <title...>" }
func (c *AddCmd) NeedsLoad() bool   { return false }
func (c *AddCmd) TakesText() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")

	// The store ignores blank titles; report them instead of silently
	// doing nothing.
	if !sess.Store.Add(title) {
		fmt.Fprintf(errOut, "error: %v\n", ErrTitleRequired)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %d\n", sess.Store.Counter())
	}
	return exitcode.Success
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoapp/internal/config"
	"todoapp/internal/exitcode"
	"todoapp/internal/output"
	"todoapp/internal/session"
	"todoapp/internal/todo"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// It prints the filtered view; --filter shows another filter without
// changing the active one.
type ListCmd struct {
	filter string
	format string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List items" }
func (c *ListCmd) Usage() string {
	return "todo list [--filter all|completed|todo] [--format text|json|yaml]"
}
func (c *ListCmd) NeedsLoad() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
	fs.StringVar(&c.format, "format", output.FormatText, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format := c.format
	if format == "" {
		format = output.FormatText
	}
	if !output.ValidFormat(format) {
		fmt.Fprintf(errOut, "error: unknown format: %s\n", format)
		return exitcode.UserError
	}

	var items []todo.Item
	if c.filter != "" {
		f, err := todo.ParseFilter(c.filter)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		items = todo.Select(sess.Store.Items(), f)
	} else {
		items = sess.Store.SelectFiltered()
	}

	if format == output.FormatText && len(items) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no items")
		}
		return exitcode.Success
	}

	if err := output.FormatItems(out, items, format); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

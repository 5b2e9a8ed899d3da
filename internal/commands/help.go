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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsLoad() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, HelpText(DefaultRegistry))
	return exitcode.Success
}

// HelpText renders usage for every command in r.
func HelpText(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  todo                   Start an interactive session\n")
	b.WriteString("  todo shell             Line-oriented session on stdin\n")
	b.WriteString("  todo tui               Full-screen session\n")
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "  %s\n", cmd.Usage())
		line := "      " + cmd.Synopsis()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			line += " (aliases: " + strings.Join(aliases, ", ") + ")"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(commonFlagsText)
	return b.String()
}

const commonFlagsText = `
Common flags:
  --config <dir>     Override config directory
  --source <name>    Initial item source: placeholder or googletasks
  --endpoint <url>   JSON endpoint for the placeholder source
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`

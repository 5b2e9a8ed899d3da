package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"todoapp/internal/commands"
	"todoapp/internal/config"
	"todoapp/internal/exitcode"
	"todoapp/internal/output"
	"todoapp/internal/session"
	"todoapp/internal/todo"
)

const (
	modeShell = "shell"
	modeTUI   = "tui"
)

// Prompt is printed before each shell line when stdin is a terminal.
const Prompt = "todo> "

// interactive starts a shell or TUI session. An empty mode picks one
// from the ui setting and the terminal.
func (d *Dispatcher) interactive(ctx context.Context, mode string, args []string, out, errOut io.Writer) int {
	name := mode
	if name == "" {
		name = config.AppName
	}
	fs := newFlagSet(name)

	var common commonFlags
	common.register(fs)

	positional, code, ok := parseFlags(fs, args, errOut)
	if !ok {
		return code
	}
	if len(positional) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := common.config()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	if mode == "" {
		mode = d.pickMode(cfg)
	}

	sess := d.newSession(ctx, cfg, errOut)

	if mode == modeTUI {
		if d.runTUI == nil {
			fmt.Fprintln(errOut, "error: tui not available")
			return exitcode.ConfigError
		}
		if err := d.runTUI(ctx, cfg, sess); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	return d.runShell(ctx, cfg, sess, out, errOut)
}

func (d *Dispatcher) pickMode(cfg *config.Config) string {
	switch cfg.UI {
	case config.UITUI:
		return modeTUI
	case config.UIPlain:
		return modeShell
	}
	if d.runTUI != nil && d.isTerminal() {
		return modeTUI
	}
	return modeShell
}

// runShell reads one command per line and runs it against sess. The
// filtered list is printed initially and again after every change.
func (d *Dispatcher) runShell(ctx context.Context, cfg *config.Config, sess *session.Session, out, errOut io.Writer) int {
	loadCtx, cancel := commands.FetchContext(ctx, cfg)
	if err := sess.Load(loadCtx); err != nil {
		// The session keeps running empty; `load` retries.
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	cancel()

	RenderView(out, sess.Store)
	unsubscribe := sess.Store.Subscribe(func() { RenderView(out, sess.Store) })
	defer unsubscribe()

	// Confirmations are redundant next to the re-rendered list.
	shellCfg := *cfg
	shellCfg.Quiet = true

	prompt := d.isTerminal()
	lines, readErr := readLines(ctx, d.in)

	for {
		if prompt {
			fmt.Fprint(out, Prompt)
		}

		var line string
		select {
		case <-ctx.Done():
			return exitcode.Success
		case l, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					fmt.Fprintf(errOut, "error: %v\n", err)
					return exitcode.UserError
				}
				return exitcode.Success
			}
			line = l
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return exitcode.Success
		case modeShell, modeTUI:
			fmt.Fprintln(errOut, "error: already in a session")
			continue
		}

		cmd, ok := d.registry.Find(fields[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", fields[0])
			continue
		}
		sess.Logger().Debug("shell command", "name", cmd.Name())

		if tc, ok := cmd.(commands.TextCommand); ok && tc.TakesText() {
			tc.Run(ctx, &shellCfg, sess, []string{restOfLine(line, fields[0])}, out, errOut)
			continue
		}
		d.runInSession(ctx, &shellCfg, sess, cmd, fields[1:], out, errOut)
	}
}

// runInSession runs cmd with only its own flags. Exit codes are not
// fatal inside a session; errors were already printed.
func (d *Dispatcher) runInSession(ctx context.Context, cfg *config.Config, sess *session.Session, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := newFlagSet(cmd.Name())
	cmd.RegisterFlags(fs)

	positional, code, ok := parseFlags(fs, args, errOut)
	if !ok {
		return code
	}
	return cmd.Run(ctx, cfg, sess, positional, out, errOut)
}

// restOfLine returns line after its first word, leaving the spacing
// inside the remainder untouched.
func restOfLine(line, word string) string {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	return strings.TrimLeftFunc(strings.TrimPrefix(line, word), unicode.IsSpace)
}

// readLines feeds lines from r until EOF or ctx is done. The error
// channel receives the scanner error once lines is closed.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(lines)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

// RenderView prints the filter header and the filtered items.
func RenderView(w io.Writer, store *todo.Store) {
	shown := store.SelectFiltered()
	output.FormatFilterHeader(w, store.Filter(), len(shown), store.Len())
	output.FormatItems(w, shown, output.FormatText)
}

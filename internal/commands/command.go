// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"todoapp/internal/config"
	"todoapp/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsLoad returns true if a one-shot run must fetch the initial
	// items before the command runs. Interactive sessions load once up
	// front and ignore it.
	NeedsLoad() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command against the session.
	// cfg is always provided; sess is never nil.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int
}

// TextCommand is a Command whose positional arguments form one free-text
// value. Line-oriented callers hand it the rest of the line unsplit so
// inner spacing survives.
type TextCommand interface {
	Command
	TakesText() bool
}

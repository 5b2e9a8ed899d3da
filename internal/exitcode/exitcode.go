// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown id, bad filter).
	UserError = 1

	// ConfigError indicates a config or auth problem (bad config file,
	// missing OAuth files).
	ConfigError = 2

	// LoadError indicates the initial fetch failed.
	LoadError = 3
)

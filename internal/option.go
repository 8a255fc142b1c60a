package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	watch   bool
	force   bool
	mcp     bool
	verbose bool
	version string
	stdout  io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithWatch keeps the application running and regenerates on artifact changes.
func WithWatch(watch bool) Option {
	return func(a *application) {
		a.watch = watch
	}
}

// WithForce regenerates even when no artifact changed since the last run.
func WithForce(force bool) Option {
	return func(a *application) {
		a.force = force
	}
}

// WithMCP serves MCP tools over stdio.
func WithMCP(mcp bool) Option {
	return func(a *application) {
		a.mcp = mcp
	}
}

// WithVerbose lists every written and deleted file in the summary.
func WithVerbose(verbose bool) Option {
	return func(a *application) {
		a.verbose = verbose
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(version string) Option {
	return func(a *application) {
		a.version = version
	}
}

// WithOutput redirects the human-readable summary.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}

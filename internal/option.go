package internal

import (
	"io"

	"github.com/starford/harvester/internal/credentials"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	logOutput io.Writer
	stdout    io.Writer
	stdin     io.Reader
	presenter credentials.Presenter
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogOutput sends structured logs to w instead of stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithStdio sets the streams used for command output and the MCP transport.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(a *application) {
		a.stdin = in
		a.stdout = out
	}
}

// WithPresenter overrides how the consent URL is shown to the operator.
func WithPresenter(p credentials.Presenter) Option {
	return func(a *application) {
		a.presenter = p
	}
}

package process

import (
	"io"

	"github.com/go-logr/logr"
)

// Option customises a Spawner.
type Option func(s *Spawner)

// WithArgs sets the program arguments.
func WithArgs(args ...string) Option {
	return func(s *Spawner) {
		s.args = append([]string(nil), args...)
	}
}

// WithEnv adds environment variables on top of the controller environment.
func WithEnv(env map[string]string) Option {
	return func(s *Spawner) {
		if s.env == nil {
			s.env = make(map[string]string, len(env))
		}
		for k, v := range env {
			s.env[k] = v
		}
	}
}

// WithDir sets the working directory of the child.
func WithDir(dir string) Option {
	return func(s *Spawner) {
		s.dir = dir
	}
}

// WithStderr redirects child stderr, which is inherited by default.
func WithStderr(w io.Writer) Option {
	return func(s *Spawner) {
		s.stderr = w
	}
}

// WithLogger sets the logger used for protocol diagnostics.
func WithLogger(logger logr.Logger) Option {
	return func(s *Spawner) {
		s.logger = logger
	}
}

package shell

import (
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/ssh"
)

// Option customises a Spawner.
type Option func(s *Spawner)

// WithHost sets the session host URL, e.g. ssh://build-01:22.
func WithHost(URL string) Option {
	return func(s *Spawner) {
		s.hostURL = URL
	}
}

// WithCredentials names scy credentials resolved into an ssh client config
// for remote hosts.
func WithCredentials(name string) Option {
	return func(s *Spawner) {
		s.credentials = name
	}
}

// WithSSHConfig uses a ready ssh client config for remote hosts.
func WithSSHConfig(config *ssh.ClientConfig) Option {
	return func(s *Spawner) {
		s.sshConfig = config
	}
}

// WithEnv sets environment variables of every session.
func WithEnv(env map[string]string) Option {
	return func(s *Spawner) {
		s.env = env
	}
}

// WithDirectory changes into dir after the session started.
func WithDirectory(dir string) Option {
	return func(s *Spawner) {
		s.directory = dir
	}
}

// WithTimeout bounds how long the session waits for command output.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Spawner) {
		s.timeout = timeout
	}
}

// WithLogger sets the logger for session diagnostics.
func WithLogger(logger logr.Logger) Option {
	return func(s *Spawner) {
		s.logger = logger
	}
}

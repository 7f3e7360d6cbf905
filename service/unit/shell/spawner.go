package shell

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	rssh "github.com/viant/gosh/runner/ssh"
	"github.com/viant/scy/cred/secret"
	"github.com/viant/workqueue/service/unit"
	"golang.org/x/crypto/ssh"
)

const (
	localhost      = "localhost"
	defaultHostURL = "bash://localhost/"
	defaultTimeout = time.Minute
)

// Spawner starts shell sessions.
type Spawner struct {
	hostURL     string
	credentials string
	sshConfig   *ssh.ClientConfig
	env         map[string]string
	directory   string
	timeout     time.Duration
	logger      logr.Logger
	sequence    atomic.Int64
}

// New creates a spawner; without options sessions are local bash shells.
func New(options ...Option) *Spawner {
	ret := &Spawner{
		hostURL: defaultHostURL,
		timeout: defaultTimeout,
		logger:  logr.Discard(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Host returns the host name sessions run on.
func (s *Spawner) Host() string {
	return url.Host(s.hostURL)
}

// Spawn opens a new session.
func (s *Spawner) Spawn(ctx context.Context) (unit.Unit, error) {
	service, err := s.newService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open session on %v: %w", s.hostURL, err)
	}
	if s.directory != "" {
		if _, _, err = service.Run(ctx, "cd "+s.directory); err != nil {
			_ = service.Close()
			return nil, fmt.Errorf("failed to change directory to %v: %w", s.directory, err)
		}
	}
	id := fmt.Sprintf("%v-%d", s.Host(), s.sequence.Add(1))
	ret := newSession(id, service, s.timeout, s.logger.WithValues("session", id))
	go ret.run()
	return ret, nil
}

func (s *Spawner) newService(ctx context.Context) (*gosh.Service, error) {
	var options []runner.Option
	if len(s.env) > 0 {
		options = append(options, runner.WithEnvironment(s.env))
	}
	host := s.Host()
	if host == localhost || host == "" {
		return gosh.New(ctx, local.New(options...))
	}
	config, err := s.clientConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(host, ":") {
		host += ":22"
	}
	return gosh.New(ctx, rssh.New(host, config, options...))
}

func (s *Spawner) clientConfig(ctx context.Context) (*ssh.ClientConfig, error) {
	if s.sshConfig != nil {
		return s.sshConfig, nil
	}
	credentials := s.credentials
	if credentials == "" {
		credentials = localhost
	}
	generic, err := secret.New().GetCredentials(ctx, credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials %v: %w", credentials, err)
	}
	return generic.SSH.Config(ctx)
}

var _ unit.Spawner = (*Spawner)(nil)

package shell

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/workqueue/service/unit"
)

// Session is a unit backed by one gosh shell session.
type Session struct {
	id      string
	service *gosh.Service
	timeout time.Duration
	logger  logr.Logger
	inbox   chan any
	outbox  chan any
	status  *unit.Status
	ctx     context.Context
	cancel  context.CancelFunc
	mux     sync.Mutex
	closed  bool
}

func newSession(id string, service *gosh.Service, timeout time.Duration, logger logr.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:      id,
		service: service,
		timeout: timeout,
		logger:  logger,
		inbox:   make(chan any, 1),
		outbox:  make(chan any),
		status:  unit.NewStatus(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns host-sequence identifier.
func (s *Session) ID() string { return s.id }

// Send queues a command for the session.
func (s *Session) Send(payload any) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.closed || s.status.Exited() {
		return unit.ErrClosed
	}
	select {
	case s.inbox <- payload:
		return nil
	default:
		return unit.ErrBusy
	}
}

// Receive delivers Result replies.
func (s *Session) Receive() <-chan any { return s.outbox }

// Done is closed once the session ended.
func (s *Session) Done() <-chan struct{} { return s.status.Done() }

// ExitCode is 0 after Close, 1 after a transport failure.
func (s *Session) ExitCode() int { return s.status.Code() }

// Close ends the session after the running command.
func (s *Session) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.inbox)
	return nil
}

// Kill abandons the running command and closes the session.
func (s *Session) Kill() error {
	s.cancel()
	return nil
}

func (s *Session) run() {
	code := 0
	defer func() {
		if err := s.service.Close(); err != nil {
			s.logger.V(1).Info("failed to close session", "error", err.Error())
		}
		s.cancel()
		close(s.outbox)
		s.status.Exit(code)
	}()
	if !s.emit(unit.Ready) {
		code = unit.ExitUnknown
		return
	}
	for {
		select {
		case <-s.ctx.Done():
			code = unit.ExitUnknown
			return
		case task, ok := <-s.inbox:
			if !ok {
				return
			}
			result, err := s.execute(task)
			if err != nil {
				s.logger.Error(err, "session failed")
				code = 1
				return
			}
			if !s.emit(result) {
				code = unit.ExitUnknown
				return
			}
		}
	}
}

func (s *Session) execute(task any) (*Result, error) {
	line, err := commandLine(task)
	if err != nil {
		return &Result{Stdout: err.Error(), Status: unit.ExitUnknown}, nil
	}
	stdout, status, err := s.service.Run(s.ctx, line, runner.WithTimeout(int(s.timeout.Milliseconds())))
	if err != nil {
		return nil, err
	}
	return &Result{Command: line, Stdout: stdout, Status: status}, nil
}

func (s *Session) emit(msg any) bool {
	select {
	case s.outbox <- msg:
		return true
	case <-s.ctx.Done():
		return false
	}
}

var _ unit.Unit = (*Session)(nil)

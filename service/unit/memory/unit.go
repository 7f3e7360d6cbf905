package memory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/workqueue/service/unit"
)

// Handler computes the reply for one payload.
type Handler func(ctx context.Context, task any) (any, error)

// ExitError makes the unit exit with Code instead of replying.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("memory unit exit %d", e.Code)
}

// Exit returns an error that terminates the unit with code.
func Exit(code int) error {
	return &ExitError{Code: code}
}

// panicExitCode mirrors the status of a Go program dying on a panic.
const panicExitCode = 2

var sequence atomic.Int64

// Unit is an in-process execution unit.
type Unit struct {
	id      string
	handler Handler
	inbox   chan any
	outbox  chan any
	status  *unit.Status
	ctx     context.Context
	cancel  context.CancelFunc
	mux     sync.Mutex
	closed  bool
}

func newUnit(handler Handler) *Unit {
	ctx, cancel := context.WithCancel(context.Background())
	return &Unit{
		id:      "mem-" + strconv.FormatInt(sequence.Add(1), 10),
		handler: handler,
		inbox:   make(chan any, 1),
		outbox:  make(chan any),
		status:  unit.NewStatus(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns a process-unique identifier.
func (u *Unit) ID() string { return u.id }

// Send hands payload to the handler goroutine.
func (u *Unit) Send(payload any) error {
	u.mux.Lock()
	defer u.mux.Unlock()
	if u.closed || u.status.Exited() {
		return unit.ErrClosed
	}
	select {
	case u.inbox <- payload:
		return nil
	default:
		return unit.ErrBusy
	}
}

// Receive returns the reply channel.
func (u *Unit) Receive() <-chan any { return u.outbox }

// Done is closed once the handler goroutine returned.
func (u *Unit) Done() <-chan struct{} { return u.status.Done() }

// ExitCode returns the exit status.
func (u *Unit) ExitCode() int { return u.status.Code() }

// Close lets the unit finish its current payload and exit with code 0.
func (u *Unit) Close() error {
	u.mux.Lock()
	defer u.mux.Unlock()
	if u.closed {
		return nil
	}
	u.closed = true
	close(u.inbox)
	return nil
}

// Kill cancels the handler context; the unit exits with unit.ExitUnknown.
func (u *Unit) Kill() error {
	u.cancel()
	return nil
}

func (u *Unit) run(readyDelay time.Duration, signal bool) {
	code := 0
	defer func() {
		if r := recover(); r != nil {
			code = panicExitCode
		}
		u.cancel()
		close(u.outbox)
		u.status.Exit(code)
	}()

	if readyDelay > 0 {
		select {
		case <-time.After(readyDelay):
		case <-u.ctx.Done():
			code = unit.ExitUnknown
			return
		}
	}
	if signal && !u.emit(unit.Ready) {
		code = unit.ExitUnknown
		return
	}
	for {
		select {
		case <-u.ctx.Done():
			code = unit.ExitUnknown
			return
		case task, ok := <-u.inbox:
			if !ok {
				return
			}
			result, err := u.handler(u.ctx, task)
			if err != nil {
				var exitErr *ExitError
				if errors.As(err, &exitErr) {
					code = exitErr.Code
				} else {
					code = 1
				}
				return
			}
			if !u.emit(result) {
				code = unit.ExitUnknown
				return
			}
		}
	}
}

func (u *Unit) emit(msg any) bool {
	select {
	case u.outbox <- msg:
		return true
	case <-u.ctx.Done():
		return false
	}
}

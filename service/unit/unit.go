package unit

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned when sending to a unit that already stopped.
	ErrClosed = errors.New("unit: closed")

	// ErrBusy is returned when a unit is sent a payload before replying to
	// the previous one.
	ErrBusy = errors.New("unit: busy")
)

// ExitUnknown is reported when a unit was terminated without a regular exit
// status, for example by a signal.
const ExitUnknown = -1

// Unit is a running execution unit.
type Unit interface {
	// ID identifies the underlying unit, e.g. the OS pid.
	ID() string

	// Send forwards one payload. It never waits for the reply.
	Send(payload any) error

	// Receive delivers inbound messages. The channel is closed once the unit
	// stops producing output; all messages are delivered before Done closes.
	Receive() <-chan any

	// Done is closed after the unit exited; ExitCode is valid from then on.
	Done() <-chan struct{}

	// ExitCode returns the exit status; zero is a clean exit.
	ExitCode() int

	// Close asks the unit to finish gracefully.
	Close() error

	// Kill terminates the unit immediately.
	Kill() error
}

// Spawner starts execution units.
type Spawner interface {
	Spawn(ctx context.Context) (Unit, error)
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(ctx context.Context) (Unit, error)

// Spawn calls f(ctx).
func (f SpawnerFunc) Spawn(ctx context.Context) (Unit, error) {
	return f(ctx)
}

// Ready is the readiness payload units built in this module emit.
const Ready = "READY"

// Discard drains the messages of a unit nobody listens to, so its reader
// never blocks and it can exit.
func Discard(u Unit) {
	go func() {
		for range u.Receive() {
		}
	}()
}

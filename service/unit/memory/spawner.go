package memory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/viant/workqueue/service/unit"
)

// Option customises a Spawner.
type Option func(s *Spawner)

// WithReadyDelay postpones the readiness signal.
func WithReadyDelay(delay time.Duration) Option {
	return func(s *Spawner) {
		s.readyDelay = delay
	}
}

// WithoutReadySignal makes units stay silent after start, they never leave
// the starting state.
func WithoutReadySignal() Option {
	return func(s *Spawner) {
		s.silent = true
	}
}

// Spawner starts memory units running the same handler.
type Spawner struct {
	handler    Handler
	readyDelay time.Duration
	silent     bool
	spawned    atomic.Int64
}

// New creates a spawner for handler.
func New(handler Handler, options ...Option) *Spawner {
	ret := &Spawner{handler: handler}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Spawn starts a new unit.
func (s *Spawner) Spawn(ctx context.Context) (unit.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := newUnit(s.handler)
	s.spawned.Add(1)
	go u.run(s.readyDelay, !s.silent)
	return u, nil
}

// Spawned returns how many units were started so far.
func (s *Spawner) Spawned() int {
	return int(s.spawned.Load())
}

var _ unit.Spawner = (*Spawner)(nil)
var _ unit.Unit = (*Unit)(nil)

package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when a function is posted to a closed loop.
var ErrClosed = errors.New("loop: closed")

// Loop drains posted functions on one goroutine.
type Loop struct {
	mux     sync.Mutex
	pending []func()
	wakeup  chan struct{}
	done    chan struct{}
	closed  bool
	started bool
}

// New creates a loop; call Start to begin draining.
func New() *Loop {
	return &Loop{
		wakeup: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start launches the draining goroutine. It returns once ctx is cancelled or
// Close is called and the mailbox drained. Start is a no-op on a started loop.
func (l *Loop) Start(ctx context.Context) {
	l.mux.Lock()
	if l.started {
		l.mux.Unlock()
		return
	}
	l.started = true
	l.mux.Unlock()
	go l.run(ctx)
}

// Post appends fn to the mailbox. It returns false when the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mux.Lock()
	if l.closed {
		l.mux.Unlock()
		return false
	}
	l.pending = append(l.pending, fn)
	l.mux.Unlock()
	select {
	case l.wakeup <- struct{}{}:
	default:
	}
	return true
}

// Do posts fn and waits until it ran. It must not be called from a function
// running on the loop itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		select {
		case <-ran:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting functions. Functions already posted still run.
func (l *Loop) Close() {
	l.mux.Lock()
	if l.closed {
		l.mux.Unlock()
		return
	}
	l.closed = true
	started := l.started
	l.mux.Unlock()
	if !started {
		close(l.done)
		return
	}
	select {
	case l.wakeup <- struct{}{}:
	default:
	}
}

// Done is closed once the draining goroutine returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	for {
		batch, closed := l.take()
		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		select {
		case <-l.wakeup:
		case <-ctx.Done():
			l.mux.Lock()
			l.closed = true
			l.mux.Unlock()
			return
		}
	}
}

func (l *Loop) take() ([]func(), bool) {
	l.mux.Lock()
	defer l.mux.Unlock()
	batch := l.pending
	l.pending = nil
	return batch, l.closed
}

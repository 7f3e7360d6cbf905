package workqueue

import (
	"context"
	"errors"
	"time"

	"github.com/viant/workqueue/internal/loop"
)

// killGrace bounds how long Close waits for killed workers to exit.
var killGrace = 250 * time.Millisecond

// Close stops accepting tasks, drops the pending ones and asks every worker
// to exit. Workers still running when ctx is done are killed, in which case
// ctx.Err() is returned without waiting more than a short grace period for
// them; units that ignore the kill are left behind with their output
// discarded. Exited workers are not replaced once Close started.
func (q *Queue) Close(ctx context.Context) error {
	if !q.closed.CompareAndSwap(false, true) {
		<-q.loop.Done()
		return nil
	}
	q.cancel()
	drained := make(chan struct{})
	err := q.loop.Do(ctx, func() {
		q.closing = true
		q.drained = drained
		if dropped := len(q.pending); dropped > 0 {
			q.logger.Info("dropping pending tasks", "pending", dropped)
		}
		q.pending = nil
		q.stopTimers()
		for _, w := range q.pool {
			if err := w.Stop(); err != nil {
				q.logger.V(1).Info("failed to stop worker", "worker", w.ID(), "err", err.Error())
			}
		}
		q.checkDrained()
	})
	if errors.Is(err, loop.ErrClosed) {
		return nil
	}
	if err == nil {
		select {
		case <-drained:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}
	if err != nil {
		// runs after the stop step even when Do gave up waiting for it
		q.loop.Post(q.killAll)
		select {
		case <-drained:
		case <-time.After(killGrace):
			q.logger.Info("workers did not exit after kill", "grace", killGrace.String())
		}
	}
	q.loop.Close()
	<-q.loop.Done()
	q.logger.Info("closed")
	return err
}

func (q *Queue) killAll() {
	for _, w := range q.pool {
		_ = w.Kill()
	}
}

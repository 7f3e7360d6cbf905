package workqueue

import (
	"github.com/viant/workqueue/service/worker"
)

// dispatch hands the head of the queue to candidate, or to the first ready
// worker when candidate is nil or no longer ready. Without a ready worker it
// does nothing; the next ready event retries.
func (q *Queue) dispatch(candidate *worker.Worker) {
	if q.closing || len(q.pending) == 0 {
		return
	}
	target := candidate
	if target == nil || !target.State().IsReady() || target.Exited() {
		target = q.firstReady()
	}
	if target == nil {
		return
	}
	head := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	if err := target.Send(q.ctx, head.task, head.callback); err != nil {
		q.pending = append([]*pendingTask{head}, q.pending...)
		q.logger.V(1).Info("dispatch failed, task requeued", "err", err.Error(), "pending", len(q.pending))
		q.loop.Post(func() { q.dispatch(nil) })
	}
}

func (q *Queue) firstReady() *worker.Worker {
	for _, w := range q.pool {
		if w.State().IsReady() && !w.Exited() {
			return w
		}
	}
	return nil
}

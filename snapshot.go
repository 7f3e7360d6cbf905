package workqueue

import (
	"context"
	"errors"

	"github.com/viant/workqueue/internal/loop"
	"github.com/viant/workqueue/service/worker"
)

// WorkerInfo describes one pooled worker.
type WorkerInfo struct {
	ID    string       `json:"id"`
	PID   string       `json:"pid"`
	State worker.State `json:"state"`
}

// Snapshot is a point in time view of the queue.
type Snapshot struct {
	Target   int          `json:"target"`
	Size     int          `json:"size"`
	Starting int          `json:"starting"`
	Ready    int          `json:"ready"`
	Busy     int          `json:"busy"`
	Pending  int          `json:"pending"`
	Respawns int          `json:"respawns"`
	Workers  []WorkerInfo `json:"workers"`
}

// Snapshot returns the pool and queue state. It must not be called from a
// callback or listener.
func (q *Queue) Snapshot(ctx context.Context) (Snapshot, error) {
	var ret Snapshot
	err := q.loop.Do(ctx, func() {
		ret = Snapshot{
			Target:   q.size,
			Size:     len(q.pool),
			Pending:  len(q.pending),
			Respawns: q.respawns,
			Workers:  make([]WorkerInfo, 0, len(q.pool)),
		}
		for _, w := range q.pool {
			state := w.State()
			switch state {
			case worker.StateStarting:
				ret.Starting++
			case worker.StateReady:
				ret.Ready++
			case worker.StateBusy:
				ret.Busy++
			}
			ret.Workers = append(ret.Workers, WorkerInfo{ID: w.ID(), PID: w.PID(), State: state})
		}
	})
	if errors.Is(err, loop.ErrClosed) {
		return ret, ErrClosed
	}
	return ret, err
}

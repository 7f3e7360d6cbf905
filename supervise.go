package workqueue

import (
	"fmt"

	"github.com/viant/workqueue/internal/clock"
	"github.com/viant/workqueue/service/unit"
)

// replace schedules a new worker; failure is the number of consecutive
// crashes so far, 0 for a clean exit.
func (q *Queue) replace(failure int) {
	ok, delay := q.respawn.next(failure)
	if !ok {
		q.logger.Error(fmt.Errorf("gave up after %d consecutive failures", failure-1), "not replacing worker", "size", len(q.pool))
		return
	}
	q.timerSeq++
	id := q.timerSeq
	q.replacing++
	if delay > 0 {
		q.logger.Info("delaying worker replacement", "delay", delay.String(), "failures", failure)
	}
	q.timers[id] = clock.AfterFunc(delay, func() { q.spawnReplacement(id) })
}

// spawnReplacement runs off the loop, Spawn may block.
func (q *Queue) spawnReplacement(id int) {
	var u unit.Unit
	err := q.ctx.Err()
	if err == nil {
		u, err = q.spawner.Spawn(q.ctx)
	}
	if !q.loop.Post(func() { q.onSpawned(id, u, err) }) && u != nil {
		_ = u.Kill()
		unit.Discard(u)
	}
}

func (q *Queue) onSpawned(id int, u unit.Unit, err error) {
	delete(q.timers, id)
	q.replacing--
	if q.closing {
		if u != nil {
			_ = u.Kill()
			unit.Discard(u)
		}
		q.checkDrained()
		return
	}
	if err != nil {
		q.logger.Error(err, "failed to start replacement worker")
		q.failures++
		q.replace(q.failures)
		return
	}
	q.respawns++
	w := q.attach(u)
	q.fresh[w.ID()] = true
	q.logger.V(1).Info("worker replaced", "pid", w.PID(), "size", len(q.pool))
}

// stopTimers cancels replacements still waiting for their delay.
func (q *Queue) stopTimers() {
	for id, stop := range q.timers {
		if stop() {
			delete(q.timers, id)
			q.replacing--
		}
	}
}

func (q *Queue) checkDrained() {
	if q.drained == nil || len(q.pool) > 0 || q.replacing > 0 {
		return
	}
	close(q.drained)
	q.drained = nil
}

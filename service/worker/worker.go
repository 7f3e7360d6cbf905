package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/go-logr/logr"
	"github.com/viant/workqueue/internal/idgen"
	"github.com/viant/workqueue/service/unit"
	"github.com/viant/workqueue/tracing"
)

// Callback receives the result of a task.
type Callback func(result any)

// Scheduler serialises worker transitions; see internal/loop.
type Scheduler interface {
	Post(fn func()) bool
}

type assignment struct {
	task     any
	callback Callback
	span     *tracing.Span
}

type subscription struct {
	id       int
	listener Listener
}

// Worker wraps one execution unit.
type Worker struct {
	id        string
	unit      unit.Unit
	scheduler Scheduler
	logger    logr.Logger

	mux      sync.RWMutex
	state    State
	exited   bool
	exitCode int
	current  *assignment
	lost     *assignment

	subscriptions []subscription
	sequence      int
}

// New wraps u; call Start to begin consuming its messages.
func New(u unit.Unit, scheduler Scheduler, options ...Option) *Worker {
	ret := &Worker{
		id:        idgen.New(),
		unit:      u,
		scheduler: scheduler,
		logger:    logr.Discard(),
		state:     StateStarting,
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.WithValues("worker", idgen.Short(ret.id), "pid", u.ID())
	return ret
}

// ID returns the worker identity, unique per spawn.
func (w *Worker) ID() string { return w.id }

// PID returns the identity of the underlying unit.
func (w *Worker) PID() string { return w.unit.ID() }

// State returns the current state.
func (w *Worker) State() State {
	w.mux.RLock()
	defer w.mux.RUnlock()
	return w.state
}

// Exited reports whether the unit exited.
func (w *Worker) Exited() bool {
	w.mux.RLock()
	defer w.mux.RUnlock()
	return w.exited
}

// ExitCode returns the unit exit status once Exited.
func (w *Worker) ExitCode() int {
	w.mux.RLock()
	defer w.mux.RUnlock()
	return w.exitCode
}

// InFlight returns the task being processed, or after exit the task that
// was lost with the unit.
func (w *Worker) InFlight() (task any, callback Callback, ok bool) {
	w.mux.RLock()
	defer w.mux.RUnlock()
	a := w.current
	if a == nil {
		a = w.lost
	}
	if a == nil {
		return nil, nil, false
	}
	return a.task, a.callback, true
}

// Subscribe registers listener; the returned function removes it.
func (w *Worker) Subscribe(listener Listener) (unsubscribe func()) {
	w.mux.Lock()
	defer w.mux.Unlock()
	w.sequence++
	id := w.sequence
	w.subscriptions = append(w.subscriptions, subscription{id: id, listener: listener})
	return func() {
		w.mux.Lock()
		defer w.mux.Unlock()
		for i, s := range w.subscriptions {
			if s.id == id {
				w.subscriptions = append(w.subscriptions[:i], w.subscriptions[i+1:]...)
				return
			}
		}
	}
}

// Start forwards unit messages and the exit status onto the scheduler.
func (w *Worker) Start() {
	go w.watch()
}

// Send hands task to a ready worker. The callback runs on the scheduler with
// the reply, before the worker turns ready again.
func (w *Worker) Send(ctx context.Context, task any, callback Callback) error {
	w.mux.Lock()
	if w.exited || w.state != StateReady {
		w.mux.Unlock()
		return ErrNotReady
	}
	_, span := tracing.StartSpan(ctx, "worker.task", tracing.KindProducer)
	span.WithAttributes(map[string]string{"worker.id": w.id, "worker.pid": w.unit.ID()})
	w.state = StateBusy
	w.current = &assignment{task: task, callback: callback, span: span}
	w.mux.Unlock()

	if err := w.unit.Send(task); err != nil {
		w.mux.Lock()
		w.current = nil
		w.mux.Unlock()
		tracing.EndSpan(span, err)
		w.logger.Error(err, "failed to send task, killing worker")
		_ = w.unit.Kill()
		return fmt.Errorf("failed to send task to worker %v: %w", w.id, err)
	}
	event := newEvent(EventBusy, w)
	event.Task = task
	w.emit(event)
	return nil
}

// Stop asks the unit to exit gracefully.
func (w *Worker) Stop() error {
	return w.unit.Close()
}

// Kill terminates the unit.
func (w *Worker) Kill() error {
	return w.unit.Kill()
}

func (w *Worker) watch() {
	for msg := range w.unit.Receive() {
		msg := msg
		w.scheduler.Post(func() { w.onMessage(msg) })
	}
	<-w.unit.Done()
	code := w.unit.ExitCode()
	w.scheduler.Post(func() { w.onExit(code) })
}

func (w *Worker) onMessage(msg any) {
	w.mux.Lock()
	if w.exited {
		w.mux.Unlock()
		return
	}
	switch w.state {
	case StateStarting:
		w.state = StateReady
		w.mux.Unlock()
		w.logger.V(1).Info("worker ready")
		w.emit(newEvent(EventReady, w))
	case StateBusy:
		current := w.current
		w.current = nil
		w.mux.Unlock()
		if current != nil {
			w.complete(current, msg)
		}
		w.mux.Lock()
		if !w.exited {
			w.state = StateReady
		}
		w.mux.Unlock()
		w.emit(newEvent(EventReady, w))
	default:
		w.mux.Unlock()
		w.logger.V(1).Info("ignoring unsolicited message")
	}
}

func (w *Worker) complete(a *assignment, result any) {
	tracing.EndSpan(a.span, nil)
	if a.callback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error(fmt.Errorf("%v", r), "task callback panicked", "stack", string(debug.Stack()))
		}
	}()
	a.callback(result)
}

func (w *Worker) onExit(code int) {
	w.mux.Lock()
	if w.exited {
		w.mux.Unlock()
		return
	}
	w.exited = true
	w.exitCode = code
	w.lost = w.current
	w.current = nil
	lost := w.lost
	w.mux.Unlock()

	event := newEvent(EventExit, w)
	event.ExitCode = code
	if lost != nil {
		tracing.EndSpan(lost.span, fmt.Errorf("%w with code %d", ErrExited, code))
		event.Task = lost.task
	}
	w.emit(event)
}

func (w *Worker) emit(event *Event) {
	w.mux.RLock()
	listeners := make([]Listener, 0, len(w.subscriptions))
	for _, s := range w.subscriptions {
		listeners = append(listeners, s.listener)
	}
	w.mux.RUnlock()
	for _, listener := range listeners {
		listener(event)
	}
}

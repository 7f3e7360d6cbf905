package workqueue

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/viant/workqueue/internal/idgen"
	"github.com/viant/workqueue/internal/loop"
	"github.com/viant/workqueue/service/unit"
	"github.com/viant/workqueue/service/unit/process"
	"github.com/viant/workqueue/service/unit/shell"
	"github.com/viant/workqueue/service/worker"
)

// Callback receives the result of a task.
type Callback = worker.Callback

type pendingTask struct {
	task     any
	callback Callback
}

// Queue dispatches tasks onto a fixed pool of workers.
type Queue struct {
	spawner        unit.Spawner
	size           int
	logger         logr.Logger
	listeners      []worker.Listener
	redeliver      bool
	respawn        Respawn
	processOptions []process.Option
	tracingErr     error

	loop   *loop.Loop
	ctx    context.Context // cancelled by Close, aborts respawns
	cancel context.CancelFunc
	closed atomic.Bool

	// owned by the loop goroutine
	pool      []*worker.Worker
	pending   []*pendingTask
	respawns  int
	failures  int
	fresh     map[string]bool // replacements that have not reported ready yet
	timers    map[int]func() bool
	timerSeq  int
	replacing int
	closing   bool
	drained   chan struct{}
}

func defaultLogger() logr.Logger {
	return stdr.New(log.New(os.Stderr, "workqueue ", log.LstdFlags))
}

// New starts a pool of workers created by spawner.
func New(spawner unit.Spawner, options ...Option) (*Queue, error) {
	if spawner == nil {
		return nil, fmt.Errorf("spawner was nil")
	}
	return newQueue(func(*Queue) unit.Spawner { return spawner }, options...)
}

// NewProgram starts a pool of OS processes running program; see package agent
// for the worker side of the protocol.
func NewProgram(program string, options ...Option) (*Queue, error) {
	if program == "" {
		return nil, fmt.Errorf("program was empty")
	}
	return newQueue(func(q *Queue) unit.Spawner {
		opts := append([]process.Option{process.WithLogger(q.logger)}, q.processOptions...)
		return process.New(program, opts...)
	}, options...)
}

// NewFromConfig starts a pool described by cfg. Options are applied after the
// config, so they take precedence.
func NewFromConfig(cfg *Config, options ...Option) (*Queue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	respawn, _ := cfg.Respawn.policy()
	var configured []Option
	if cfg.Tracing.Enabled {
		configured = append(configured, WithTracing(cfg.Tracing.Service, cfg.Tracing.Version, cfg.Tracing.OutputFile))
	}
	configured = append(configured,
		WithPoolSize(cfg.Pool.Size),
		WithRedelivery(cfg.Pool.Redeliver),
		WithRespawn(respawn),
	)
	options = append(configured, options...)
	return newQueue(func(q *Queue) unit.Spawner {
		if cfg.Shell != nil {
			timeout, _ := parseDuration(cfg.Shell.Timeout)
			opts := []shell.Option{
				shell.WithCredentials(cfg.Shell.Credentials),
				shell.WithEnv(cfg.Shell.Env),
				shell.WithDirectory(cfg.Shell.Directory),
				shell.WithLogger(q.logger),
			}
			if cfg.Shell.Host != "" {
				opts = append(opts, shell.WithHost(cfg.Shell.Host))
			}
			if timeout > 0 {
				opts = append(opts, shell.WithTimeout(timeout))
			}
			return shell.New(opts...)
		}
		opts := []process.Option{
			process.WithArgs(cfg.Pool.Args...),
			process.WithEnv(cfg.Pool.Env),
			process.WithDir(cfg.Pool.Dir),
			process.WithLogger(q.logger),
		}
		return process.New(cfg.Pool.Program, append(opts, q.processOptions...)...)
	}, options...)
}

func newQueue(spawner func(q *Queue) unit.Spawner, options ...Option) (*Queue, error) {
	q := &Queue{
		logger:  defaultLogger(),
		respawn: DefaultRespawn(),
		loop:    loop.New(),
		timers:  map[int]func() bool{},
		fresh:   map[string]bool{},
	}
	for _, opt := range options {
		opt(q)
	}
	if q.tracingErr != nil {
		q.logger.Error(q.tracingErr, "failed to initialise tracing")
	}
	if q.size <= 0 {
		q.size = runtime.NumCPU()
	}
	q.spawner = spawner(q)
	q.ctx, q.cancel = context.WithCancel(context.Background())

	units := make([]unit.Unit, 0, q.size)
	for i := 0; i < q.size; i++ {
		u, err := q.spawner.Spawn(q.ctx)
		if err != nil {
			for _, started := range units {
				_ = started.Kill()
				unit.Discard(started)
			}
			q.cancel()
			q.loop.Close()
			return nil, fmt.Errorf("failed to start worker %d of %d: %w", i+1, q.size, err)
		}
		units = append(units, u)
	}
	// workers post onto the loop before it starts; nothing runs until all are attached
	for _, u := range units {
		q.attach(u)
	}
	q.loop.Start(context.Background())
	q.logger.Info("started workers", "size", q.size)
	return q, nil
}

// Size returns the target number of workers.
func (q *Queue) Size() int {
	return q.size
}

// Enqueue adds task to the tail of the queue. It never blocks; dispatch
// happens on the queue goroutine after the task was appended. callback is
// called at most once, with the worker reply.
func (q *Queue) Enqueue(task any, callback Callback) error {
	if q.closed.Load() {
		return ErrClosed
	}
	t := &pendingTask{task: task, callback: callback}
	if !q.loop.Post(func() { q.append(t) }) {
		return ErrClosed
	}
	return nil
}

func (q *Queue) append(t *pendingTask) {
	if q.closing {
		q.logger.V(1).Info("dropping task enqueued during close")
		return
	}
	q.pending = append(q.pending, t)
	q.loop.Post(func() { q.dispatch(nil) })
}

func (q *Queue) attach(u unit.Unit) *worker.Worker {
	options := []worker.Option{worker.WithLogger(q.logger)}
	// user listeners first so they observe ready before the busy it triggers
	options = append(options, worker.WithListeners(q.listeners...))
	options = append(options, worker.WithListeners(q.onEvent))
	w := worker.New(u, q.loop, options...)
	q.pool = append(q.pool, w)
	w.Start()
	return w
}

func (q *Queue) onEvent(event *worker.Event) {
	switch event.Type {
	case worker.EventReady:
		if id := event.Worker.ID(); q.fresh[id] {
			delete(q.fresh, id)
			q.failures = 0
		}
		q.dispatch(event.Worker)
	case worker.EventExit:
		q.onExit(event)
	}
}

func (q *Queue) remove(w *worker.Worker) bool {
	for i, candidate := range q.pool {
		if candidate == w {
			q.pool = append(q.pool[:i], q.pool[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) onExit(event *worker.Event) {
	w := event.Worker
	if !q.remove(w) {
		return
	}
	delete(q.fresh, w.ID())
	logger := q.logger.WithValues("worker", idgen.Short(w.ID()), "pid", w.PID(), "code", event.ExitCode)
	if task, callback, ok := w.InFlight(); ok {
		if q.redeliver && !q.closing {
			q.pending = append([]*pendingTask{{task: task, callback: callback}}, q.pending...)
			q.loop.Post(func() { q.dispatch(nil) })
			logger.Info("redelivering task of exited worker")
		} else {
			logger.Info("task lost with exited worker")
		}
	}
	if q.closing {
		logger.V(1).Info("worker stopped")
		q.checkDrained()
		return
	}
	failure := 0
	if event.ExitCode == 0 {
		logger.Info("worker exited")
		if !q.respawn.OnCleanExit {
			return
		}
	} else {
		logger.Error(worker.ErrExited, "worker crashed, starting a new one")
		q.failures++
		failure = q.failures
	}
	q.replace(failure)
}

package workqueue

import (
	"github.com/go-logr/logr"
	"github.com/viant/workqueue/service/unit/process"
	"github.com/viant/workqueue/service/worker"
	"github.com/viant/workqueue/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Queue.
type Option func(q *Queue)

// WithPoolSize sets the number of workers; n <= 0 means one per CPU.
func WithPoolSize(n int) Option {
	return func(q *Queue) {
		q.size = n
	}
}

// WithLogger sets the logger used by the queue and its workers.
func WithLogger(logger logr.Logger) Option {
	return func(q *Queue) {
		q.logger = logger
	}
}

// WithListener observes the lifecycle events of every worker, replacements
// included. Listeners run on the queue goroutine and must not block.
func WithListener(listener worker.Listener) Option {
	return func(q *Queue) {
		if listener != nil {
			q.listeners = append(q.listeners, listener)
		}
	}
}

// WithRedelivery puts the task of a crashed worker back at the head of the
// queue instead of dropping it.
func WithRedelivery(enabled bool) Option {
	return func(q *Queue) {
		q.redeliver = enabled
	}
}

// WithRespawn sets the replacement policy.
func WithRespawn(respawn Respawn) Option {
	return func(q *Queue) {
		q.respawn = respawn
	}
}

// WithProcessOptions customises the worker program started by NewProgram.
func WithProcessOptions(options ...process.Option) Option {
	return func(q *Queue) {
		q.processOptions = append(q.processOptions, options...)
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins; a
// failure is logged and the queue runs untraced.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(q *Queue) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			q.tracingErr = err
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(q *Queue) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			q.tracingErr = err
		}
	}
}

package worker

import "github.com/go-logr/logr"

// Option customises a Worker.
type Option func(w *Worker)

// WithID overrides the generated identity.
func WithID(id string) Option {
	return func(w *Worker) {
		w.id = id
	}
}

// WithLogger sets the worker logger.
func WithLogger(logger logr.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithListeners subscribes listeners before the worker starts.
func WithListeners(listeners ...Listener) Option {
	return func(w *Worker) {
		for _, l := range listeners {
			if l != nil {
				w.Subscribe(l)
			}
		}
	}
}

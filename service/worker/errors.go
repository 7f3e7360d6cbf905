package worker

import "errors"

var (
	// ErrNotReady is returned by Send when the worker is starting, busy or gone.
	ErrNotReady = errors.New("worker: not ready")

	// ErrExited marks a task abandoned because its worker exited.
	ErrExited = errors.New("worker: exited")
)

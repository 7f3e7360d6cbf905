package workqueue

import "errors"

// ErrClosed is returned by Enqueue and Snapshot once Close was called.
var ErrClosed = errors.New("workqueue: closed")

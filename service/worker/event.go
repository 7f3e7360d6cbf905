package worker

import (
	"time"

	"github.com/viant/workqueue/internal/clock"
)

// EventType identifies a lifecycle notification.
type EventType string

const (
	// EventReady is emitted on every transition into StateReady.
	EventReady EventType = "ready"
	// EventBusy is emitted when a task was handed to the worker.
	EventBusy EventType = "busy"
	// EventExit is emitted once the unit exited.
	EventExit EventType = "exit"
)

// Event is a worker lifecycle notification.
type Event struct {
	Type      EventType `json:"type"`
	Worker    *Worker   `json:"-"`
	WorkerID  string    `json:"workerID"`
	Task      any       `json:"task,omitempty"`     // busy: dispatched task, exit: task lost
	ExitCode  int       `json:"exitCode,omitempty"` // exit only
	CreatedAt time.Time `json:"createdAt"`
}

// Listener receives worker events on the worker scheduler.
type Listener func(event *Event)

func newEvent(eventType EventType, w *Worker) *Event {
	return &Event{
		Type:      eventType,
		Worker:    w,
		WorkerID:  w.id,
		CreatedAt: clock.Now(),
	}
}

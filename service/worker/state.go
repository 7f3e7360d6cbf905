package worker

// State represents the availability of a worker
type State string

const (
	StateStarting State = "STARTING"
	StateReady    State = "READY"
	StateBusy     State = "BUSY"
)

// IsReady returns true when the worker accepts a task.
func (s State) IsReady() bool {
	return s == StateReady
}

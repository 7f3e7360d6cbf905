package unit

import (
	"sync"
)

// Status is a helper for implementations: it records the exit code once and
// closes the done channel.
type Status struct {
	once sync.Once
	mux  sync.RWMutex
	code int
	done chan struct{}
}

// NewStatus creates a Status in the running state.
func NewStatus() *Status {
	return &Status{done: make(chan struct{})}
}

// Exit records code and closes Done. Only the first call has an effect.
func (s *Status) Exit(code int) {
	s.once.Do(func() {
		s.mux.Lock()
		s.code = code
		s.mux.Unlock()
		close(s.done)
	})
}

// Done is closed after Exit.
func (s *Status) Done() <-chan struct{} {
	return s.done
}

// Code returns the recorded exit code.
func (s *Status) Code() int {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.code
}

// Exited reports whether Exit was called.
func (s *Status) Exited() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

package idgen

import "github.com/google/uuid"

// NewFunc generates a worker identity. Tests may replace it to obtain
// deterministic values.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique worker identity.
func New() string { return NewFunc() }

// Short returns the first segment of id, handy for log lines.
func Short(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == '-' {
			return id[:i]
		}
	}
	return id
}

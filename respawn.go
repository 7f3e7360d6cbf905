package workqueue

import (
	"math"
	"time"
)

const (
	defaultMultiplier = 2.0
	defaultMaxDelay   = 30 * time.Second
)

// Respawn controls how exited workers are replaced.
//
// Crashes are counted until a replacement reaches the ready state. With a
// zero Delay replacements start right away; otherwise the n-th consecutive
// failure waits Delay*Multiplier^(n-1), capped at MaxDelay. Once MaxAttempts
// consecutive failures were replaced the queue stops replacing and the pool
// shrinks. Zero MaxAttempts means no limit.
type Respawn struct {
	OnCleanExit bool
	Delay       time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	MaxAttempts int
}

// DefaultRespawn replaces every crashed worker immediately.
func DefaultRespawn() Respawn {
	return Respawn{Multiplier: defaultMultiplier, MaxDelay: defaultMaxDelay}
}

// next reports whether the failure-th consecutive failure gets a replacement
// and after which delay. failure 0 stands for a clean exit.
func (r *Respawn) next(failure int) (bool, time.Duration) {
	if failure == 0 {
		return true, 0
	}
	if r.MaxAttempts > 0 && failure > r.MaxAttempts {
		return false, 0
	}
	if r.Delay <= 0 {
		return true, 0
	}
	mult := r.Multiplier
	if mult < 1 {
		mult = defaultMultiplier
	}
	delay := float64(r.Delay) * math.Pow(mult, float64(failure-1))
	if r.MaxDelay > 0 && delay > float64(r.MaxDelay) {
		delay = float64(r.MaxDelay)
	}
	return true, time.Duration(delay)
}

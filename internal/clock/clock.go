package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// AfterFuncFunc schedules fn after d. Override in tests to fire timers eagerly.
var AfterFuncFunc = func(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// AfterFunc runs fn on its own goroutine once d elapsed; a non-positive d runs
// it right away. The returned function cancels a pending call.
func AfterFunc(d time.Duration, fn func()) (stop func() bool) {
	if d <= 0 {
		go fn()
		return func() bool { return false }
	}
	return AfterFuncFunc(d, fn)
}

// Package worker wraps one execution unit with the state machine the work
// queue dispatches against.
//
// A Worker starts in StateStarting, becomes StateReady on the first message
// its unit produces, turns StateBusy when a task is sent and back to
// StateReady once the reply arrived and the task callback ran. Exit is not a
// state: it is reported as an EventExit and the worker is discarded.
//
// All transitions happen on the Scheduler the worker was created with, so
// listeners and callbacks never run concurrently with each other.
package worker

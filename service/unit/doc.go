// Package unit defines the boundary between the work queue and an isolated
// execution unit: something that can be started, exchanges structured
// messages with the controller, and eventually exits.
//
// The first message a unit produces is its readiness signal; every later
// message is the reply to the most recent payload sent to it. There are no
// request identifiers, a unit handles one payload at a time.
//
// Implementations live in sub-packages:
//
//   - process – an OS child process speaking newline-delimited JSON
//   - shell   – a persistent gosh shell session, local or over ssh
//   - memory  – an in-process goroutine, for embedding and tests
package unit

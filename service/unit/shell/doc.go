// Package shell runs execution units as persistent gosh shell sessions.
//
// Every unit owns one session, on the local host (bash://localhost/) or on a
// remote host reached over ssh. A task is a command line; the reply is a
// Result holding the command output and status. A transport error from the
// session is fatal to the unit: it exits with status 1 so the work queue
// replaces it with a fresh session.
package shell

// Package process runs execution units as OS child processes.
//
// The controller talks to a child over its standard streams using
// newline-delimited JSON: one task per line on stdin, one message per line on
// stdout. The first stdout line is the readiness signal, each later line is
// the reply to the latest task. Stdout lines that are not valid JSON are
// logged and skipped. Closing stdin asks the child to exit; see package agent
// for the worker-program side.
package process

// Package memory implements unit.Unit with a goroutine running a handler
// function. It follows the same protocol as a worker process: a readiness
// signal first, then exactly one reply per payload. A handler can simulate a
// crash by returning Exit(code).
package memory

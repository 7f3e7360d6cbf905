// Package agent implements the worker-program side of the process protocol.
//
// A worker program is any executable that reads newline-delimited JSON
// tasks on stdin and writes exactly one JSON reply line per task on stdout,
// after first writing a single readiness line. With this package a Go worker
// program is:
//
//	func main() {
//	    err := agent.Serve(context.Background(), agent.Typed(func(ctx context.Context, n int) (int, error) {
//	        return fibo(n), nil
//	    }))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// Serve returns nil once stdin is closed, which the controller does to stop
// a worker gracefully. A handler error is returned from Serve; exiting with a
// non-zero status then makes the controller replace the worker.
package agent

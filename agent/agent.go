package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const maxLineSize = 64 * 1024 * 1024

// Handler computes the reply for one task.
type Handler func(ctx context.Context, task json.RawMessage) (any, error)

// Typed adapts a function taking a decoded task.
func Typed[T any, R any](fn func(ctx context.Context, task T) (R, error)) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var task T
		if err := json.Unmarshal(raw, &task); err != nil {
			return nil, fmt.Errorf("failed to decode task %s: %w", raw, err)
		}
		return fn(ctx, task)
	}
}

// Option customises Serve.
type Option func(a *Agent)

// WithInput replaces os.Stdin.
func WithInput(r io.Reader) Option {
	return func(a *Agent) { a.input = r }
}

// WithOutput replaces os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *Agent) { a.output = w }
}

// WithReadyPayload changes the readiness line content; the controller only
// cares that a line is there.
func WithReadyPayload(payload any) Option {
	return func(a *Agent) { a.ready = payload }
}

// Agent serves tasks from input to output.
type Agent struct {
	input   io.Reader
	output  io.Writer
	ready   any
	handler Handler
}

// New creates an agent reading os.Stdin and writing os.Stdout.
func New(handler Handler, options ...Option) *Agent {
	ret := &Agent{
		input:   os.Stdin,
		output:  os.Stdout,
		ready:   "READY",
		handler: handler,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Serve is a shortcut for New(handler, options...).Serve(ctx).
func Serve(ctx context.Context, handler Handler, options ...Option) error {
	return New(handler, options...).Serve(ctx)
}

// Serve signals readiness, then handles tasks until input ends.
func (a *Agent) Serve(ctx context.Context) error {
	encoder := json.NewEncoder(a.output)
	if err := encoder.Encode(a.ready); err != nil {
		return fmt.Errorf("failed to signal readiness: %w", err)
	}
	scanner := bufio.NewScanner(a.input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		task := make(json.RawMessage, len(line))
		copy(task, line)
		result, err := a.handler(ctx, task)
		if err != nil {
			return fmt.Errorf("task %s failed: %w", task, err)
		}
		if err = encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	return scanner.Err()
}

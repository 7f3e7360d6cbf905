package process

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/go-logr/logr"
	"github.com/viant/workqueue/service/unit"
)

const maxLineSize = 64 * 1024 * 1024

// Process is a running child process.
type Process struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	encoder *json.Encoder
	outbox  chan any
	status  *unit.Status
	logger  logr.Logger
	mux     sync.Mutex
	closed  bool
}

func newProcess(cmd *exec.Cmd, stdin io.WriteCloser, logger logr.Logger) *Process {
	pid := strconv.Itoa(cmd.Process.Pid)
	return &Process{
		cmd:     cmd,
		stdin:   stdin,
		encoder: json.NewEncoder(stdin),
		outbox:  make(chan any),
		status:  unit.NewStatus(),
		logger:  logger.WithValues("pid", pid),
	}
}

// ID returns the OS pid.
func (p *Process) ID() string {
	return strconv.Itoa(p.cmd.Process.Pid)
}

// Send writes payload as one JSON line to the child stdin.
func (p *Process) Send(payload any) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.closed || p.status.Exited() {
		return unit.ErrClosed
	}
	return p.encoder.Encode(payload)
}

// Receive delivers stdout lines as json.RawMessage.
func (p *Process) Receive() <-chan any { return p.outbox }

// Done is closed once the child was reaped.
func (p *Process) Done() <-chan struct{} { return p.status.Done() }

// ExitCode returns the child exit status, unit.ExitUnknown when signalled.
func (p *Process) ExitCode() int { return p.status.Code() }

// Close closes the child stdin.
func (p *Process) Close() error {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.stdin.Close()
}

// Kill sends SIGKILL to the child.
func (p *Process) Kill() error {
	if p.status.Exited() {
		return nil
	}
	err := p.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (p *Process) read(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			p.logger.Info("skipping non JSON output", "line", string(line))
			continue
		}
		msg := make(json.RawMessage, len(line))
		copy(msg, line)
		p.outbox <- msg
	}
	if err := scanner.Err(); err != nil {
		p.logger.Error(err, "failed to read child output, killing")
		_ = p.cmd.Process.Kill()
		_, _ = io.Copy(io.Discard, stdout)
	}
	close(p.outbox)

	code := 0
	if err := p.cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = unit.ExitUnknown
		}
	}
	p.status.Exit(code)
}

var _ unit.Unit = (*Process)(nil)

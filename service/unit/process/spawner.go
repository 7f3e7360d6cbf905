package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/go-logr/logr"
	"github.com/viant/workqueue/service/unit"
)

// Spawner starts child processes of one program.
type Spawner struct {
	program string
	args    []string
	env     map[string]string
	dir     string
	stderr  io.Writer
	logger  logr.Logger
}

// New creates a spawner for program.
func New(program string, options ...Option) *Spawner {
	ret := &Spawner{
		program: program,
		stderr:  os.Stderr,
		logger:  logr.Discard(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Program returns the executable path.
func (s *Spawner) Program() string {
	return s.program
}

// Spawn starts a child process. The child outlives ctx; ctx only guards the
// start itself.
func (s *Spawner) Spawn(ctx context.Context) (unit.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cmd := exec.Command(s.program, s.args...)
	cmd.Dir = s.dir
	cmd.Stderr = s.stderr
	if len(s.env) > 0 {
		cmd.Env = append(os.Environ(), s.environ()...)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin of %v: %w", s.program, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout of %v: %w", s.program, err)
	}
	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %v: %w", s.program, err)
	}
	ret := newProcess(cmd, stdin, s.logger)
	go ret.read(stdout)
	return ret, nil
}

func (s *Spawner) environ() []string {
	keys := make([]string, 0, len(s.env))
	for k := range s.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ret := make([]string, 0, len(keys))
	for _, k := range keys {
		ret = append(ret, k+"="+s.env[k])
	}
	return ret
}

var _ unit.Spawner = (*Spawner)(nil)

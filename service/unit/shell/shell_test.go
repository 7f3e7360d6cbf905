package shell

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/workqueue/service/unit"
	"golang.org/x/crypto/ssh"
)

func TestCommandLine(t *testing.T) {
	testCases := []struct {
		name      string
		task      any
		expect    string
		expectErr bool
	}{
		{name: "string", task: "ls -la", expect: "ls -la"},
		{name: "command", task: Command{Line: "pwd"}, expect: "pwd"},
		{name: "command pointer", task: &Command{Line: "id"}, expect: "id"},
		{name: "json string", task: json.RawMessage(`"echo 1"`), expect: "echo 1"},
		{name: "json command", task: json.RawMessage(`{"line":"echo 2"}`), expect: "echo 2"},
		{name: "nil pointer", task: (*Command)(nil), expectErr: true},
		{name: "unsupported", task: 12, expectErr: true},
		{name: "invalid json", task: json.RawMessage(`[1]`), expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := commandLine(tc.task)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, actual)
		})
	}
}

func TestSpawner_Host(t *testing.T) {
	assert.Equal(t, "localhost", New().Host())
	assert.Equal(t, "build-01:2222", New(WithHost("ssh://build-01:2222/")).Host())
}

func TestSpawner_ClientConfig(t *testing.T) {
	config := &ssh.ClientConfig{User: "builder", HostKeyCallback: ssh.InsecureIgnoreHostKey()}
	spawner := New(WithHost("ssh://build-01:2222/"), WithSSHConfig(config))
	actual, err := spawner.clientConfig(context.Background())
	require.NoError(t, err)
	assert.Same(t, config, actual)
}

func TestSession_Local(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
	u, err := New(WithEnv(map[string]string{"WORKQUEUE_GREETING": "hello"})).Spawn(context.Background())
	require.NoError(t, err)
	defer u.Kill()

	next := func() any {
		select {
		case msg := <-u.Receive():
			return msg
		case <-time.After(10 * time.Second):
			t.Fatal("timeout waiting for session")
		}
		return nil
	}
	assert.Equal(t, unit.Ready, next())

	require.NoError(t, u.Send("echo $WORKQUEUE_GREETING"))
	result, ok := next().(*Result)
	require.True(t, ok)
	assert.Equal(t, "hello", strings.TrimSpace(result.Stdout))
	assert.Equal(t, 0, result.Status)

	require.NoError(t, u.Close())
	select {
	case <-u.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("session did not exit")
	}
	assert.Equal(t, 0, u.ExitCode())
}

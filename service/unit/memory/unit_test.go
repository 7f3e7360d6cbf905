package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/workqueue/service/unit"
)

func receive(t *testing.T, u unit.Unit) any {
	t.Helper()
	select {
	case msg, ok := <-u.Receive():
		require.True(t, ok, "receive channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
	return nil
}

func waitDone(t *testing.T, u unit.Unit) {
	t.Helper()
	select {
	case <-u.Done():
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for exit")
	}
}

func TestUnit_Protocol(t *testing.T) {
	spawner := New(func(ctx context.Context, task any) (any, error) {
		return task.(int) * 2, nil
	})
	u, err := spawner.Spawn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, spawner.Spawned())

	assert.Equal(t, unit.Ready, receive(t, u))
	require.NoError(t, u.Send(21))
	assert.Equal(t, 42, receive(t, u))

	require.NoError(t, u.Close())
	waitDone(t, u)
	assert.Equal(t, 0, u.ExitCode())
	assert.ErrorIs(t, u.Send(1), unit.ErrClosed)
}

func TestUnit_Exit(t *testing.T) {
	testCases := []struct {
		name    string
		handler Handler
		expect  int
	}{
		{
			name:    "explicit exit",
			handler: func(ctx context.Context, task any) (any, error) { return nil, Exit(7) },
			expect:  7,
		},
		{
			name:    "handler error",
			handler: func(ctx context.Context, task any) (any, error) { return nil, errors.New("boom") },
			expect:  1,
		},
		{
			name:    "panic",
			handler: func(ctx context.Context, task any) (any, error) { panic("boom") },
			expect:  panicExitCode,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := New(tc.handler).Spawn(context.Background())
			require.NoError(t, err)
			assert.Equal(t, unit.Ready, receive(t, u))
			require.NoError(t, u.Send("task"))
			waitDone(t, u)
			assert.Equal(t, tc.expect, u.ExitCode())
			_, ok := <-u.Receive()
			assert.False(t, ok)
		})
	}
}

func TestUnit_Kill(t *testing.T) {
	u, err := New(func(ctx context.Context, task any) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithoutReadySignal()).Spawn(context.Background())
	require.NoError(t, err)
	require.NoError(t, u.Kill())
	waitDone(t, u)
	assert.Equal(t, unit.ExitUnknown, u.ExitCode())
}

func TestUnit_ReadyDelay(t *testing.T) {
	u, err := New(func(ctx context.Context, task any) (any, error) { return task, nil },
		WithReadyDelay(20*time.Millisecond)).Spawn(context.Background())
	require.NoError(t, err)
	started := time.Now()
	assert.Equal(t, unit.Ready, receive(t, u))
	assert.GreaterOrEqual(t, time.Since(started), 15*time.Millisecond)
	_ = u.Kill()
}

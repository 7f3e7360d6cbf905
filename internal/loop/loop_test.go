package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_Order(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)

	var order []int
	for i := 0; i < 100; i++ {
		i := i
		assert.True(t, l.Post(func() { order = append(order, i) }))
	}
	require.NoError(t, l.Do(ctx, func() {}))
	require.Len(t, order, 100)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestLoop_DeferredPost(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var order []string
	// posted before Start so all three land in the same batch
	for _, name := range []string{"a", "b", "c"} {
		name := name
		l.Post(func() {
			order = append(order, "append "+name)
			l.Post(func() { order = append(order, "dispatch "+name) })
		})
	}
	l.Start(ctx)
	require.NoError(t, l.Do(ctx, func() {}))
	require.NoError(t, l.Do(ctx, func() {}))
	assert.Equal(t, []string{
		"append a", "append b", "append c",
		"dispatch a", "dispatch b", "dispatch c",
	}, order)
}

func TestLoop_SingleGoroutine(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Post(func() { counter++ })
			}
		}()
	}
	wg.Wait()
	require.NoError(t, l.Do(ctx, func() {}))
	assert.Equal(t, 1000, counter)
}

func TestLoop_Close(t *testing.T) {
	l := New()
	ctx := context.Background()
	l.Start(ctx)

	ran := false
	l.Post(func() { ran = true })
	l.Close()

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.True(t, ran)
	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Do(ctx, func() {}), ErrClosed)
}

func TestLoop_ContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	l.Start(ctx)
	cancel()
	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.False(t, l.Post(func() {}))
}

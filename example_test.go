package workqueue_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/viant/workqueue"
	"github.com/viant/workqueue/service/unit/memory"
)

func ExampleQueue_Enqueue() {
	spawner := memory.New(func(ctx context.Context, task any) (any, error) {
		return strings.ToUpper(task.(string)), nil
	})
	q, err := workqueue.New(spawner, workqueue.WithPoolSize(1), workqueue.WithLogger(logr.Discard()))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer q.Close(context.Background())

	var wg sync.WaitGroup
	for _, word := range []string{"alpha", "beta"} {
		wg.Add(1)
		_ = q.Enqueue(word, func(result any) {
			defer wg.Done()
			fmt.Println(result)
		})
	}
	wg.Wait()
	// Output:
	// ALPHA
	// BETA
}

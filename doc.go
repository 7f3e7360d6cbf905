// Package workqueue offloads units of work onto a fixed pool of worker
// processes so the caller never blocks on the computation.
//
// A Queue spawns its workers up front, keeps incoming tasks in arrival order
// and hands each one to exactly one ready worker. Results come back through
// the callback given to Enqueue. A worker that crashes is removed from the
// pool and replaced; the task it was processing is lost unless redelivery is
// enabled.
//
//	q, err := workqueue.NewProgram("./hasher", workqueue.WithPoolSize(4))
//	if err != nil {
//		return err
//	}
//	defer q.Close(ctx)
//	_ = q.Enqueue(map[string]any{"file": "a.bin"}, func(result any) {
//		digest, _ := workqueue.Decode[string](result)
//		fmt.Println(digest)
//	})
//
// The worker side of the process protocol lives in package agent. Tasks can
// also run in shell sessions (service/unit/shell) or in goroutines
// (service/unit/memory).
//
// Callbacks and listeners run on the queue's own goroutine, one at a time.
// They may call Enqueue but must not block.
package workqueue

// Package loop provides the controller's single logical thread of control.
//
// Functions posted to a Loop run one at a time, in posting order, on a
// single goroutine. Posting never blocks: the mailbox is unbounded. A function
// running on the loop may post further functions; they run after everything
// that was already queued, which is how the work queue defers a dispatch
// attempt until a burst of enqueues has landed.
package loop

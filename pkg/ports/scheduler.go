package ports

import "context"

// Scheduler is the cooperative event loop that owns an editor session.
// Every callback it runs (posted tasks, frame callbacks and async
// completions) runs on the loop, one at a time.
type Scheduler interface {
	// Post queues fn to run on the loop.
	Post(fn func())

	// AfterFrame runs fn on the loop after one frame interval.
	// Calling cancel before fn runs prevents it from running.
	AfterFrame(fn func()) (cancel func())

	// Async runs work off the loop and then runs done on the loop.
	// In-flight work cannot be aborted.
	Async(work func(), done func())
}

// EventLoop is a Scheduler that can be driven from outside the loop.
type EventLoop interface {
	Scheduler

	// Run processes callbacks until ctx is done.
	Run(ctx context.Context) error

	// Do runs fn on the loop and waits for it to return.
	Do(ctx context.Context, fn func()) error

	// WaitIdle blocks until no posted tasks, frame callbacks or async
	// jobs are outstanding.
	WaitIdle(ctx context.Context) error
}

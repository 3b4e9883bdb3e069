// Package eventloop provides the goroutine-backed scheduler that owns an
// editor session.
package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/avatarcrop/pkg/ports"
)

// DefaultFrameInterval approximates one display frame at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop runs callbacks one at a time on the goroutine that calls Run.
// Frame callbacks are backed by time.AfterFunc and async work runs on its
// own goroutine; both hand their callback back to the loop queue.
type Loop struct {
	interval time.Duration

	qmu    sync.Mutex
	queue  []func()
	signal chan struct{}

	// Outstanding tasks, frames and async jobs.
	mu      sync.Mutex
	pending int
	idle    []chan struct{}
}

// New creates a loop with the given frame interval.
// A non-positive interval uses DefaultFrameInterval.
func New(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{
		interval: interval,
		signal:   make(chan struct{}, 1),
	}
}

// Interval returns the frame interval.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Run processes queued callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.signal:
			for {
				fn := l.next()
				if fn == nil {
					break
				}
				fn()
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
		}
	}
}

func (l *Loop) next() func() {
	l.qmu.Lock()
	defer l.qmu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

func (l *Loop) enqueue(fn func()) {
	l.qmu.Lock()
	l.queue = append(l.queue, fn)
	l.qmu.Unlock()
	select {
	case l.signal <- struct{}{}:
	default:
	}
}

func (l *Loop) acquire() {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
}

func (l *Loop) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending--
	if l.pending > 0 {
		return
	}
	for _, ch := range l.idle {
		close(ch)
	}
	l.idle = nil
}

// Post queues fn to run on the loop.
func (l *Loop) Post(fn func()) {
	l.acquire()
	l.enqueue(func() {
		defer l.release()
		fn()
	})
}

// AfterFrame runs fn on the loop after one frame interval.
// cancel must be called on the loop.
func (l *Loop) AfterFrame(fn func()) func() {
	l.acquire()
	var cancelled atomic.Bool
	var timer *time.Timer
	timer = time.AfterFunc(l.interval, func() {
		l.enqueue(func() {
			defer l.release()
			if cancelled.Swap(true) {
				return
			}
			fn()
		})
	})
	return func() {
		if cancelled.Swap(true) {
			return
		}
		// A stopped timer never enqueues, so nothing else releases it.
		if timer.Stop() {
			l.release()
		}
	}
}

// Async runs work on a new goroutine and then queues done on the loop.
func (l *Loop) Async(work func(), done func()) {
	l.acquire()
	go func() {
		work()
		l.enqueue(func() {
			defer l.release()
			done()
		})
	}()
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitIdle blocks until no task, frame or async job is outstanding.
// The loop must be running.
func (l *Loop) WaitIdle(ctx context.Context) error {
	l.mu.Lock()
	if l.pending == 0 {
		l.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	l.idle = append(l.idle, ch)
	l.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ ports.EventLoop = (*Loop)(nil)

package mocks

import (
	"context"

	"github.com/user/avatarcrop/pkg/ports"
)

// Scheduler is a manually driven ports.Scheduler for single-threaded tests.
// Posted tasks run inline. Frame callbacks wait for FlushFrames. Async jobs
// run inline when Inline is set, otherwise they wait for Complete.
type Scheduler struct {
	Inline bool

	frames []*frameTask
	jobs   []*AsyncJob
}

type frameTask struct {
	fn        func()
	cancelled bool
}

// AsyncJob is a queued Async call.
type AsyncJob struct {
	work func()
	done func()
	ran  bool
}

// NewScheduler creates a scheduler; inline controls whether Async work completes immediately.
func NewScheduler(inline bool) *Scheduler {
	return &Scheduler{Inline: inline}
}

func (m *Scheduler) Post(fn func()) {
	fn()
}

func (m *Scheduler) AfterFrame(fn func()) func() {
	task := &frameTask{fn: fn}
	m.frames = append(m.frames, task)
	return func() { task.cancelled = true }
}

func (m *Scheduler) Async(work func(), done func()) {
	if m.Inline {
		work()
		done()
		return
	}
	m.jobs = append(m.jobs, &AsyncJob{work: work, done: done})
}

// PendingFrames returns the number of frame callbacks not yet run or cancelled.
func (m *Scheduler) PendingFrames() int {
	n := 0
	for _, f := range m.frames {
		if !f.cancelled {
			n++
		}
	}
	return n
}

// FlushFrames runs pending frame callbacks, including ones they schedule.
func (m *Scheduler) FlushFrames() {
	for len(m.frames) > 0 {
		frames := m.frames
		m.frames = nil
		for _, f := range frames {
			if !f.cancelled {
				f.cancelled = true
				f.fn()
			}
		}
	}
}

// PendingJobs returns the number of async jobs not yet completed.
func (m *Scheduler) PendingJobs() int {
	n := 0
	for _, j := range m.jobs {
		if !j.ran {
			n++
		}
	}
	return n
}

// Job returns the i-th queued async job.
func (m *Scheduler) Job(i int) *AsyncJob {
	return m.jobs[i]
}

// Complete runs the work and completion of the i-th job.
func (m *Scheduler) Complete(i int) {
	j := m.jobs[i]
	if j.ran {
		return
	}
	j.ran = true
	j.work()
	j.done()
}

// CompleteAll completes queued jobs in order, including ones they queue.
func (m *Scheduler) CompleteAll() {
	for i := 0; i < len(m.jobs); i++ {
		m.Complete(i)
	}
}

// Settle alternates frames and jobs until nothing is pending.
func (m *Scheduler) Settle() {
	for m.PendingFrames() > 0 || m.PendingJobs() > 0 {
		m.CompleteAll()
		m.FlushFrames()
	}
}

// Run blocks until ctx is done. Work runs on the caller of Do instead.
func (m *Scheduler) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Do runs fn inline.
func (m *Scheduler) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// WaitIdle settles all pending frames and jobs.
func (m *Scheduler) WaitIdle(ctx context.Context) error {
	m.Settle()
	return ctx.Err()
}

var _ ports.EventLoop = (*Scheduler)(nil)

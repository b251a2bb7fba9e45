// Package loop runs repeating tasks and posted callbacks on a single
// goroutine. Nothing scheduled through a Loop ever runs concurrently with
// anything else scheduled through the same Loop.
package loop

import (
	"context"
	"sync/atomic"
	"time"
)

// idleWait bounds how long Run sleeps when no task is scheduled.
const idleWait = time.Second

// Task is a repeating callback registered with Every.
type Task struct {
	period  time.Duration
	next    time.Time
	fn      func(now time.Time)
	stopped atomic.Bool
}

// Stop prevents any further run of the task. Safe from any goroutine.
func (t *Task) Stop() { t.stopped.Store(true) }

// Stopped reports whether Stop has been called.
func (t *Task) Stopped() bool { return t.stopped.Load() }

// Loop is a cooperative scheduler. Every and Step belong to the loop
// goroutine (or to setup code before Run); Post may be called from anywhere.
type Loop struct {
	now    func() time.Time
	tasks  []*Task
	posted chan func()
	done   chan struct{}
}

type Option func(*Loop)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

func New(opts ...Option) *Loop {
	l := &Loop{
		now:    time.Now,
		posted: make(chan func(), 64),
		done:   make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Every registers fn to run each period, first at now+period. It panics on
// a non-positive period, as time.NewTicker does.
func (l *Loop) Every(period time.Duration, fn func(now time.Time)) *Task {
	if period <= 0 {
		panic("loop: non-positive period")
	}
	t := &Task{period: period, next: l.now().Add(period), fn: fn}
	l.tasks = append(l.tasks, t)
	return t
}

// Post queues fn to run on the loop goroutine. It returns false once the
// loop has exited, in which case fn will never run.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.posted <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Step runs every task due at now, in registration order. A task that fell
// behind by several periods runs once and is rescheduled from now.
func (l *Loop) Step(now time.Time) {
	for _, t := range l.tasks {
		if t.Stopped() || now.Before(t.next) {
			continue
		}
		t.fn(now)
		t.next = t.next.Add(t.period)
		if !t.next.After(now) {
			t.next = now.Add(t.period)
		}
	}
	l.prune()
}

func (l *Loop) prune() {
	live := l.tasks[:0]
	for _, t := range l.tasks {
		if !t.Stopped() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(l.tasks); i++ {
		l.tasks[i] = nil
	}
	l.tasks = live
}

// Pending returns the number of tasks that have not been stopped.
func (l *Loop) Pending() int {
	n := 0
	for _, t := range l.tasks {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

func (l *Loop) untilNext(now time.Time) time.Duration {
	wait := idleWait
	for _, t := range l.tasks {
		if t.Stopped() {
			continue
		}
		if d := t.next.Sub(now); d < wait {
			wait = d
		}
	}
	if wait < 0 {
		wait = 0
	}
	return wait
}

// Run drives the loop until ctx is cancelled. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		now := l.now()
		l.Step(now)
		timer.Reset(l.untilNext(now))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.posted:
			fn()
		case <-timer.C:
		}
	}
}

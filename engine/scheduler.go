package engine

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval paces frame callbacks at ~60 Hz
const DefaultFrameInterval = 16 * time.Millisecond

// ErrSchedulerRunning is returned when Run is entered twice
var ErrSchedulerRunning = errors.New("scheduler already running")

// Scheduler is the single cooperative execution thread for effects
// Timers, frame callbacks and posted work all run on the goroutine that calls Run,
// or inline during Advance/RunPending when driven by a MockClock in tests
type Scheduler struct {
	clock         Clock
	frameInterval time.Duration

	mu    sync.Mutex
	queue taskHeap
	posts []func()
	seq   uint64

	wake    chan struct{}
	running atomic.Bool
}

// NewScheduler creates a scheduler on the given clock
// frameInterval <= 0 selects DefaultFrameInterval
func NewScheduler(clock Clock, frameInterval time.Duration) *Scheduler {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Scheduler{
		clock:         clock,
		frameInterval: frameInterval,
		wake:          make(chan struct{}, 1),
	}
}

// Now returns the scheduler's current time
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// FrameInterval returns the frame pacing interval
func (s *Scheduler) FrameInterval() time.Duration {
	return s.frameInterval
}

// After runs fn once, d from now
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	return s.schedule(&Task{fn: fn, at: s.clock.Now().Add(d)})
}

// Every runs fn every d until cancelled, first run d from now
func (s *Scheduler) Every(d time.Duration, fn func()) *Task {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.schedule(&Task{fn: fn, at: s.clock.Now().Add(d), every: d})
}

// RequestFrame runs fn on the next frame with the frame timestamp
func (s *Scheduler) RequestFrame(fn func(now time.Time)) *Task {
	return s.After(s.frameInterval, func() {
		fn(s.clock.Now())
	})
}

// Post queues fn to run on the scheduler goroutine, preserving post order
// Safe to call from any goroutine
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.posts = append(s.posts, fn)
	s.mu.Unlock()
	s.signal()
}

func (s *Scheduler) schedule(t *Task) *Task {
	s.mu.Lock()
	s.seq++
	t.seq = s.seq
	heap.Push(&s.queue, t)
	s.mu.Unlock()
	s.signal()
	return t
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks that may still run
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.queue {
		if t.Active() {
			n++
		}
	}
	return n
}

// RunPending executes posted work and every task due at the current time
// Returns the number of callbacks run
func (s *Scheduler) RunPending() int {
	ran := 0
	for {
		s.mu.Lock()
		posts := s.posts
		s.posts = nil
		s.mu.Unlock()

		for _, fn := range posts {
			fn()
			ran++
		}

		t := s.popDue(s.clock.Now())
		if t == nil {
			if len(posts) == 0 {
				return ran
			}
			continue
		}
		s.fire(t)
		ran++
	}
}

// popDue removes and returns the earliest active task due at or before now
func (s *Scheduler) popDue(now time.Time) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.queue.Len() > 0 {
		top := s.queue[0]
		if !top.Active() {
			heap.Pop(&s.queue)
			continue
		}
		if top.at.After(now) {
			return nil
		}
		return heap.Pop(&s.queue).(*Task)
	}
	return nil
}

// nextDeadline returns the earliest active deadline
func (s *Scheduler) nextDeadline() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.queue.Len() > 0 {
		top := s.queue[0]
		if top.Active() {
			return top.at, true
		}
		heap.Pop(&s.queue)
	}
	return time.Time{}, false
}

func (s *Scheduler) fire(t *Task) {
	t.fn()

	if t.every <= 0 {
		t.state.CompareAndSwap(taskPending, taskDone)
		return
	}
	if !t.Active() {
		return
	}

	// Drift correction: skip missed periods instead of bursting
	next := t.at.Add(t.every)
	if now := s.clock.Now(); now.Sub(next) > t.every*2 {
		next = now.Add(t.every)
	}
	t.at = next

	s.mu.Lock()
	s.seq++
	t.seq = s.seq
	heap.Push(&s.queue, t)
	s.mu.Unlock()
}

// Advance steps a MockClock forward by d, firing every task in deadline order
// Panics if the scheduler was not built on a *MockClock
func (s *Scheduler) Advance(d time.Duration) {
	mock, ok := s.clock.(*MockClock)
	if !ok {
		panic("engine: Advance requires a MockClock")
	}
	target := mock.Now().Add(d)
	for {
		s.RunPending()
		next, ok := s.nextDeadline()
		if !ok || next.After(target) {
			break
		}
		mock.Set(next)
	}
	mock.Set(target)
	s.RunPending()
}

// Run executes the scheduler on the calling goroutine until ctx is done
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSchedulerRunning
	}
	defer s.running.Store(false)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		s.RunPending()

		wait := time.Hour
		if next, ok := s.nextDeadline(); ok {
			wait = next.Sub(s.clock.Now())
			if wait < 0 {
				wait = 0
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timer.C:
		}
	}
}

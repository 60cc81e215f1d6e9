package engine

import (
	"sync/atomic"
	"time"
)

const (
	taskPending uint32 = iota
	taskDone
	taskCancelled
)

// Task is a cancellable handle to a scheduled callback
type Task struct {
	fn    func()
	at    time.Time
	every time.Duration
	seq   uint64
	index int

	state atomic.Uint32
}

// Cancel prevents any future run of the task; safe on nil and from any goroutine
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.state.CompareAndSwap(taskPending, taskCancelled)
}

// Active reports whether the task may still run
func (t *Task) Active() bool {
	return t != nil && t.state.Load() == taskPending
}

// TaskGroup tracks the timers owned by one effect kind so they can be superseded together
// Used from the scheduler goroutine only
type TaskGroup struct {
	tasks []*Task
}

// Add records t and returns it
func (g *TaskGroup) Add(t *Task) *Task {
	live := g.tasks[:0]
	for _, old := range g.tasks {
		if old.Active() {
			live = append(live, old)
		}
	}
	clear(g.tasks[len(live):])
	g.tasks = append(live, t)
	return t
}

// Cancel cancels every recorded task
func (g *TaskGroup) Cancel() {
	for _, t := range g.tasks {
		t.Cancel()
	}
	clear(g.tasks)
	g.tasks = g.tasks[:0]
}

// Active reports whether any recorded task may still run
func (g *TaskGroup) Active() bool {
	for _, t := range g.tasks {
		if t.Active() {
			return true
		}
	}
	return false
}

// taskHeap orders tasks by deadline, then by scheduling order
type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*Task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

package engine

import (
	"time"

	"github.com/lixenwraith/canvas-fx/physics"
)

// Loop is the per-frame simulation driver for the particle store
// It reschedules itself while particles or emitters remain and stops when the store drains
type Loop struct {
	sched   *Scheduler
	store   *physics.Store
	surface physics.Surface
	margin  float64

	running bool
	last    time.Time
	frame   *Task
	ticks   uint64
}

// NewLoop creates a stopped loop over store, painting through surface
func NewLoop(sched *Scheduler, store *physics.Store, surface physics.Surface) *Loop {
	return &Loop{
		sched:   sched,
		store:   store,
		surface: surface,
		margin:  physics.DefaultMargin,
	}
}

// Start schedules the first tick; no-op while running
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.last = l.sched.Now()
	l.frame = l.sched.RequestFrame(l.Tick)
}

// Stop cancels the pending tick
func (l *Loop) Stop() {
	l.running = false
	l.frame.Cancel()
	l.frame = nil
}

// Running reports whether a tick is scheduled
func (l *Loop) Running() bool {
	return l.running
}

// Ticks returns the number of ticks processed since creation
func (l *Loop) Ticks() uint64 {
	return l.ticks
}

// Tick advances the simulation to now and reschedules itself while work remains
func (l *Loop) Tick(now time.Time) {
	if !l.running {
		return
	}
	dt := now.Sub(l.last).Seconds()
	if dt < 0 {
		dt = 0
	}
	l.last = now
	l.ticks++

	l.store.Step(dt, l.surface, l.margin)

	// Exactly one pending frame, even when Tick is driven directly
	l.frame.Cancel()
	if l.store.Empty() {
		l.running = false
		l.frame = nil
		return
	}
	l.frame = l.sched.RequestFrame(l.Tick)
}

package physics

import "math"

// SpawnFunc releases n particles built from an emitter's template
type SpawnFunc func(n int)

// Emitter releases Total particles at a uniform rate over Duration seconds
type Emitter struct {
	Total    int
	Duration float64
	Elapsed  float64
	Spawned  int

	spawn SpawnFunc
}

// NewEmitter creates an emitter; duration must be positive
func NewEmitter(total int, duration float64, spawn SpawnFunc) *Emitter {
	if total < 0 {
		total = 0
	}
	return &Emitter{
		Total:    total,
		Duration: duration,
		spawn:    spawn,
	}
}

// Target returns floor(min(elapsed/duration, 1) * total)
func (e *Emitter) Target() int {
	if e.Duration <= 0 {
		return e.Total
	}
	progress := math.Min(e.Elapsed/e.Duration, 1)
	return int(math.Floor(progress * float64(e.Total)))
}

// Advance adds dt to elapsed, spawns up to the target count and reports whether the emitter is still live
func (e *Emitter) Advance(dt float64) bool {
	e.Elapsed += dt
	if target := e.Target(); target > e.Spawned {
		n := target - e.Spawned
		e.Spawned = target
		if e.spawn != nil {
			e.spawn(n)
		}
	}
	return e.Elapsed < e.Duration
}

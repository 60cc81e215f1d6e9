package fx

import (
	"time"

	"github.com/lixenwraith/canvas-fx/engine"
)

// Shake magnitudes in px
const (
	shakeMild    = 3.0
	shakeHeavy   = 10.0
	shakeExtreme = 20.0

	shakeInterval = 16 * time.Millisecond
	shakeDefault  = 500 * time.Millisecond
	shatterShake  = 400 * time.Millisecond
)

func (d *Dispatcher) shakeRequest(p Payload) {
	mag := shakeHeavy
	switch p.String("intensity", "heavy") {
	case "mild":
		mag = shakeMild
	case "extreme":
		mag = shakeExtreme
	}
	d.shake(mag, millis(p.Or("duration", 0), shakeDefault))
}

// shake jitters the view offset every 16ms for dur, then restores it
// Rotation is untouched so an active spin survives
func (d *Dispatcher) shake(mag float64, dur time.Duration) {
	d.shakeTasks.Cancel()

	view := &d.scene.View
	view.ShakeX, view.ShakeY = 0, 0
	start := d.sched.Now()
	var task *engine.Task
	task = d.sched.Every(shakeInterval, func() {
		if d.sched.Now().Sub(start) >= dur {
			task.Cancel()
			view.ShakeX, view.ShakeY = 0, 0
			return
		}
		view.ShakeX = (d.random() - 0.5) * mag * 2
		view.ShakeY = (d.random() - 0.5) * mag * 2
	})
	d.shakeTasks.Add(task)
}

// millis converts a millisecond option, using def when it is not positive
func millis(ms float64, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// seconds converts a second option; non-positive values yield zero
func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

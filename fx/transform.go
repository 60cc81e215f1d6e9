package fx

import (
	"time"

	"github.com/lixenwraith/canvas-fx/render"
)

// pulseStep is the scale added per intensity unit
const pulseStep = 0.02

// spin rotates the whole view by "angle" degrees on top of the accumulated rotation
func (d *Dispatcher) spin(p Payload) {
	angle := p.Or("angle", DefaultSpinAngle)
	if p.String("direction", "clockwise") != "clockwise" {
		angle = -angle
	}
	dur := millis(p.Or("duration", 0), time.Duration(DefaultSpinMillis)*time.Millisecond)

	rot := &d.scene.View.Rotation
	rot.Animate(rot.To+angle, d.sched.Now(), dur, render.EaseOutCubic)
}

// pulsate restarts the beat animation of the whole view
func (d *Dispatcher) pulsate(p Payload) {
	d.scene.View.Pulse = render.Pulse{
		Scale:      1 + pulseStep*p.Or("intensity", DefaultPulseIntensity),
		Beat:       millis(p.Or("duration", 0), time.Duration(DefaultPulseMillis)*time.Millisecond),
		Iterations: max(p.Int("iterations", 0), 0),
		Start:      d.sched.Now(),
	}
}

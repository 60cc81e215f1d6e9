package physics

// Handle is an opaque reference to a visual owned by the rendering surface
// Zero means no visual is attached
type Handle uint32

// Axis selects the integration mode of a particle
type Axis uint8

const (
	AxisFree Axis = iota // Velocity vector with optional gravity
	AxisX                // Legacy scalar speed along x
	AxisY                // Legacy scalar speed along y
)

// DefaultMargin is how far past the viewport edge a particle may travel before removal
const DefaultMargin = 150.0

// Particle is one simulated visual unit in screen pixels
type Particle struct {
	X, Y   float64
	VX, VY float64 // px/s, AxisFree only

	Axis  Axis
	Speed float64 // px/s along Axis, legacy mode only

	Rotation     float64 // degrees
	RotationRate float64 // degrees/s
	Gravity      float64 // px/s², AxisFree only

	Visual Handle
}

// Integrate advances the particle by dt seconds: v = v + g*dt; p = p + v*dt
func Integrate(p *Particle, dt float64) {
	switch p.Axis {
	case AxisX:
		p.X += p.Speed * dt
	case AxisY:
		p.Y += p.Speed * dt
	default:
		if p.Gravity != 0 {
			p.VY += p.Gravity * dt
		}
		p.X += p.VX * dt
		p.Y += p.VY * dt
	}
	p.Rotation += p.RotationRate * dt
}

// Bounds is the visible rectangle expanded by Margin on every side
type Bounds struct {
	Width, Height float64
	Margin        float64
}

// Contains reports whether (x, y) lies inside the expanded rectangle, edges inclusive
func (b Bounds) Contains(x, y float64) bool {
	return x >= -b.Margin && x <= b.Width+b.Margin &&
		y >= -b.Margin && y <= b.Height+b.Margin
}

package physics

// Surface is the rendering boundary the simulation paints through
type Surface interface {
	// Place writes a particle transform to its visual
	Place(h Handle, x, y, rotation float64)
	// Detach removes a visual from the surface
	Detach(h Handle)
	// Size returns the viewport size in pixels
	Size() (width, height float64)
}

// Store holds the live particles and emitters
// Not safe for concurrent use; mutated only from the scheduler goroutine
type Store struct {
	particles []*Particle
	emitters  []*Emitter
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		particles: make([]*Particle, 0, 256),
		emitters:  make([]*Emitter, 0, 8),
	}
}

// AddParticle appends a particle
func (s *Store) AddParticle(p *Particle) {
	s.particles = append(s.particles, p)
}

// AddEmitter appends an emitter
func (s *Store) AddEmitter(e *Emitter) {
	s.emitters = append(s.emitters, e)
}

// Particles returns the live particles; the slice is invalidated by the next Step
func (s *Store) Particles() []*Particle {
	return s.particles
}

// Emitters returns the live emitters
func (s *Store) Emitters() []*Emitter {
	return s.emitters
}

// Counts returns the number of live particles and emitters
func (s *Store) Counts() (particles, emitters int) {
	return len(s.particles), len(s.emitters)
}

// Empty reports whether nothing remains to simulate
func (s *Store) Empty() bool {
	return len(s.particles) == 0 && len(s.emitters) == 0
}

// Clear drops every particle and emitter, detaching visuals from surf when non-nil
func (s *Store) Clear(surf Surface) {
	if surf != nil {
		for _, p := range s.particles {
			surf.Detach(p.Visual)
		}
	}
	clear(s.particles)
	s.particles = s.particles[:0]
	clear(s.emitters)
	s.emitters = s.emitters[:0]
}

// Step advances emitters then particles by dt seconds
// Particles leaving the viewport expanded by margin are detached and dropped
func (s *Store) Step(dt float64, surf Surface, margin float64) {
	live := s.emitters[:0]
	for _, e := range s.emitters {
		if e.Advance(dt) {
			live = append(live, e)
		}
	}
	clear(s.emitters[len(live):])
	s.emitters = live

	w, h := surf.Size()
	bounds := Bounds{Width: w, Height: h, Margin: margin}

	kept := s.particles[:0]
	for _, p := range s.particles {
		Integrate(p, dt)
		surf.Place(p.Visual, p.X, p.Y, p.Rotation)
		if bounds.Contains(p.X, p.Y) {
			kept = append(kept, p)
			continue
		}
		surf.Detach(p.Visual)
	}
	clear(s.particles[len(kept):])
	s.particles = kept
}

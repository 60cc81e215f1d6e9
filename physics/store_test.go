package physics

import "testing"

// fakeSurface records placements and detaches
type fakeSurface struct {
	w, h     float64
	placed   map[Handle][3]float64
	detached map[Handle]bool
}

func newFakeSurface(w, h float64) *fakeSurface {
	return &fakeSurface{
		w:        w,
		h:        h,
		placed:   make(map[Handle][3]float64),
		detached: make(map[Handle]bool),
	}
}

func (f *fakeSurface) Place(h Handle, x, y, rot float64) { f.placed[h] = [3]float64{x, y, rot} }
func (f *fakeSurface) Detach(h Handle)                   { f.detached[h] = true }
func (f *fakeSurface) Size() (float64, float64)          { return f.w, f.h }

func TestStoreStepRemovesParticleAfterBottomMargin(t *testing.T) {
	surf := newFakeSurface(800, 600)
	s := NewStore()
	s.AddParticle(&Particle{X: 400, Y: -100, VY: 300, Visual: 1})

	// Exit happens once y > 600+150, i.e. y = -100 + 30k > 750 at k = 29
	for k := 1; k <= 28; k++ {
		s.Step(0.1, surf, DefaultMargin)
		if n, _ := s.Counts(); n != 1 {
			t.Fatalf("tick %d: particle removed early at y=%f", k, surf.placed[1][1])
		}
	}
	if surf.detached[1] {
		t.Fatal("visual detached before exit")
	}

	s.Step(0.1, surf, DefaultMargin)
	if n, _ := s.Counts(); n != 0 {
		t.Fatalf("particle still live at y=%f", surf.placed[1][1])
	}
	if !surf.detached[1] {
		t.Error("visual not detached on exit")
	}
}

func TestStoreStepRunsEmittersBeforeParticles(t *testing.T) {
	surf := newFakeSurface(800, 600)
	s := NewStore()
	next := Handle(1)
	s.AddEmitter(NewEmitter(4, 1, func(n int) {
		for i := 0; i < n; i++ {
			s.AddParticle(&Particle{X: 10, Y: 10, VX: 100, Visual: next})
			next++
		}
	}))

	s.Step(0.5, surf, DefaultMargin)
	particles, emitters := s.Counts()
	if particles != 2 || emitters != 1 {
		t.Fatalf("counts = (%d, %d), want (2, 1)", particles, emitters)
	}
	// Spawned particles integrate in the tick that created them
	if got := surf.placed[1][0]; got != 60 {
		t.Errorf("x = %f, want 60", got)
	}

	s.Step(0.5, surf, DefaultMargin)
	particles, emitters = s.Counts()
	if particles != 4 || emitters != 0 {
		t.Fatalf("counts = (%d, %d), want (4, 0)", particles, emitters)
	}
}

func TestStoreClear(t *testing.T) {
	surf := newFakeSurface(800, 600)
	s := NewStore()
	s.AddParticle(&Particle{Visual: 7})
	s.AddParticle(&Particle{Visual: 8})
	s.AddEmitter(NewEmitter(10, 3, nil))

	s.Clear(surf)

	if !s.Empty() {
		t.Error("store not empty after Clear")
	}
	if !surf.detached[7] || !surf.detached[8] {
		t.Error("Clear did not detach visuals")
	}

	// Clearing twice is harmless
	s.Clear(nil)
	if !s.Empty() {
		t.Error("store not empty after second Clear")
	}
}

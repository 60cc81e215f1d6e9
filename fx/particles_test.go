package fx

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/canvas-fx/physics"
	"github.com/lixenwraith/canvas-fx/render"
)

func TestSpawnBurst(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionSpawn, Payload{"content": "🔥", "count": 10.0})

	if n, _ := h.disp.Store().Counts(); n != 10 {
		t.Fatalf("particles = %d, want 10", n)
	}
	if h.scene.SpriteCount() != 10 {
		t.Errorf("sprites = %d, want 10", h.scene.SpriteCount())
	}
	for _, sp := range h.scene.Sprites() {
		if sp.Kind != render.SpriteGlyph || sp.Text != "🔥" || sp.Size != glyphSize {
			t.Fatalf("sprite = %+v", sp)
		}
	}
	for _, p := range h.disp.Store().Particles() {
		if p.Y != -spawnOffset || p.VY < DefaultSpawnSpeed || p.VY > DefaultSpawnSpeed*(1+speedJitter) {
			t.Fatalf("particle = %+v", p)
		}
	}
	if !h.disp.Loop().Running() {
		t.Fatal("loop not started")
	}

	// Every particle leaves the screen and the loop winds down
	h.sched.Advance(4 * time.Second)
	if !h.disp.Store().Empty() || h.scene.SpriteCount() != 0 {
		t.Error("particles left behind after exiting the screen")
	}
	if h.disp.Loop().Running() || h.sched.Pending() != 0 {
		t.Error("loop kept running with an empty store")
	}
}

func TestSpawnDirections(t *testing.T) {
	tests := []struct {
		direction string
		check     func(p *physics.Particle) bool
	}{
		{"top-bottom", func(p *physics.Particle) bool { return p.Y == -spawnOffset && p.VY > 0 && p.VX == 0 }},
		{"bottom-top", func(p *physics.Particle) bool { return p.Y == 600+spawnOffset && p.VY < 0 && p.VX == 0 }},
		{"left-right", func(p *physics.Particle) bool { return p.X == -spawnOffset && p.VX > 0 && p.VY == 0 }},
		{"right-left", func(p *physics.Particle) bool { return p.X == 800+spawnOffset && p.VX < 0 && p.VY == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			h := newHarness(t)
			h.disp.Dispatch(ActionSpawn, Payload{"count": 5.0, "direction": tt.direction})
			for _, p := range h.disp.Store().Particles() {
				if !tt.check(p) {
					t.Errorf("particle = %+v", p)
				}
			}
		})
	}
}

func TestSpawnSimpleMode(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionSpawn, Payload{"count": 3.0, "direction": "right-left", "mode": "simple", "speed": 100.0})

	for _, p := range h.disp.Store().Particles() {
		if p.Axis != physics.AxisX || p.Speed >= 0 || p.VX != 0 || p.VY != 0 {
			t.Errorf("simple particle = %+v", p)
		}
	}

	y := h.disp.Store().Particles()[0].Y
	h.sched.Advance(500 * time.Millisecond)
	p := h.disp.Store().Particles()[0]
	if p.Y != y || p.X >= 800+spawnOffset {
		t.Errorf("simple particle moved off its axis: %+v", p)
	}
}

func TestSpawnImages(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionSpawn, Payload{"type": "image", "content": "icons/coin.webp", "count": 2.0, "scale": 1.5})

	for _, sp := range h.scene.Sprites() {
		if sp.Kind != render.SpriteImage || sp.Src != "icons/coin.webp" || sp.Text != "" || sp.Size != imageSize*1.5 {
			t.Errorf("image sprite = %+v", sp)
		}
	}
}

func TestSpawnEmitter(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionSpawn, Payload{"count": 20.0, "time": 2.0, "speed": 50.0})

	particles, emitters := h.disp.Store().Counts()
	if particles != 0 || emitters != 1 {
		t.Fatalf("counts = %d/%d, want 0 particles and 1 emitter", particles, emitters)
	}

	h.sched.Advance(time.Second)
	if n, _ := h.disp.Store().Counts(); n < 9 || n > 10 {
		t.Errorf("after half the emit time %d particles, want about 10", n)
	}

	h.sched.Advance(1100 * time.Millisecond)
	particles, emitters = h.disp.Store().Counts()
	if particles != 20 || emitters != 0 {
		t.Errorf("counts = %d/%d, want 20 particles and no emitter", particles, emitters)
	}
	if !h.disp.Loop().Running() {
		t.Error("loop stopped while particles remain")
	}
}

func TestSpawnCount(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionSpawn, Payload{})
	if n, _ := h.disp.Store().Counts(); n != DefaultSpawnCount {
		t.Errorf("omitted count spawned %d, want %d", n, DefaultSpawnCount)
	}

	h = newHarness(t)
	h.disp.Dispatch(ActionSpawn, Payload{"count": 0.0})
	if n, _ := h.disp.Store().Counts(); n != 0 {
		t.Errorf("explicit zero spawned %d", n)
	}
	h.sched.Advance(100 * time.Millisecond)
	if h.disp.Loop().Running() || h.sched.Pending() != 0 {
		t.Error("loop kept running for an empty spawn")
	}
}

// Non-finite options fall back to defaults: time=inf must not leave an emitter that never finishes
func TestSpawnNonFiniteTime(t *testing.T) {
	h := newHarness(t)
	opts, err := ParseOptions([]string{"content=*", "time=inf", "count=10"})
	if err != nil {
		t.Fatal(err)
	}
	h.disp.Dispatch(ActionSpawn, opts)

	particles, emitters := h.disp.Store().Counts()
	if particles != 10 || emitters != 0 {
		t.Fatalf("counts = %d/%d, want an immediate burst of 10", particles, emitters)
	}
	h.sched.Advance(10 * time.Second)
	if !h.disp.Store().Empty() || h.disp.Loop().Running() {
		t.Error("loop still running after the burst left the screen")
	}
}

func TestShatter(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionShatter, Payload{"count": 6.0})

	if n, _ := h.disp.Store().Counts(); n != 6 {
		t.Fatalf("shards = %d, want 6", n)
	}
	for _, p := range h.disp.Store().Particles() {
		push := math.Hypot(p.VX, p.VY)
		if p.Gravity != shardGravity || push < shardMinPush-1e-9 || push > shardMaxPush+1e-9 {
			t.Errorf("shard = %+v", p)
		}
	}
	for _, sp := range h.scene.Sprites() {
		if sp.Kind != render.SpriteShard || sp.Size < shardMinSize || sp.Size > shardMaxSize {
			t.Errorf("shard sprite = %+v", sp)
		}
	}

	h.sched.Advance(shakeInterval)
	view := h.scene.View
	if view.ShakeX == 0 && view.ShakeY == 0 {
		t.Error("shatter did not shake the screen")
	}

	h.sched.Advance(shatterShake)
	if h.scene.View.ShakeX != 0 || h.scene.View.ShakeY != 0 {
		t.Error("shatter shake did not end")
	}

	h.sched.Advance(5 * time.Second)
	if !h.disp.Store().Empty() || h.disp.Loop().Running() {
		t.Error("shards never left the screen")
	}
}

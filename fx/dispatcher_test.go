package fx

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/canvas-fx/engine"
	"github.com/lixenwraith/canvas-fx/render"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type playCall struct {
	src    string
	volume float64
}

// recordingPlayer captures audio requests
type recordingPlayer struct {
	calls []playCall
}

func (r *recordingPlayer) Play(src string, volume float64) bool {
	r.calls = append(r.calls, playCall{src, volume})
	return true
}

type harness struct {
	sched  *engine.Scheduler
	disp   *Dispatcher
	scene  *render.Scene
	player *recordingPlayer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sched := engine.NewScheduler(engine.NewMockClock(epoch), engine.DefaultFrameInterval)
	scene := render.NewScene(800, 600)
	player := &recordingPlayer{}
	disp := NewDispatcher(sched, scene, Options{Identity: "alice", Player: player, Seed: 7})
	return &harness{sched: sched, disp: disp, scene: scene, player: player}
}

func (h *harness) layer(id render.LayerID) *render.Layer {
	return h.scene.Layer(id)
}

func TestDispatchInitializesLayers(t *testing.T) {
	h := newHarness(t)
	if h.scene.Ready() {
		t.Fatal("scene ready before first dispatch")
	}
	h.disp.Dispatch(ActionBorder, Payload{"active": true})
	if !h.scene.Ready() {
		t.Error("dispatch did not initialize layers")
	}
}

func TestClearReachesTerminalState(t *testing.T) {
	h := newHarness(t)
	d := h.disp

	d.Dispatch(ActionSpawn, Payload{"content": "*", "count": 10.0})
	d.Dispatch(ActionSpawn, Payload{"content": "+", "count": 10.0, "time": 3.0})
	d.Dispatch(ActionShatter, Payload{"count": 5.0})
	d.Dispatch(ActionBorder, Payload{})
	d.Dispatch(ActionCover, Payload{"content": "bg.webm"})
	d.Dispatch(ActionText, Payload{"content": "VICTORY"})
	d.Dispatch(ActionLetterbox, Payload{})
	d.Dispatch(ActionFlash, Payload{"iterations": 4.0})
	d.Dispatch(ActionCurtain, Payload{})
	d.Dispatch(ActionSpin, Payload{"angle": 90.0})
	d.Dispatch(ActionPulsate, Payload{})
	d.Dispatch(ActionFilterBlur, Payload{"duration": 2.0})
	h.sched.Advance(250 * time.Millisecond)

	for range 2 {
		d.Dispatch(ActionClear, nil)

		if !h.scene.Quiet() {
			t.Error("scene not quiet after clear")
		}
		if !d.Store().Empty() || h.scene.SpriteCount() != 0 {
			t.Error("particles survived clear")
		}
		if d.Loop().Running() {
			t.Error("loop still running after clear")
		}
		if n := h.sched.Pending(); n != 0 {
			t.Errorf("%d timers still pending after clear", n)
		}
		if rot := h.scene.View.Rotation.Value(h.sched.Now()); rot != 0 {
			t.Errorf("rotation = %v after clear", rot)
		}
	}

	// No late timer may resurrect anything
	h.sched.Advance(10 * time.Second)
	if !h.scene.Quiet() {
		t.Error("effect reappeared after clear")
	}
}

func TestBorderToggle(t *testing.T) {
	h := newHarness(t)
	border := func() *render.Layer { return h.layer(render.LayerBorder) }

	h.disp.Dispatch(ActionBorder, Payload{"color": "#00ff00", "thickness": 8.0})
	if !border().Visible {
		t.Fatal("first toggle should show border")
	}
	b := border().Content.(render.Border)
	if b.Triplet != "0, 255, 0" || b.Thickness != 8 {
		t.Errorf("border = %+v", b)
	}

	h.disp.Dispatch(ActionBorder, Payload{})
	if border().Visible || !border().Empty() {
		t.Error("second toggle should hide border")
	}

	h.disp.Dispatch(ActionBorder, Payload{"active": true})
	h.disp.Dispatch(ActionBorder, Payload{"active": true})
	if !border().Visible {
		t.Error("explicit active should not toggle")
	}
	if b := border().Content.(render.Border); b.Triplet != render.DefaultTriplet || b.Thickness != DefaultBorderWidth {
		t.Errorf("default border = %+v", b)
	}

	h.disp.Dispatch(ActionBorder, Payload{"active": "false"})
	if border().Visible {
		t.Error("active=false should hide border")
	}
}

func TestBorderColorFallback(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionBorder, Payload{"color": "not-a-color"})
	if b := h.layer(render.LayerBorder).Content.(render.Border); b.Triplet != "255, 0, 0" {
		t.Errorf("triplet = %q, want red fallback", b.Triplet)
	}
}

func TestSingleActiveFilter(t *testing.T) {
	h := newHarness(t)
	filter := h.layer

	h.disp.Dispatch(ActionFilterBlur, Payload{"duration": 1.0})
	if f := filter(render.LayerFilter).Content.(render.Filter); f.Kind != render.FilterBlur || f.Radius != DefaultBlurRadius {
		t.Fatalf("filter = %+v", f)
	}

	h.sched.Advance(500 * time.Millisecond)
	h.disp.Dispatch(ActionFilterBW, Payload{})

	// The blur's auto-reset must not remove the newer filter
	h.sched.Advance(2 * time.Second)
	l := filter(render.LayerFilter)
	if !l.Visible {
		t.Fatal("newer filter removed by older timer")
	}
	if f := l.Content.(render.Filter); f.Kind != render.FilterBlackAndWhite {
		t.Errorf("active filter = %v, want black and white", f.Kind)
	}
}

func TestFilterAutoReset(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionFilterColor, Payload{"color": "blue", "duration": 2.0})

	f := h.layer(render.LayerFilter).Content.(render.Filter)
	if f.Kind != render.FilterColorize || f.Color != (render.RGB{0, 0, 255}) || f.Opacity != DefaultTintOpacity {
		t.Errorf("colorize = %+v", f)
	}

	h.sched.Advance(1999 * time.Millisecond)
	if !h.layer(render.LayerFilter).Visible {
		t.Error("filter removed early")
	}
	h.sched.Advance(time.Millisecond)
	if h.layer(render.LayerFilter).Visible {
		t.Error("filter not removed after duration")
	}
}

func TestVignetteDefaults(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionFilterVignette, Payload{})
	f := h.layer(render.LayerFilter).Content.(render.Filter)
	if f.Kind != render.FilterVignette || f.Intensity != DefaultVignette || f.Color != render.RGBBlack {
		t.Errorf("vignette = %+v", f)
	}
}

func TestFlashSequence(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionFlash, Payload{"color": "red", "duration": 200.0, "iterations": 3.0, "interval": 100.0})

	flash := h.layer(render.LayerFlash)
	if c := flash.Content.(render.Flash); c.Color != render.RGBRed {
		t.Errorf("flash color = %v", c.Color)
	}

	// Visible during [0,200), [300,500), [600,800)
	elapsed := time.Duration(0)
	checks := []struct {
		at      time.Duration
		visible bool
	}{
		{0, true}, {199, true}, {200, false}, {299, false},
		{300, true}, {499, true}, {500, false},
		{600, true}, {799, true}, {800, false}, {1500, false},
	}
	for _, c := range checks {
		at := c.at * time.Millisecond
		h.sched.Advance(at - elapsed)
		elapsed = at
		if flash.Visible != c.visible {
			t.Errorf("t=%v visible=%v, want %v", at, flash.Visible, c.visible)
		}
	}
	if h.sched.Pending() != 0 {
		t.Error("flash left timers behind")
	}
}

func TestFlashFadesOut(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionFlash, Payload{})
	flash := h.layer(render.LayerFlash)

	if a := flash.Opacity.Value(h.sched.Now()); a != 1 {
		t.Errorf("opacity at start = %v", a)
	}
	h.sched.Advance(500 * time.Millisecond)
	if a := flash.Opacity.Value(h.sched.Now()); a <= 0 || a >= 1 {
		t.Errorf("opacity mid-fade = %v", a)
	}
	h.sched.Advance(500 * time.Millisecond)
	if flash.Visible {
		t.Error("single flash still visible after default duration")
	}
}

func TestRestartedFlashCancelsPrevious(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionFlash, Payload{"duration": 100.0, "iterations": 5.0, "interval": 100.0})
	h.sched.Advance(150 * time.Millisecond)
	h.disp.Dispatch(ActionFlash, Payload{"duration": 100.0})

	h.sched.Advance(100 * time.Millisecond)
	flash := h.layer(render.LayerFlash)
	if flash.Visible {
		t.Error("flash visible after replacement finished")
	}
	// The first sequence would have flashed again at 200ms and 400ms
	h.sched.Advance(time.Second)
	if flash.Visible || h.sched.Pending() != 0 {
		t.Error("superseded flash sequence kept running")
	}
}

func TestAllowList(t *testing.T) {
	h := newHarness(t)

	h.disp.Dispatch(ActionBorder, Payload{KeyUsers: []any{"bob", "carol"}})
	if h.scene.Ready() || h.disp.Dispatched() != 0 {
		t.Fatal("request for other users had an effect")
	}

	h.disp.Dispatch(ActionFlash, Payload{KeyUsers: []any{"bob"}, KeyAudio: "boom.mp3"})
	if len(h.player.calls) != 0 {
		t.Error("filtered request played audio")
	}

	h.disp.Dispatch(ActionBorder, Payload{KeyUsers: []any{"bob", "alice"}})
	if !h.layer(render.LayerBorder).Visible {
		t.Error("request listing local user was dropped")
	}

	h.disp.Dispatch(ActionBorder, Payload{KeyUsers: "alice, dave"})
	if h.layer(render.LayerBorder).Visible {
		t.Error("comma-separated allow-list should accept alice and toggle the border off")
	}

	h.disp.Dispatch(ActionBorder, Payload{KeyUsers: []any{}})
	if !h.layer(render.LayerBorder).Visible {
		t.Error("empty allow-list should accept everyone")
	}
}

func TestAudioPlayback(t *testing.T) {
	h := newHarness(t)

	h.disp.Dispatch(ActionFlash, Payload{KeyAudio: "thunder.mp3"})
	h.disp.Dispatch(ActionShatter, Payload{KeyAudio: "glass.mp3", KeyVolume: 0.3, "count": 1.0})
	h.disp.Dispatch(ActionBorder, Payload{KeyAudio: "ignored.mp3"})

	want := []playCall{{"thunder.mp3", 0.8}, {"glass.mp3", 0.3}}
	if len(h.player.calls) != len(want) {
		t.Fatalf("calls = %+v", h.player.calls)
	}
	for i, c := range want {
		if h.player.calls[i] != c {
			t.Errorf("call %d = %+v, want %+v", i, h.player.calls[i], c)
		}
	}
}

func TestShakeKeepsSpin(t *testing.T) {
	h := newHarness(t)
	view := &h.scene.View

	h.disp.Dispatch(ActionSpin, Payload{"angle": 90.0, "duration": 100.0})
	h.sched.Advance(200 * time.Millisecond)
	if r := view.Rotation.Value(h.sched.Now()); r != 90 {
		t.Fatalf("rotation after spin = %v", r)
	}

	h.disp.Dispatch(ActionShake, Payload{"intensity": "mild", "duration": 100.0})
	h.sched.Advance(50 * time.Millisecond)
	if math.Abs(view.ShakeX) > shakeMild || math.Abs(view.ShakeY) > shakeMild {
		t.Errorf("mild shake offset (%v, %v) exceeds %v", view.ShakeX, view.ShakeY, shakeMild)
	}
	if r := view.Rotation.Value(h.sched.Now()); r != 90 {
		t.Errorf("rotation during shake = %v", r)
	}

	h.sched.Advance(100 * time.Millisecond)
	if view.ShakeX != 0 || view.ShakeY != 0 {
		t.Errorf("offset not restored: (%v, %v)", view.ShakeX, view.ShakeY)
	}
	if r := view.Rotation.Value(h.sched.Now()); r != 90 {
		t.Errorf("rotation after shake = %v", r)
	}
	if h.sched.Pending() != 0 {
		t.Error("shake interval still scheduled")
	}

	// Rotation accumulates across spins
	h.disp.Dispatch(ActionSpin, Payload{"angle": 30.0, "direction": "counter-clockwise", "duration": 100.0})
	h.sched.Advance(100 * time.Millisecond)
	if r := view.Rotation.Value(h.sched.Now()); r != 60 {
		t.Errorf("cumulative rotation = %v, want 60", r)
	}
}

func TestShakeMagnitudes(t *testing.T) {
	for _, tt := range []struct {
		intensity string
		mag       float64
	}{{"mild", shakeMild}, {"heavy", shakeHeavy}, {"extreme", shakeExtreme}, {"bogus", shakeHeavy}} {
		h := newHarness(t)
		h.disp.Dispatch(ActionShake, Payload{"intensity": tt.intensity})
		peak := 0.0
		for range 20 {
			h.sched.Advance(shakeInterval)
			peak = max(peak, math.Abs(h.scene.View.ShakeX), math.Abs(h.scene.View.ShakeY))
		}
		if peak > tt.mag || peak == 0 {
			t.Errorf("%s: peak offset %v, want within (0, %v]", tt.intensity, peak, tt.mag)
		}
	}
}

func TestTextReplacement(t *testing.T) {
	h := newHarness(t)
	h.scene.Init()
	text := h.layer(render.LayerText)

	h.disp.Dispatch(ActionText, Payload{"content": "FIRST", "duration": 1.0})
	h.sched.Advance(500 * time.Millisecond)
	h.disp.Dispatch(ActionText, Payload{"content": "SECOND", "duration": 0.0, "fill": "band", "color": "gold"})

	h.sched.Advance(5 * time.Second)
	if !text.Visible {
		t.Fatal("held banner removed by superseded timer")
	}
	b := text.Content.(render.Banner)
	if b.Text != "SECOND" || b.Fill != render.FillBand || b.Color != (render.RGB{255, 215, 0}) {
		t.Errorf("banner = %+v", b)
	}
	if b.Font != DefaultTextFont || b.Background != render.RGBBlack {
		t.Errorf("banner defaults = %q %v", b.Font, b.Background)
	}
}

func TestTextDefaultLifetime(t *testing.T) {
	h := newHarness(t)
	h.scene.Init()
	text := h.layer(render.LayerText)

	h.disp.Dispatch(ActionText, Payload{"content": "HELLO"})
	if a := text.Opacity.Value(h.sched.Now()); a != 0 {
		t.Errorf("banner should fade in from 0, got %v", a)
	}
	h.sched.Advance(3 * time.Second)
	if !text.Visible {
		t.Fatal("banner hidden before fade-out finished")
	}
	h.sched.Advance(textFade)
	if text.Visible || !text.Empty() {
		t.Error("banner not cleared after duration plus fade")
	}
}

func TestCover(t *testing.T) {
	h := newHarness(t)
	h.scene.Init()
	cover := h.layer(render.LayerCover)

	h.disp.Dispatch(ActionCover, Payload{"content": "scenes/intro.WebM", "opacity": 0.5, "duration": 0.0})
	m := cover.Content.(render.Media)
	if !m.Video || m.Opacity != 0.5 {
		t.Errorf("media = %+v", m)
	}
	h.sched.Advance(time.Minute)
	if !cover.Visible {
		t.Error("held cover removed")
	}

	h.disp.Dispatch(ActionCover, Payload{"content": "maps/keep.webp"})
	if cover.Content.(render.Media).Video {
		t.Error("image detected as video")
	}
	h.sched.Advance(5*time.Second + coverFade - time.Millisecond)
	if !cover.Visible {
		t.Error("cover cleared early")
	}
	h.sched.Advance(time.Millisecond)
	if cover.Visible {
		t.Error("cover not cleared after duration plus fade")
	}
}

func TestLetterboxToggle(t *testing.T) {
	h := newHarness(t)
	h.scene.Init()
	lb := h.layer(render.LayerLetterbox)

	h.disp.Dispatch(ActionLetterbox, Payload{"height": "10%"})
	if !lb.Visible {
		t.Fatal("letterbox not shown")
	}
	bars := lb.Content.(*render.Bars)
	if bars.Height != "10%" || bars.Extent.Value(h.sched.Now()) != 0 {
		t.Errorf("bars before expansion = %+v", bars)
	}
	h.sched.Advance(letterboxDelay + letterboxSlide)
	if e := bars.Extent.Value(h.sched.Now()); e != 1 {
		t.Errorf("bar extent = %v, want 1", e)
	}

	h.disp.Dispatch(ActionLetterbox, Payload{})
	if lb.Visible {
		t.Error("second toggle should hide letterbox")
	}
}

func TestCurtain(t *testing.T) {
	h := newHarness(t)
	h.scene.Init()
	layer := h.layer(render.LayerCurtain)

	h.disp.Dispatch(ActionCurtain, Payload{"duration": 1000.0})
	c := layer.Content.(*render.Curtain)
	if c.Image != DefaultCurtainImage {
		t.Errorf("curtain image = %q", c.Image)
	}

	h.sched.Advance(100 * time.Millisecond)
	if !c.Open.Animating(h.sched.Now().Add(time.Millisecond)) {
		t.Error("panels not opening after delay")
	}
	h.sched.Advance(1099 * time.Millisecond)
	if !layer.Visible {
		t.Error("curtain hidden early")
	}
	h.sched.Advance(time.Millisecond)
	if layer.Visible {
		t.Error("curtain still visible after duration + 200ms")
	}
}

func TestPulsate(t *testing.T) {
	h := newHarness(t)
	h.disp.Dispatch(ActionPulsate, Payload{"intensity": 3.0, "duration": 500.0})
	p := h.scene.View.Pulse
	if math.Abs(p.Scale-1.06) > 1e-9 || p.Beat != 500*time.Millisecond || p.Iterations != 0 {
		t.Errorf("pulse = %+v", p)
	}

	h.disp.Dispatch(ActionPulsate, Payload{"iterations": 4.0})
	p = h.scene.View.Pulse
	if math.Abs(p.Scale-1.04) > 1e-9 || p.Beat != time.Second || p.Iterations != 4 {
		t.Errorf("default pulse = %+v", p)
	}
}

func TestUnknownActionIgnored(t *testing.T) {
	h := newHarness(t)
	if err := h.disp.Execute("explode", Payload{}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("err = %v, want ErrUnknownAction", err)
	}
	h.disp.Dispatch(Action(200), Payload{})
	h.disp.Dispatch(ActionNone, Payload{})
	if h.disp.Dispatched() != 0 || h.scene.Ready() {
		t.Error("unknown action reached a handler")
	}

	if err := h.disp.Execute("border", Payload{}); err != nil {
		t.Errorf("known action: %v", err)
	}
}

func TestHandlerPanicRecovered(t *testing.T) {
	h := newHarness(t)
	saved := handlers[ActionSpin]
	t.Cleanup(func() { handlers[ActionSpin] = saved })
	handlers[ActionSpin] = func(*Dispatcher, Payload) { panic("bad payload") }

	h.disp.Dispatch(ActionSpin, Payload{})

	// The dispatcher keeps working
	h.disp.Dispatch(ActionBorder, Payload{})
	if !h.layer(render.LayerBorder).Visible {
		t.Error("dispatcher unusable after handler panic")
	}
}

package fx

import (
	"path"
	"strings"
	"time"

	"github.com/lixenwraith/canvas-fx/engine"
	"github.com/lixenwraith/canvas-fx/render"
)

// Overlay timing
const (
	coverFade      = 1000 * time.Millisecond
	textFade       = 500 * time.Millisecond
	letterboxDelay = 50 * time.Millisecond
	letterboxSlide = 500 * time.Millisecond
	curtainDelay   = 100 * time.Millisecond
	curtainLinger  = 200 * time.Millisecond
)

// border shows or hides the screen frame; an absent "active" toggles it
func (d *Dispatcher) border(p Payload) {
	layer := d.scene.Layer(render.LayerBorder)
	active, ok := p.Bool("active")
	if !ok {
		active = !layer.Visible
	}
	if !active {
		layer.Reset()
		return
	}

	expr := p.String("color", DefaultBorderColor)
	layer.Show(render.Border{
		Thickness: p.Or("thickness", DefaultBorderWidth),
		Color:     render.ColorOr(expr, render.RGBRed),
		Triplet:   render.ResolveRGB(expr),
	})
}

// cover fades in a full-screen image or video, fading out after "duration" seconds (0 holds)
func (d *Dispatcher) cover(p Payload) {
	d.coverTasks.Cancel()
	layer := d.scene.Layer(render.LayerCover)

	src := p.String("content", "")
	layer.Show(render.Media{
		Src:     src,
		Video:   isVideo(src),
		Opacity: p.Float("opacity", 1),
	})
	d.fadeIn(layer, coverFade)

	if hold := seconds(p.Float("duration", DefaultCoverSeconds)); hold > 0 {
		d.fadeOutAfter(&d.coverTasks, layer, hold, coverFade)
	}
}

// text shows a banner, fading out after "duration" seconds (0 holds)
func (d *Dispatcher) text(p Payload) {
	d.textTasks.Cancel()
	layer := d.scene.Layer(render.LayerText)

	layer.Show(render.Banner{
		Text:       p.String("content", ""),
		Color:      render.ColorOr(p.String("color", DefaultTextColor), render.RGBWhite),
		Background: render.ColorOr(p.String("backgroundColor", DefaultTextBackground), render.RGBBlack),
		Font:       p.String("fontFamily", DefaultTextFont),
		Fill:       render.ParseFill(p.String("fill", "box")),
	})
	d.fadeIn(layer, textFade)

	if hold := seconds(p.Float("duration", DefaultTextSeconds)); hold > 0 {
		d.fadeOutAfter(&d.textTasks, layer, hold, textFade)
	}
}

// letterbox slides cinematic bars in or removes them; an absent "active" toggles
func (d *Dispatcher) letterbox(p Payload) {
	d.letterboxTasks.Cancel()
	layer := d.scene.Layer(render.LayerLetterbox)

	active, ok := p.Bool("active")
	if !ok {
		active = !layer.Visible
	}
	if !active {
		layer.Reset()
		return
	}

	bars := &render.Bars{Height: p.String("height", DefaultLetterbox), Extent: render.Still(0)}
	layer.Show(bars)
	d.letterboxTasks.Add(d.sched.After(letterboxDelay, func() {
		bars.Extent.Animate(1, d.sched.Now(), letterboxSlide, render.EaseOutQuad)
	}))
}

// flash pulses a solid color: show, fade out over duration, hide, wait interval, repeat
func (d *Dispatcher) flash(p Payload) {
	d.flashTasks.Cancel()
	layer := d.scene.Layer(render.LayerFlash)

	color := render.ColorOr(p.String("color", "white"), render.RGBWhite)
	dur := millis(p.Or("duration", 0), time.Duration(DefaultFlashMillis)*time.Millisecond)
	gap := millis(p.Or("interval", 0), time.Duration(DefaultFlashInterval)*time.Millisecond)
	iterations := max(p.Int("iterations", 1), 1)

	var pulse func(i int)
	pulse = func(i int) {
		layer.Show(render.Flash{Color: color})
		layer.Opacity.Animate(0, d.sched.Now(), dur, render.EaseOutQuad)
		d.flashTasks.Add(d.sched.After(dur, func() {
			layer.Reset()
			if i+1 < iterations {
				d.flashTasks.Add(d.sched.After(gap, func() { pulse(i + 1) }))
			}
		}))
	}
	pulse(0)
}

// curtain shows closed panels that part after 100ms and vanish once open
func (d *Dispatcher) curtain(p Payload) {
	d.curtainTasks.Cancel()
	layer := d.scene.Layer(render.LayerCurtain)

	dur := millis(p.Or("duration", 0), time.Duration(DefaultCurtainMillis)*time.Millisecond)
	c := &render.Curtain{Image: p.String("image", DefaultCurtainImage), Open: render.Still(0)}
	layer.Show(c)

	d.curtainTasks.Add(d.sched.After(curtainDelay, func() {
		c.Open.Animate(1, d.sched.Now(), dur, render.EaseInCubic)
	}))
	d.curtainTasks.Add(d.sched.After(dur+curtainLinger, layer.Reset))
}

func (d *Dispatcher) fadeIn(layer *render.Layer, fade time.Duration) {
	layer.Opacity.Set(0)
	layer.Opacity.Animate(1, d.sched.Now(), fade, render.EaseSmoothstep)
}

// fadeOutAfter fades layer out once hold has elapsed and empties it when the fade ends
func (d *Dispatcher) fadeOutAfter(group *engine.TaskGroup, layer *render.Layer, hold, fade time.Duration) {
	group.Add(d.sched.After(hold, func() {
		layer.Opacity.Animate(0, d.sched.Now(), fade, render.EaseSmoothstep)
		group.Add(d.sched.After(fade, layer.Reset))
	}))
}

func isVideo(src string) bool {
	switch strings.ToLower(path.Ext(src)) {
	case ".webm", ".mp4":
		return true
	}
	return false
}

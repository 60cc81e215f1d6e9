package fx

import (
	"github.com/lixenwraith/canvas-fx/render"
)

// applyFilter replaces the active filter and arms its auto-reset when "duration" is positive
func (d *Dispatcher) applyFilter(f render.Filter, p Payload) {
	d.resetFilters()
	d.scene.Layer(render.LayerFilter).Show(f)

	if hold := seconds(p.Float("duration", 0)); hold > 0 {
		d.filterTasks.Add(d.sched.After(hold, d.resetFilters))
	}
}

// resetFilters removes any filter and cancels pending auto-resets
func (d *Dispatcher) resetFilters() {
	d.filterTasks.Cancel()
	if l := d.scene.Layer(render.LayerFilter); l != nil {
		l.Reset()
	}
}

func (d *Dispatcher) filterColor(p Payload) {
	d.applyFilter(render.Filter{
		Kind:    render.FilterColorize,
		Color:   render.ColorOr(p.String("color", DefaultTintColor), render.RGBRed),
		Opacity: p.Or("opacity", DefaultTintOpacity),
	}, p)
}

func (d *Dispatcher) filterNight(p Payload) {
	d.applyFilter(render.Filter{Kind: render.FilterNightVision}, p)
}

func (d *Dispatcher) filterBW(p Payload) {
	d.applyFilter(render.Filter{Kind: render.FilterBlackAndWhite}, p)
}

func (d *Dispatcher) filterVignette(p Payload) {
	d.applyFilter(render.Filter{
		Kind:      render.FilterVignette,
		Color:     render.ColorOr(p.String("color", DefaultVignetteColor), render.RGBBlack),
		Intensity: p.Or("intensity", DefaultVignette),
	}, p)
}

func (d *Dispatcher) filterBlur(p Payload) {
	d.applyFilter(render.Filter{
		Kind:   render.FilterBlur,
		Radius: p.Or("intensity", DefaultBlurRadius),
	}, p)
}

package render

import (
	"math"
	"time"
)

// Easing maps progress [0,1] to eased progress [0,1]
type Easing func(t float64) float64

// Common easing functions
var (
	EaseLinear Easing = func(t float64) float64 { return t }

	// EaseSmoothstep accelerates at start, decelerates at end
	EaseSmoothstep Easing = func(t float64) float64 {
		return t * t * (3.0 - 2.0*t)
	}

	EaseOutQuad Easing = func(t float64) float64 {
		return t * (2.0 - t)
	}

	EaseInCubic Easing = func(t float64) float64 {
		return t * t * t
	}

	EaseOutCubic Easing = func(t float64) float64 {
		t1 := t - 1.0
		return t1*t1*t1 + 1.0
	}

	EaseInOutSine Easing = func(t float64) float64 {
		return 0.5 - 0.5*math.Cos(math.Pi*t)
	}
)

// Tween is a single animated scalar, the equivalent of a CSS transition on one property
type Tween struct {
	From, To float64
	Start    time.Time
	Duration time.Duration
	Ease     Easing
}

// Still returns a tween resting at v
func Still(v float64) Tween {
	return Tween{From: v, To: v}
}

// Value returns the interpolated value at now
func (tw Tween) Value(now time.Time) float64 {
	if tw.Duration <= 0 || !now.Before(tw.Start.Add(tw.Duration)) {
		return tw.To
	}
	if now.Before(tw.Start) {
		return tw.From
	}
	progress := float64(now.Sub(tw.Start)) / float64(tw.Duration)
	ease := tw.Ease
	if ease == nil {
		ease = EaseSmoothstep
	}
	return tw.From + (tw.To-tw.From)*ease(clamp01(progress))
}

// Animating reports whether the tween is still moving at now
func (tw Tween) Animating(now time.Time) bool {
	return tw.Duration > 0 && now.Before(tw.Start.Add(tw.Duration)) && tw.From != tw.To
}

// Animate starts a transition to target from the value at now
func (tw *Tween) Animate(target float64, now time.Time, d time.Duration, ease Easing) {
	current := tw.Value(now)
	*tw = Tween{From: current, To: target, Start: now, Duration: d, Ease: ease}
}

// Set jumps to v without transition
func (tw *Tween) Set(v float64) {
	*tw = Still(v)
}

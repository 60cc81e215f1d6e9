package render

import (
	"strconv"
	"strings"
	"time"
)

// LayerID names one of the fixed overlay surfaces
type LayerID uint8

const (
	LayerParticles LayerID = iota
	LayerBorder
	LayerCover
	LayerText
	LayerFilter
	LayerFlash
	LayerLetterbox
	LayerCurtain

	LayerCount
)

var layerNames = [LayerCount]string{
	LayerParticles: "particles",
	LayerBorder:    "border",
	LayerCover:     "cover",
	LayerText:      "text",
	LayerFilter:    "filter",
	LayerFlash:     "flash",
	LayerLetterbox: "letterbox",
	LayerCurtain:   "curtain",
}

func (id LayerID) String() string {
	if id < LayerCount {
		return layerNames[id]
	}
	return "layer(" + strconv.Itoa(int(id)) + ")"
}

// Layer is a singleton screen-space surface
// Visibility and content are owned by the effect handling that layer
type Layer struct {
	ID      LayerID
	Visible bool
	Opacity Tween
	Content Content
}

// Show makes the layer visible with the given content at full opacity
func (l *Layer) Show(c Content) {
	l.Visible = true
	l.Content = c
	l.Opacity.Set(1)
}

// Hide keeps the content but stops drawing the layer
func (l *Layer) Hide() {
	l.Visible = false
}

// Reset hides and empties the layer
func (l *Layer) Reset() {
	l.Visible = false
	l.Content = nil
	l.Opacity.Set(1)
}

// Empty reports whether the layer holds no content
func (l *Layer) Empty() bool {
	return l.Content == nil
}

// Content is the payload drawn by a layer
type Content interface {
	isContent()
}

// Border is the screen frame
type Border struct {
	Thickness float64 // px
	Color     RGB
	Triplet   string // decimal "r, g, b", the value the frame is tinted with
}

// Media is a full-screen image or looping muted video
type Media struct {
	Src     string
	Video   bool
	Opacity float64
}

// FillMode selects how much of the screen a banner covers
type FillMode uint8

const (
	FillBox FillMode = iota
	FillBand
	FillFull
)

// ParseFill maps "box", "band" and "full"; anything else is FillBox
func ParseFill(s string) FillMode {
	switch strings.ToLower(s) {
	case "band":
		return FillBand
	case "full":
		return FillFull
	default:
		return FillBox
	}
}

// Banner is large overlay text
type Banner struct {
	Text       string
	Color      RGB
	Background RGB
	Font       string
	Fill       FillMode
}

// FilterKind enumerates the single-active screen filters
type FilterKind uint8

const (
	FilterNone FilterKind = iota
	FilterBlur
	FilterColorize
	FilterNightVision
	FilterBlackAndWhite
	FilterVignette
)

// Filter is the active whole-screen filter
type Filter struct {
	Kind      FilterKind
	Radius    float64 // blur px
	Color     RGB     // colorize tint, vignette edge
	Opacity   float64 // colorize strength
	Intensity float64 // vignette edge alpha
}

// Flash is a solid color pulse; its strength is the layer opacity
type Flash struct {
	Color RGB
}

// Bars are letterbox bars; Extent grows from 0 to 1 once opened
type Bars struct {
	Height string // CSS length: "12vh", "10%", "80px"
	Extent Tween
}

// Curtain is a pair of panels; Open goes from 0 (closed) to 1 (fully apart)
type Curtain struct {
	Image string
	Open  Tween
}

func (Border) isContent()   {}
func (Media) isContent()    {}
func (Banner) isContent()   {}
func (Filter) isContent()   {}
func (Flash) isContent()    {}
func (*Bars) isContent()    {}
func (*Curtain) isContent() {}

// ParseLength converts a CSS-like length to pixels against extent (the viewport height)
// Accepts vh, %, px and bare numbers (px); invalid input yields 0
func ParseLength(s string, extent float64) float64 {
	s = strings.TrimSpace(strings.ToLower(s))
	scale := 1.0
	switch {
	case strings.HasSuffix(s, "vh"):
		s, scale = strings.TrimSuffix(s, "vh"), extent/100
	case strings.HasSuffix(s, "%"):
		s, scale = strings.TrimSuffix(s, "%"), extent/100
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v * scale
}

// Pulse is a periodic scale animation of the whole view
type Pulse struct {
	Scale      float64 // peak scale factor
	Beat       time.Duration
	Iterations int // 0 repeats forever
	Start      time.Time
}

// Factor returns the scale at now; 1 outside the animation
func (p Pulse) Factor(now time.Time) float64 {
	if p.Beat <= 0 || p.Scale == 0 || now.Before(p.Start) {
		return 1
	}
	elapsed := now.Sub(p.Start)
	if p.Iterations > 0 && elapsed >= p.Beat*time.Duration(p.Iterations) {
		return 1
	}
	phase := float64(elapsed%p.Beat) / float64(p.Beat)
	// 0 → 1 → 0 over one beat
	return 1 + (p.Scale-1)*EaseInOutSine(1-absf(2*phase-1))
}

// View is the root transform shared by every layer
type View struct {
	ShakeX, ShakeY float64 // px
	Rotation       Tween   // cumulative degrees
	Pulse          Pulse
}

// Reset clears all view transforms
func (v *View) Reset() {
	*v = View{}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

package fx

import "github.com/lixenwraith/canvas-fx/audio"

// Field describes one option of an effect, with the default a handler applies when it is omitted
type Field struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"` // text, number, select, checkbox, color
	Label   string   `json:"label"`
	Default any      `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Effect is a catalog entry: the wire action and the named operation that emits it
type Effect struct {
	Action Action  `json:"-"`
	Name   string  `json:"action"`
	Method string  `json:"method"`
	Fields []Field `json:"fields"`
}

// Defaults applied by the handlers
const (
	DefaultSpawnCount     = 80
	DefaultSpawnSpeed     = 300.0
	DefaultShatterCount   = 50
	DefaultBorderWidth    = 20.0
	DefaultBorderColor    = "red"
	DefaultCoverSeconds   = 5.0
	DefaultTextSeconds    = 3.0
	DefaultTextColor      = "white"
	DefaultTextBackground = "black"
	DefaultTextFont       = "Impact, sans-serif"
	DefaultLetterbox      = "12vh"
	DefaultFlashMillis    = 1000.0
	DefaultFlashInterval  = 100.0
	DefaultCurtainMillis  = 2000.0
	DefaultCurtainImage   = "modules/canvas-fx/assets/images/curtain.webp"
	DefaultSpinAngle      = 360.0
	DefaultSpinMillis     = 2000.0
	DefaultPulseIntensity = 2.0
	DefaultPulseMillis    = 1000.0
	DefaultTintColor      = "red"
	DefaultTintOpacity    = 0.3
	DefaultVignette       = 0.8
	DefaultVignetteColor  = "black"
	DefaultBlurRadius     = 5.0
)

var (
	directions = []string{"top-bottom", "bottom-top", "left-right", "right-left"}
	audioField = Field{Name: KeyAudio, Type: "text", Label: "Audio URL"}
	volField   = Field{Name: KeyVolume, Type: "number", Label: "Volume", Default: audio.DefaultVolume}
	holdField  = Field{Name: "duration", Type: "number", Label: "Duration (sec)", Default: 0}
)

var catalog = []Effect{
	{Action: ActionSpawn, Method: "Rain", Fields: []Field{
		{Name: "content", Type: "text", Label: "Emoji/Text", Default: "🔥"},
		{Name: "type", Type: "select", Label: "Type", Default: "text", Options: []string{"text", "image"}},
		{Name: "count", Type: "number", Label: "Count (Burst)", Default: DefaultSpawnCount},
		{Name: "speed", Type: "number", Label: "Speed", Default: DefaultSpawnSpeed},
		{Name: "scale", Type: "number", Label: "Scale", Default: 1},
		{Name: "time", Type: "number", Label: "Duration (Emit)", Default: 0},
		{Name: "direction", Type: "select", Label: "Direction", Default: directions[0], Options: directions},
		{Name: "mode", Type: "select", Label: "Mode", Default: "", Options: []string{"", "simple"}},
	}},
	{Action: ActionShake, Method: "ScreenShake", Fields: []Field{
		{Name: "intensity", Type: "select", Label: "Intensity", Default: "heavy", Options: []string{"mild", "heavy", "extreme"}},
		{Name: "duration", Type: "number", Label: "Duration (ms)", Default: 500},
	}},
	{Action: ActionShatter, Method: "GlassShatter", Fields: []Field{
		{Name: "count", Type: "number", Label: "Shards", Default: DefaultShatterCount},
		audioField, volField,
	}},
	{Action: ActionBorder, Method: "ScreenBorder", Fields: []Field{
		{Name: "active", Type: "checkbox", Label: "Active (toggle when omitted)"},
		{Name: "color", Type: "color", Label: "Color", Default: DefaultBorderColor},
		{Name: "thickness", Type: "number", Label: "Thickness", Default: DefaultBorderWidth},
	}},
	{Action: ActionCover, Method: "ScreenCover", Fields: []Field{
		{Name: "content", Type: "text", Label: "Image/Video URL"},
		{Name: "opacity", Type: "number", Label: "Opacity", Default: 1.0},
		{Name: "duration", Type: "number", Label: "Duration (sec, 0 holds)", Default: DefaultCoverSeconds},
		audioField, volField,
	}},
	{Action: ActionText, Method: "Text", Fields: []Field{
		{Name: "content", Type: "text", Label: "Message"},
		{Name: "color", Type: "text", Label: "Color", Default: DefaultTextColor},
		{Name: "backgroundColor", Type: "color", Label: "Background", Default: DefaultTextBackground},
		{Name: "fill", Type: "select", Label: "Fill Mode", Default: "box", Options: []string{"box", "band", "full"}},
		{Name: "fontFamily", Type: "text", Label: "Font Family", Default: DefaultTextFont},
		{Name: "duration", Type: "number", Label: "Duration (sec, 0 holds)", Default: DefaultTextSeconds},
		audioField, volField,
	}},
	{Action: ActionLetterbox, Method: "Letterbox", Fields: []Field{
		{Name: "active", Type: "checkbox", Label: "Active (toggle when omitted)"},
		{Name: "height", Type: "text", Label: "Height", Default: DefaultLetterbox},
	}},
	{Action: ActionFlash, Method: "Flash", Fields: []Field{
		{Name: "color", Type: "color", Label: "Color", Default: "white"},
		{Name: "duration", Type: "number", Label: "Duration (ms)", Default: DefaultFlashMillis},
		{Name: "iterations", Type: "number", Label: "Iterations", Default: 1},
		{Name: "interval", Type: "number", Label: "Interval (ms)", Default: DefaultFlashInterval},
		audioField, volField,
	}},
	{Action: ActionCurtain, Method: "Curtain", Fields: []Field{
		{Name: "duration", Type: "number", Label: "Open Time (ms)", Default: DefaultCurtainMillis},
		{Name: "image", Type: "text", Label: "Image URL", Default: DefaultCurtainImage},
	}},
	{Action: ActionSpin, Method: "Spin", Fields: []Field{
		{Name: "angle", Type: "number", Label: "Angle", Default: DefaultSpinAngle},
		{Name: "duration", Type: "number", Label: "Duration (ms)", Default: DefaultSpinMillis},
		{Name: "direction", Type: "select", Label: "Direction", Default: "clockwise", Options: []string{"clockwise", "counter-clockwise"}},
	}},
	{Action: ActionPulsate, Method: "Pulsate", Fields: []Field{
		{Name: "intensity", Type: "number", Label: "Intensity (1-5)", Default: DefaultPulseIntensity},
		{Name: "duration", Type: "number", Label: "Beat Time (ms)", Default: DefaultPulseMillis},
		{Name: "iterations", Type: "number", Label: "Iterations (0 repeats)", Default: 0},
	}},
	{Action: ActionFilterColor, Method: "Colorize", Fields: []Field{
		{Name: "color", Type: "color", Label: "Color", Default: DefaultTintColor},
		{Name: "opacity", Type: "number", Label: "Opacity", Default: DefaultTintOpacity},
		holdField,
	}},
	{Action: ActionFilterNight, Method: "NightVision", Fields: []Field{holdField}},
	{Action: ActionFilterBW, Method: "BlackAndWhite", Fields: []Field{holdField}},
	{Action: ActionFilterVignette, Method: "Vignette", Fields: []Field{
		{Name: "intensity", Type: "number", Label: "Intensity", Default: DefaultVignette},
		{Name: "color", Type: "text", Label: "Color", Default: DefaultVignetteColor},
		holdField,
	}},
	{Action: ActionFilterBlur, Method: "Blur", Fields: []Field{
		{Name: "intensity", Type: "number", Label: "Px Radius", Default: DefaultBlurRadius},
		holdField,
	}},
	{Action: ActionClear, Method: "Clear", Fields: []Field{}},
}

func init() {
	for i := range catalog {
		catalog[i].Name = catalog[i].Action.String()
	}
}

// Catalog returns the effect catalog; the slice is shared and must not be modified
func Catalog() []Effect {
	return catalog
}

package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB stores explicit 8-bit color channels, decoupled from tcell
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}
	RGBRed   = RGB{255, 0, 0}
)

// DefaultTriplet is returned by ResolveRGB for unrecognised input
const DefaultTriplet = "255, 0, 0"

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (dst RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(dst.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(dst.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(dst.B)*inv),
	}
}

// Scale multiplies every channel by f, clamped to [0, 1]
func (c RGB) Scale(f float64) RGB {
	f = clamp01(f)
	return RGB{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

// Gray returns the Rec. 601 luma as a neutral gray
func (c RGB) Gray() RGB {
	y := uint8(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
	return RGB{y, y, y}
}

// Triplet formats the color as a decimal "r, g, b" string
func (c RGB) Triplet() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

// TCell converts to a true-color tcell color
func (c RGB) TCell() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// ParseColor resolves a color name or hex expression
// Hex accepts #rgb and #rrggbb; names follow the tcell (W3C) color table
func ParseColor(expr string) (RGB, bool) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return RGB{}, false
	}

	if strings.HasPrefix(expr, "#") {
		c, err := colorful.Hex(expr)
		if err != nil {
			return RGB{}, false
		}
		r, g, b := c.RGB255()
		return RGB{r, g, b}, true
	}

	tc := tcell.GetColor(expr)
	if tc == tcell.ColorDefault || !tc.Valid() {
		return RGB{}, false
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return RGB{}, false
	}
	return RGB{uint8(r), uint8(g), uint8(b)}, true
}

// ResolveRGB returns the decimal "r, g, b" triplet for expr, or DefaultTriplet
func ResolveRGB(expr string) string {
	c, ok := ParseColor(expr)
	if !ok {
		return DefaultTriplet
	}
	return c.Triplet()
}

// ColorOr parses expr, falling back to def
func ColorOr(expr string, def RGB) RGB {
	if c, ok := ParseColor(expr); ok {
		return c
	}
	return def
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

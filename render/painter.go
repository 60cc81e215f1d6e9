package render

import (
	"math"
	"path"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Default pixel size of one terminal cell; maps the pixel-space scene onto the grid
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)

var (
	colorCover   = RGB{40, 40, 48}
	colorCurtain = RGB{120, 12, 24}
	colorShard   = RGB{200, 230, 255}
	colorImage   = RGB{255, 210, 120}
)

type cell struct {
	r      rune
	fg, bg RGB
}

// Painter draws a Scene onto a tcell screen
type Painter struct {
	screen       tcell.Screen
	cellW, cellH float64

	cols, rows int
	buf        []cell
}

// NewPainter creates a painter; non-positive cell sizes select the defaults
func NewPainter(screen tcell.Screen, cellW, cellH float64) *Painter {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	return &Painter{screen: screen, cellW: cellW, cellH: cellH}
}

// Viewport returns the screen size in scene pixels
func (p *Painter) Viewport() (float64, float64) {
	cols, rows := p.screen.Size()
	return float64(cols) * p.cellW, float64(rows) * p.cellH
}

// Paint composes every visible layer and flushes the screen
func (p *Painter) Paint(s *Scene, now time.Time) {
	p.cols, p.rows = p.screen.Size()
	if n := p.cols * p.rows; cap(p.buf) < n {
		p.buf = make([]cell, n)
	} else {
		p.buf = p.buf[:n]
	}
	for i := range p.buf {
		p.buf[i] = cell{r: ' ', fg: RGBWhite, bg: RGBBlack}
	}

	p.drawSprites(s)
	p.drawLayer(s.Layer(LayerCover), now)
	p.drawLayer(s.Layer(LayerText), now)
	p.drawLayer(s.Layer(LayerFilter), now)
	p.drawLayer(s.Layer(LayerFlash), now)
	p.drawLayer(s.Layer(LayerLetterbox), now)
	p.drawLayer(s.Layer(LayerCurtain), now)
	p.drawLayer(s.Layer(LayerBorder), now)

	p.blit(s.View, now)
	p.screen.Show()
}

func (p *Painter) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= p.cols || y >= p.rows {
		return nil
	}
	return &p.buf[y*p.cols+x]
}

func (p *Painter) fill(x0, y0, x1, y1 int, r rune, bg RGB, alpha float64) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if c := p.at(x, y); c != nil {
				c.bg = c.bg.Blend(bg, alpha)
				if alpha >= 1 {
					c.r = r
				}
			}
		}
	}
}

func (p *Painter) text(x, y int, s string, fg RGB, alpha float64) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if c := p.at(x, y); c != nil && w > 0 {
			c.r = r
			c.fg = c.bg.Blend(fg, alpha)
		}
		x += max(w, 1)
	}
}

func (p *Painter) drawSprites(s *Scene) {
	for _, sp := range s.Sprites() {
		c := p.at(int(math.Floor(sp.X/p.cellW)), int(math.Floor(sp.Y/p.cellH)))
		if c == nil {
			continue
		}
		switch sp.Kind {
		case SpriteImage:
			c.r, c.fg = '●', colorImage
		case SpriteShard:
			c.r, c.fg = shardRune(sp.Angle), colorShard
		default:
			for _, r := range sp.Text {
				c.r = r
				break
			}
			c.fg = RGBWhite
		}
	}
}

func shardRune(angle float64) rune {
	quads := [4]rune{'◢', '◣', '◤', '◥'}
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return quads[int(a/90)%4]
}

func (p *Painter) drawLayer(l *Layer, now time.Time) {
	if l == nil || !l.Visible || l.Content == nil {
		return
	}
	alpha := clamp01(l.Opacity.Value(now))
	if alpha == 0 {
		return
	}

	switch c := l.Content.(type) {
	case Media:
		p.fill(0, 0, p.cols, p.rows, ' ', colorCover, alpha*clamp01(c.Opacity))
		if c.Src == "" {
			return
		}
		label := "▣ " + path.Base(c.Src)
		if c.Video {
			label = "▶ " + path.Base(c.Src)
		}
		p.text((p.cols-runewidth.StringWidth(label))/2, p.rows/2, label, RGBWhite, alpha)

	case Banner:
		p.drawBanner(c, alpha)

	case Filter:
		p.applyFilter(c, alpha)

	case Flash:
		for i := range p.buf {
			p.buf[i].bg = p.buf[i].bg.Blend(c.Color, alpha)
			p.buf[i].fg = p.buf[i].fg.Blend(c.Color, alpha)
		}

	case *Bars:
		extent := clamp01(c.Extent.Value(now))
		px := ParseLength(c.Height, float64(p.rows)*p.cellH) * extent
		n := int(math.Round(px / p.cellH))
		p.fill(0, 0, p.cols, n, ' ', RGBBlack, 1)
		p.fill(0, p.rows-n, p.cols, p.rows, ' ', RGBBlack, 1)

	case *Curtain:
		open := clamp01(c.Open.Value(now))
		half := float64(p.cols) / 2
		w := int(math.Round(half * (1 - open)))
		p.fill(0, 0, w, p.rows, '▒', colorCurtain, 1)
		p.fill(p.cols-w, 0, p.cols, p.rows, '▒', colorCurtain, 1)

	case Border:
		tx := max(1, int(math.Round(c.Thickness/p.cellW)))
		ty := max(1, int(math.Round(c.Thickness/p.cellH)))
		p.fill(0, 0, p.cols, ty, ' ', c.Color, alpha)
		p.fill(0, p.rows-ty, p.cols, p.rows, ' ', c.Color, alpha)
		p.fill(0, ty, tx, p.rows-ty, ' ', c.Color, alpha)
		p.fill(p.cols-tx, ty, p.cols, p.rows-ty, ' ', c.Color, alpha)
	}
}

func (p *Painter) drawBanner(b Banner, alpha float64) {
	if b.Text == "" {
		return
	}
	w := runewidth.StringWidth(b.Text)
	mid := p.rows / 2
	switch b.Fill {
	case FillFull:
		p.fill(0, 0, p.cols, p.rows, ' ', b.Background, alpha)
	case FillBand:
		p.fill(0, mid-1, p.cols, mid+2, ' ', b.Background, alpha)
	default:
		x0 := (p.cols - w) / 2
		p.fill(x0-2, mid-1, x0+w+2, mid+2, ' ', b.Background, alpha)
	}
	p.text((p.cols-w)/2, mid, b.Text, b.Color, alpha)
}

func (p *Painter) applyFilter(f Filter, alpha float64) {
	cx, cy := float64(p.cols-1)/2, float64(p.rows-1)/2
	for y := 0; y < p.rows; y++ {
		for x := 0; x < p.cols; x++ {
			c := &p.buf[y*p.cols+x]
			switch f.Kind {
			case FilterBlur:
				// Terminal cells cannot blur; soften foreground toward background instead
				c.fg = c.fg.Blend(c.bg, alpha*clamp01(f.Radius/10))
			case FilterColorize:
				c.bg = c.bg.Blend(f.Color, alpha*f.Opacity)
				c.fg = c.fg.Blend(f.Color, alpha*f.Opacity)
			case FilterBlackAndWhite:
				c.bg, c.fg = c.bg.Gray(), c.fg.Gray()
			case FilterNightVision:
				c.bg = RGB{0, c.bg.Gray().G/2 + 20, 0}
				c.fg = RGB{40, c.fg.Gray().G, 40}
			case FilterVignette:
				dx, dy := (float64(x)-cx)/max(cx, 1), (float64(y)-cy)/max(cy, 1)
				d := math.Sqrt(dx*dx+dy*dy) / math.Sqrt2
				edge := 0.0
				if d > 0.5 {
					edge = EaseSmoothstep(clamp01((d - 0.5) * 2))
				}
				a := alpha * f.Intensity * edge
				c.bg = c.bg.Blend(f.Color, a)
				c.fg = c.fg.Blend(f.Color, a)
			}
		}
	}
}

// blit writes the buffer through the view transform: shake offset, half-turn rotation, pulse scale
func (p *Painter) blit(v View, now time.Time) {
	ox := int(math.Round(v.ShakeX / p.cellW))
	oy := int(math.Round(v.ShakeY / p.cellH))
	scale := v.Pulse.Factor(now)
	rot := math.Mod(v.Rotation.Value(now), 360)
	if rot < 0 {
		rot += 360
	}
	flipped := rot > 90 && rot < 270
	cx, cy := float64(p.cols-1)/2, float64(p.rows-1)/2

	for y := 0; y < p.rows; y++ {
		for x := 0; x < p.cols; x++ {
			sx := cx + (float64(x-ox)-cx)/scale
			sy := cy + (float64(y-oy)-cy)/scale
			if flipped {
				sx, sy = 2*cx-sx, 2*cy-sy
			}
			c := p.at(int(math.Round(sx)), int(math.Round(sy)))
			if c == nil {
				p.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(tcell.ColorBlack))
				continue
			}
			style := tcell.StyleDefault.Foreground(c.fg.TCell()).Background(c.bg.TCell())
			p.screen.SetContent(x, y, c.r, nil, style)
		}
	}
}

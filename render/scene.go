package render

import (
	"slices"

	"github.com/lixenwraith/canvas-fx/physics"
)

// SpriteKind selects how a particle visual is drawn
type SpriteKind uint8

const (
	SpriteGlyph SpriteKind = iota
	SpriteImage
	SpriteShard
)

// Sprite is the visual owned by one particle
type Sprite struct {
	Handle physics.Handle
	Kind   SpriteKind
	Text   string
	Src    string
	Size   float64       // px
	Shape  [3][2]float64 // shard polygon, percent of Size
	X, Y   float64
	Angle  float64
}

// Scene owns the overlay layers, the particle visuals and the view transform
// Not safe for concurrent use; mutated from the scheduler goroutine only
type Scene struct {
	width, height float64

	layers [LayerCount]*Layer
	ready  bool

	sprites map[physics.Handle]*Sprite
	next    physics.Handle

	View View
}

// NewScene creates a scene for a viewport of width x height pixels
func NewScene(width, height float64) *Scene {
	return &Scene{
		width:   width,
		height:  height,
		sprites: make(map[physics.Handle]*Sprite),
	}
}

// Init creates the layers once; later calls are no-ops
// Returns true when the layers were created by this call
func (s *Scene) Init() bool {
	if s.ready {
		return false
	}
	for id := LayerID(0); id < LayerCount; id++ {
		s.layers[id] = &Layer{ID: id, Opacity: Still(1)}
	}
	s.ready = true
	return true
}

// Ready reports whether Init has run
func (s *Scene) Ready() bool {
	return s.ready
}

// Layer returns the named layer, nil before Init
func (s *Scene) Layer(id LayerID) *Layer {
	if id >= LayerCount {
		return nil
	}
	return s.layers[id]
}

// Resize updates the viewport size in pixels
func (s *Scene) Resize(width, height float64) {
	s.width, s.height = width, height
}

// Size implements physics.Surface
func (s *Scene) Size() (float64, float64) {
	return s.width, s.height
}

// AddSprite attaches a visual and returns its handle
func (s *Scene) AddSprite(sp Sprite) physics.Handle {
	s.next++
	sp.Handle = s.next
	s.sprites[sp.Handle] = &sp
	if l := s.Layer(LayerParticles); l != nil {
		l.Visible = true
	}
	return sp.Handle
}

// Sprite returns the visual for h
func (s *Scene) Sprite(h physics.Handle) (*Sprite, bool) {
	sp, ok := s.sprites[h]
	return sp, ok
}

// Place implements physics.Surface
func (s *Scene) Place(h physics.Handle, x, y, rotation float64) {
	if sp, ok := s.sprites[h]; ok {
		sp.X, sp.Y, sp.Angle = x, y, rotation
	}
}

// Detach implements physics.Surface
// The particle layer hides once its last visual is gone
func (s *Scene) Detach(h physics.Handle) {
	delete(s.sprites, h)
	if len(s.sprites) == 0 {
		s.hideParticles()
	}
}

func (s *Scene) hideParticles() {
	if l := s.Layer(LayerParticles); l != nil {
		l.Visible = false
	}
}

// SpriteCount returns the number of attached visuals
func (s *Scene) SpriteCount() int {
	return len(s.sprites)
}

// Sprites returns the attached visuals in creation order
func (s *Scene) Sprites() []*Sprite {
	out := make([]*Sprite, 0, len(s.sprites))
	for _, sp := range s.sprites {
		out = append(out, sp)
	}
	slices.SortFunc(out, func(a, b *Sprite) int {
		return int(a.Handle) - int(b.Handle)
	})
	return out
}

// ClearSprites detaches every visual
func (s *Scene) ClearSprites() {
	clear(s.sprites)
	s.hideParticles()
}

// Reset hides and empties every layer, drops all visuals and the view transform
func (s *Scene) Reset() {
	s.ClearSprites()
	for _, l := range s.layers {
		if l != nil {
			l.Reset()
		}
	}
	s.View.Reset()
}

// Quiet reports whether nothing is visible and no transform is applied
func (s *Scene) Quiet() bool {
	if len(s.sprites) > 0 {
		return false
	}
	for _, l := range s.layers {
		if l != nil && (l.Visible || l.Content != nil) && l.ID != LayerParticles {
			return false
		}
	}
	return s.View.ShakeX == 0 && s.View.ShakeY == 0 &&
		s.View.Rotation.To == 0 && s.View.Pulse.Beat == 0
}

var _ physics.Surface = (*Scene)(nil)

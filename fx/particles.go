package fx

import (
	"math"

	"github.com/lixenwraith/canvas-fx/physics"
	"github.com/lixenwraith/canvas-fx/render"
)

// Spawn geometry
const (
	glyphSize    = 32.0 // px, text particles at scale 1
	imageSize    = 64.0 // px, image particles at scale 1
	spawnOffset  = 100.0
	speedJitter  = 0.5   // speed varies up to +50%
	spinJitter   = 100.0 // deg/s spread of rain rotation
	shardMinSize = 20.0
	shardMaxSize = 100.0
	shardMinPush = 200.0
	shardMaxPush = 800.0
	shardSpin    = 720.0
	shardGravity = 1000.0
)

// spawn starts a burst, or an emitter when "time" is positive
// An explicit count of zero spawns nothing
func (d *Dispatcher) spawn(p Payload) {
	count := max(int(p.Float("count", DefaultSpawnCount)), 0)
	if secs := p.Float("time", 0); secs > 0 {
		d.store.AddEmitter(physics.NewEmitter(count, secs, func(n int) {
			d.spawnBatch(p, n)
		}))
	} else {
		d.spawnBatch(p, count)
	}
	d.loop.Start()
}

// spawnBatch creates n rain particles entering from the requested edge
func (d *Dispatcher) spawnBatch(p Payload, n int) {
	w, h := d.scene.Size()

	sprite := render.Sprite{Kind: render.SpriteGlyph, Text: p.String("content", "")}
	base := glyphSize
	if p.String("type", "text") == "image" {
		sprite.Kind = render.SpriteImage
		sprite.Src = sprite.Text
		sprite.Text = ""
		base = imageSize
	}
	sprite.Size = base * p.Or("scale", 1)

	simple := p.String("mode", "") == "simple"
	speed := p.Or("speed", DefaultSpawnSpeed)
	dir := p.String("direction", "top-bottom")

	for range n {
		s := speed * (1 + d.random()*speedJitter)
		pt := &physics.Particle{
			Rotation:     d.random() * 360,
			RotationRate: (d.random() - 0.5) * spinJitter,
		}

		switch dir {
		case "bottom-top":
			pt.X, pt.Y, pt.VY = d.random()*w, h+spawnOffset, -s
		case "left-right":
			pt.X, pt.Y, pt.VX = -spawnOffset, d.random()*h, s
		case "right-left":
			pt.X, pt.Y, pt.VX = w+spawnOffset, d.random()*h, -s
		default:
			pt.X, pt.Y, pt.VY = d.random()*w, -spawnOffset, s
		}

		if simple {
			pt.Axis, pt.Speed = physics.AxisY, pt.VY
			if pt.VX != 0 {
				pt.Axis, pt.Speed = physics.AxisX, pt.VX
			}
			pt.VX, pt.VY = 0, 0
		}

		pt.Visual = d.scene.AddSprite(sprite)
		d.scene.Place(pt.Visual, pt.X, pt.Y, pt.Rotation)
		d.store.AddParticle(pt)
	}
}

// shatter bursts glass shards from random points and shakes the screen
func (d *Dispatcher) shatter(p Payload) {
	count := p.Int("count", DefaultShatterCount)
	w, h := d.scene.Size()

	for range count {
		sprite := render.Sprite{
			Kind: render.SpriteShard,
			Size: shardMinSize + d.random()*(shardMaxSize-shardMinSize),
		}
		for i := range sprite.Shape {
			sprite.Shape[i] = [2]float64{d.random() * 100, d.random() * 100}
		}

		angle := d.random() * 2 * math.Pi
		force := shardMinPush + d.random()*(shardMaxPush-shardMinPush)
		pt := &physics.Particle{
			X:            d.random() * w,
			Y:            d.random() * h,
			VX:           math.Cos(angle) * force,
			VY:           math.Sin(angle) * force,
			Rotation:     d.random() * 360,
			RotationRate: (d.random() - 0.5) * shardSpin,
			Gravity:      shardGravity,
		}
		pt.Visual = d.scene.AddSprite(sprite)
		d.scene.Place(pt.Visual, pt.X, pt.Y, pt.Rotation)
		d.store.AddParticle(pt)
	}

	d.shake(shakeHeavy, shatterShake)
	d.loop.Start()
}

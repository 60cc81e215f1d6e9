package main

import (
	"log"

	"github.com/lixenwraith/canvas-fx/fx"
)

// demo is a canned effect bound to a key
type demo struct {
	label   string
	action  fx.Action
	payload fx.Payload
}

var demos = map[rune]demo{
	'1': {"snow", fx.ActionSpawn, fx.Payload{"content": "❄", "count": 60, "speed": 120}},
	'2': {"sparks from the left", fx.ActionSpawn, fx.Payload{"content": "✦", "count": 40, "time": 3, "direction": "left-right"}},
	'3': {"shake", fx.ActionShake, fx.Payload{"intensity": "heavy"}},
	'4': {"shatter", fx.ActionShatter, fx.Payload{"count": 40, fx.KeyAudio: "sounds/glass.mp3"}},
	'5': {"border", fx.ActionBorder, fx.Payload{"color": "gold"}},
	'6': {"banner", fx.ActionText, fx.Payload{"content": "CANVAS FX", "fill": "band", "color": "gold"}},
	'7': {"lightning", fx.ActionFlash, fx.Payload{"color": "white", "duration": 150, "iterations": 3, "interval": 120, fx.KeyAudio: "sounds/thunder.mp3"}},
	'8': {"letterbox", fx.ActionLetterbox, fx.Payload{}},
	'9': {"curtain", fx.ActionCurtain, fx.Payload{}},
	'0': {"spin", fx.ActionSpin, fx.Payload{"angle": 360, "duration": 1500}},
	'p': {"pulsate", fx.ActionPulsate, fx.Payload{"intensity": 3, "iterations": 4}},
	'o': {"cover", fx.ActionCover, fx.Payload{"content": "images/map.webp", "opacity": 0.8}},
	't': {"tint", fx.ActionFilterColor, fx.Payload{"color": "crimson", "duration": 4}},
	'n': {"night vision", fx.ActionFilterNight, fx.Payload{"duration": 5}},
	'b': {"black and white", fx.ActionFilterBW, fx.Payload{"duration": 5}},
	'v': {"vignette", fx.ActionFilterVignette, fx.Payload{}},
	'u': {"blur", fx.ActionFilterBlur, fx.Payload{"intensity": 4, "duration": 3}},
	'c': {"clear", fx.ActionClear, nil},
}

// runDemo emits the demo bound to key; false when the key is unbound
func runDemo(relay *fx.Relay, key rune) bool {
	d, ok := demos[key]
	if !ok {
		return false
	}
	if err := relay.Emit(d.action, d.payload); err != nil {
		log.Printf("demo %s: %v", d.label, err)
	}
	return true
}

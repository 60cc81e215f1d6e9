package fx

import (
	"errors"
)

// ErrUnknownAction is returned for action names outside the catalog
var ErrUnknownAction = errors.New("unknown action")

// Action is the closed set of effect kinds
type Action uint8

const (
	ActionNone Action = iota
	ActionSpawn
	ActionShake
	ActionShatter
	ActionBorder
	ActionCover
	ActionText
	ActionLetterbox
	ActionFlash
	ActionCurtain
	ActionSpin
	ActionPulsate
	ActionFilterColor
	ActionFilterNight
	ActionFilterBW
	ActionFilterVignette
	ActionFilterBlur
	ActionClear

	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:           "none",
	ActionSpawn:          "spawn",
	ActionShake:          "shake",
	ActionShatter:        "shatter",
	ActionBorder:         "border",
	ActionCover:          "cover",
	ActionText:           "text",
	ActionLetterbox:      "letterbox",
	ActionFlash:          "flash",
	ActionCurtain:        "curtain",
	ActionSpin:           "spin",
	ActionPulsate:        "pulsate",
	ActionFilterColor:    "filter_color",
	ActionFilterNight:    "filter_night",
	ActionFilterBW:       "filter_bw",
	ActionFilterVignette: "filter_vignette",
	ActionFilterBlur:     "filter_blur",
	ActionClear:          "clear",
}

var actionByName = func() map[string]Action {
	m := make(map[string]Action, actionCount)
	for a := ActionSpawn; a < actionCount; a++ {
		m[actionNames[a]] = a
	}
	return m
}()

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "none"
}

// Valid reports whether a names a dispatchable effect
func (a Action) Valid() bool {
	return a > ActionNone && a < actionCount
}

// ParseAction maps a wire name to its Action
func ParseAction(name string) (Action, bool) {
	a, ok := actionByName[name]
	return a, ok
}

// Actions returns every dispatchable action in catalog order
func Actions() []Action {
	out := make([]Action, 0, actionCount-1)
	for a := ActionSpawn; a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

type handlerFunc func(d *Dispatcher, p Payload)

// handlers is the static action table
var handlers = [actionCount]handlerFunc{
	ActionSpawn:          (*Dispatcher).spawn,
	ActionShake:          (*Dispatcher).shakeRequest,
	ActionShatter:        (*Dispatcher).shatter,
	ActionBorder:         (*Dispatcher).border,
	ActionCover:          (*Dispatcher).cover,
	ActionText:           (*Dispatcher).text,
	ActionLetterbox:      (*Dispatcher).letterbox,
	ActionFlash:          (*Dispatcher).flash,
	ActionCurtain:        (*Dispatcher).curtain,
	ActionSpin:           (*Dispatcher).spin,
	ActionPulsate:        (*Dispatcher).pulsate,
	ActionFilterColor:    (*Dispatcher).filterColor,
	ActionFilterNight:    (*Dispatcher).filterNight,
	ActionFilterBW:       (*Dispatcher).filterBW,
	ActionFilterVignette: (*Dispatcher).filterVignette,
	ActionFilterBlur:     (*Dispatcher).filterBlur,
	ActionClear:          (*Dispatcher).clearRequest,
}

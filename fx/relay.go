package fx

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/lixenwraith/canvas-fx/engine"
)

// Broadcaster delivers an encoded effect packet to remote clients
type Broadcaster interface {
	Broadcast(packet []byte) error
}

// Relay is the invocation surface: it sends requests to every broadcaster and runs them locally
// Safe for concurrent use; local execution is posted to the scheduler goroutine
type Relay struct {
	sched  *engine.Scheduler
	disp   *Dispatcher
	sender string
	outs   []Broadcaster

	// order keeps local and remote application order identical across concurrent emits
	// Broadcasters only enqueue, so holding it is short
	order sync.Mutex
}

// NewRelay creates a relay tagging outgoing packets with sender
func NewRelay(sched *engine.Scheduler, disp *Dispatcher, sender string, outs ...Broadcaster) *Relay {
	return &Relay{sched: sched, disp: disp, sender: sender, outs: outs}
}

// Emit queues the request for local execution, then broadcasts it unless "local" is set
// The local copy never carries "sender"; broadcast failures do not prevent local execution
func (r *Relay) Emit(a Action, p Payload) error {
	if !a.Valid() {
		return ErrUnknownAction
	}
	p = p.Clone()

	var packet []byte
	var errs []error
	if local, _ := p.Bool(KeyLocal); !local && len(r.outs) > 0 {
		var err error
		if packet, err = EncodePacket(a, p.With(KeySender, r.sender)); err != nil {
			errs = append(errs, err)
		}
	}

	r.order.Lock()
	defer r.order.Unlock()

	r.sched.Post(func() { r.disp.Dispatch(a, p) })
	if packet != nil {
		for _, out := range r.outs {
			if err := out.Broadcast(packet); err != nil {
				errs = append(errs, fmt.Errorf("broadcast %s: %w", a, err))
			}
		}
	}
	return errors.Join(errs...)
}

// EmitName is Emit for a wire action name
func (r *Relay) EmitName(name string, p Payload) error {
	a, ok := ParseAction(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return r.Emit(a, p)
}

// Receive executes a packet from a remote client; it is never re-broadcast
func (r *Relay) Receive(data []byte) error {
	pkt, err := DecodePacket(data)
	if err != nil {
		return err
	}
	a, ok := ParseAction(pkt.Action)
	if !ok {
		log.Printf("fx: ignoring unknown action %q from %s", pkt.Action, pkt.Payload.String(KeySender, "?"))
		return fmt.Errorf("%w: %q", ErrUnknownAction, pkt.Action)
	}
	r.sched.Post(func() { r.disp.Dispatch(a, pkt.Payload) })
	return nil
}

// Rain showers text particles
func (r *Relay) Rain(content string, p Payload) error {
	return r.Emit(ActionSpawn, p.With("type", "text").With("content", content))
}

// RainImage showers image particles
func (r *Relay) RainImage(path string, p Payload) error {
	return r.Emit(ActionSpawn, p.With("type", "image").With("content", path))
}

func (r *Relay) ScreenShake(p Payload) error  { return r.Emit(ActionShake, p) }
func (r *Relay) GlassShatter(p Payload) error { return r.Emit(ActionShatter, p) }
func (r *Relay) ScreenBorder(p Payload) error { return r.Emit(ActionBorder, p) }

// ScreenCover shows a full-screen image or video
func (r *Relay) ScreenCover(path string, p Payload) error {
	return r.Emit(ActionCover, p.With("content", path))
}

// Text shows a banner
func (r *Relay) Text(content string, p Payload) error {
	return r.Emit(ActionText, p.With("content", content))
}

func (r *Relay) Letterbox(p Payload) error     { return r.Emit(ActionLetterbox, p) }
func (r *Relay) Flash(p Payload) error         { return r.Emit(ActionFlash, p) }
func (r *Relay) Curtain(p Payload) error       { return r.Emit(ActionCurtain, p) }
func (r *Relay) Spin(p Payload) error          { return r.Emit(ActionSpin, p) }
func (r *Relay) Pulsate(p Payload) error       { return r.Emit(ActionPulsate, p) }
func (r *Relay) Colorize(p Payload) error      { return r.Emit(ActionFilterColor, p) }
func (r *Relay) NightVision(p Payload) error   { return r.Emit(ActionFilterNight, p) }
func (r *Relay) BlackAndWhite(p Payload) error { return r.Emit(ActionFilterBW, p) }
func (r *Relay) Vignette(p Payload) error      { return r.Emit(ActionFilterVignette, p) }
func (r *Relay) Blur(p Payload) error          { return r.Emit(ActionFilterBlur, p) }

// Clear removes every effect here and on every client
func (r *Relay) Clear() error { return r.Emit(ActionClear, nil) }

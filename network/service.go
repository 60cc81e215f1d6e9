package network

import (
	"errors"
	"log"
	"sync"
)

// ErrNotRunning is returned by Broadcast when there is no live transport
var ErrNotRunning = errors.New("network not running")

// PacketHandler receives an effect packet body on the sending peer's read goroutine
type PacketHandler func(from PeerID, payload []byte)

// Service carries effect packets over a Transport and plugs into service.Group
// RoleNone leaves it inert: Start succeeds and Broadcast reports ErrNotRunning
type Service struct {
	config    *Config
	transport *Transport

	mu       sync.RWMutex
	onPacket PacketHandler
}

// NewService returns an unconfigured service; Init supplies the Config
func NewService() *Service {
	return &Service{config: DefaultConfig()}
}

func (s *Service) Name() string           { return "network" }
func (s *Service) Dependencies() []string { return nil }

// Init accepts an optional *Config as its first argument
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if cfg, ok := args[0].(*Config); ok && cfg != nil {
			s.config = cfg
		}
	}
	if s.config.Role == RoleNone {
		return nil
	}

	t := NewTransport(s.config)
	t.SetHandlers(
		func(id PeerID) { log.Printf("network: peer %d connected (%s)", id, s.config.Role) },
		func(id PeerID) { log.Printf("network: peer %d gone", id) },
		s.deliver,
	)
	s.transport = t
	return nil
}

func (s *Service) Start() error {
	if s.transport == nil {
		return nil
	}
	return s.transport.Start()
}

// Stop flushes queued packets to every peer before closing
func (s *Service) Stop() error {
	if s.transport == nil {
		return nil
	}
	return s.transport.Stop()
}

// OnPacket installs the receiver for effect packets
func (s *Service) OnPacket(h PacketHandler) {
	s.mu.Lock()
	s.onPacket = h
	s.mu.Unlock()
}

// deliver hands effect frames to the receiver
// A server first fans the frame out to every other peer, flagged as relayed
func (s *Service) deliver(from PeerID, msg *Message) {
	if msg.Type != MsgEffect {
		return
	}
	if s.config.Role == RoleServer {
		fwd := NewMessage(MsgEffect, msg.Payload)
		fwd.Flags |= FlagRelayed
		s.transport.BroadcastExcept(fwd, from)
	}

	s.mu.RLock()
	h := s.onPacket
	s.mu.RUnlock()
	if h != nil {
		h(from, msg.Payload)
	}
}

// Broadcast queues one effect packet for every connected peer
func (s *Service) Broadcast(payload []byte) error {
	switch {
	case !s.IsRunning():
		return ErrNotRunning
	case len(payload) > MaxPayloadSize:
		return ErrPayloadTooLarge
	}
	s.transport.Broadcast(NewMessage(MsgEffect, payload))
	return nil
}

// Addr is the bound listener address for a server, "" otherwise
func (s *Service) Addr() string {
	if s.transport == nil {
		return ""
	}
	if a := s.transport.Addr(); a != nil {
		return a.String()
	}
	return ""
}

func (s *Service) PeerCount() int {
	if s.transport == nil {
		return 0
	}
	return s.transport.PeerCount()
}

func (s *Service) IsRunning() bool {
	return s.transport != nil && s.transport.IsRunning()
}

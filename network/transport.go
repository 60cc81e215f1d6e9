package network

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/canvas-fx/core"
)

// acceptBackoff throttles the accept loop after a transient listener error
const acceptBackoff = 50 * time.Millisecond

// Transport owns the sockets for one role: a listener for the server, one dialed link for a client
type Transport struct {
	config   *Config
	listener net.Listener
	peers    *PeerManager

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewTransport creates a stopped transport
func NewTransport(cfg *Config) *Transport {
	return &Transport{
		config: cfg,
		peers:  NewPeerManager(cfg),
	}
}

// SetHandlers configures message and connection callbacks
func (t *Transport) SetHandlers(
	onConnect func(PeerID),
	onDisconnect func(PeerID),
	onMessage func(PeerID, *Message),
) {
	t.peers.SetHandlers(onConnect, onDisconnect, onMessage)
}

// Start listens (server) or connects (client); a no-op when already running or disabled
func (t *Transport) Start() error {
	if t.config.Role == RoleNone || !t.running.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if t.config.Role == RoleServer {
		err = t.listen()
	} else {
		err = t.connect()
	}
	if err != nil {
		t.running.Store(false)
	}
	return err
}

func (t *Transport) listen() error {
	var (
		ln  net.Listener
		err error
	)
	if t.config.TLS != nil {
		ln, err = tls.Listen("tcp", t.config.Address, t.config.TLS)
	} else {
		ln, err = net.Listen("tcp", t.config.Address)
	}
	if err != nil {
		return fmt.Errorf("listen %s: %w", t.config.Address, err)
	}
	t.listener = ln

	t.wg.Add(1)
	core.Go(func() {
		defer t.wg.Done()
		t.accept(ln)
	})
	return nil
}

// accept adopts connections until the listener is closed
func (t *Transport) accept(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || !t.running.Load() {
				return
			}
			log.Printf("network: accept: %v", err)
			time.Sleep(acceptBackoff)
			continue
		}
		if _, err := t.peers.AddConnection(conn); err != nil {
			log.Printf("network: rejected %s: %v", conn.RemoteAddr(), err)
		}
	}
}

func (t *Transport) connect() error {
	conn, err := dial(t.config.Address, t.config)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.config.Address, err)
	}
	if _, err := t.peers.AddConnection(conn); err != nil {
		return err
	}
	return nil
}

// Stop closes the listener, then flushes and closes every peer
func (t *Transport) Stop() error {
	if !t.running.CompareAndSwap(true, false) {
		return nil
	}
	if t.listener != nil {
		t.listener.Close()
	}
	t.wg.Wait()
	t.peers.Close()
	return nil
}

// Addr returns the bound listener address (server role), nil otherwise
func (t *Transport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// Broadcast queues msg for every peer
func (t *Transport) Broadcast(msg *Message) int {
	return t.peers.Broadcast(msg)
}

// BroadcastExcept queues msg for every peer but one
func (t *Transport) BroadcastExcept(msg *Message, except PeerID) int {
	return t.peers.BroadcastExcept(msg, except)
}

// PeerCount returns connected peer count
func (t *Transport) PeerCount() int {
	return t.peers.PeerCount()
}

// IsRunning reports whether the transport has live sockets
func (t *Transport) IsRunning() bool {
	return t.running.Load()
}

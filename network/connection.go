package network

import (
	"bufio"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/canvas-fx/core"
)

// ErrMaxPeers is returned when a connection would exceed Config.MaxPeers
var ErrMaxPeers = errors.New("max peers reached")

// PeerID uniquely identifies a connected peer
type PeerID uint32

// closeGrace bounds how long Close waits for peers to flush when no write timeout is set
const closeGrace = time.Second

// Peer is one framed connection carrying effect packets
// Close is graceful: queued packets are flushed and a disconnect frame is sent before the socket closes
type Peer struct {
	ID   PeerID
	Addr string

	lastSeen atomic.Int64 // UnixNano of the last inbound frame
	outSeq   atomic.Uint32
	inSeq    atomic.Uint32

	conn   net.Conn
	cfg    *Config
	sendCh chan *Message

	quit     chan struct{} // closed when shutdown is requested
	done     chan struct{} // closed once the socket is closed
	quitOnce sync.Once
}

func newPeer(id PeerID, conn net.Conn, cfg *Config) *Peer {
	p := &Peer{
		ID:     id,
		Addr:   conn.RemoteAddr().String(),
		conn:   conn,
		cfg:    cfg,
		sendCh: make(chan *Message, max(cfg.SendQueueSize, 1)),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	p.lastSeen.Store(time.Now().UnixNano())
	return p
}

// Send queues msg; false when the peer is closing or its queue is full
func (p *Peer) Send(msg *Message) bool {
	select {
	case <-p.quit:
		return false
	default:
	}

	msg.Seq = p.outSeq.Add(1)
	msg.Ack = p.inSeq.Load()
	select {
	case p.sendCh <- msg:
		return true
	default:
		return false
	}
}

// Close requests shutdown; safe to call repeatedly and from any goroutine
func (p *Peer) Close() {
	p.quitOnce.Do(func() { close(p.quit) })
}

// Done is closed once the connection is gone
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// LastSeen returns the arrival time of the last inbound frame
func (p *Peer) LastSeen() time.Time {
	return time.Unix(0, p.lastSeen.Load())
}

// readLoop delivers inbound frames until the connection fails or the peer says goodbye
func (p *Peer) readLoop(handler func(PeerID, *Message)) {
	defer p.Close()

	r := bufio.NewReaderSize(p.conn, max(p.cfg.ReadBufferSize, 4096))
	for {
		if p.cfg.ReadTimeout > 0 {
			p.conn.SetReadDeadline(time.Now().Add(p.cfg.ReadTimeout))
		}
		msg, err := Decode(r)
		if err != nil {
			return
		}
		p.lastSeen.Store(time.Now().UnixNano())
		if msg.Seq > p.inSeq.Load() {
			p.inSeq.Store(msg.Seq)
		}

		switch msg.Type {
		case MsgHeartbeat:
		case MsgDisconnect:
			return
		default:
			if handler != nil {
				handler(p.ID, msg)
			}
		}
	}
}

// writeLoop owns the socket: it writes queued frames and heartbeats, and closes the socket on exit
func (p *Peer) writeLoop() {
	w := bufio.NewWriterSize(p.conn, max(p.cfg.WriteBufferSize, 4096))
	defer func() {
		p.Close()
		p.conn.Close()
		close(p.done)
	}()

	var beat <-chan time.Time
	if p.cfg.HeartbeatInterval > 0 {
		ticker := time.NewTicker(p.cfg.HeartbeatInterval)
		defer ticker.Stop()
		beat = ticker.C
	}

	for {
		select {
		case <-p.quit:
			p.drain(w)
			return
		case msg := <-p.sendCh:
			if p.write(w, msg) != nil {
				return
			}
		case <-beat:
			if p.write(w, p.control(MsgHeartbeat)) != nil {
				return
			}
		}
	}
}

// drain flushes whatever is still queued, then tells the remote side we are leaving
func (p *Peer) drain(w *bufio.Writer) {
	for {
		select {
		case msg := <-p.sendCh:
			if p.write(w, msg) != nil {
				return
			}
		default:
			p.write(w, p.control(MsgDisconnect))
			return
		}
	}
}

func (p *Peer) control(t MessageType) *Message {
	msg := NewMessage(t, nil)
	msg.Seq = p.outSeq.Add(1)
	msg.Ack = p.inSeq.Load()
	return msg
}

func (p *Peer) write(w *bufio.Writer, msg *Message) error {
	if p.cfg.WriteTimeout > 0 {
		p.conn.SetWriteDeadline(time.Now().Add(p.cfg.WriteTimeout))
	}
	if err := msg.Encode(w); err != nil {
		return err
	}
	return w.Flush()
}

// PeerManager tracks live peers and fans messages out to them
type PeerManager struct {
	mu     sync.RWMutex
	peers  map[PeerID]*Peer
	nextID atomic.Uint32
	config *Config

	onConnect    func(PeerID)
	onDisconnect func(PeerID)
	onMessage    func(PeerID, *Message)
}

// NewPeerManager creates a peer manager
func NewPeerManager(cfg *Config) *PeerManager {
	return &PeerManager{
		peers:  make(map[PeerID]*Peer),
		config: cfg,
	}
}

// SetHandlers configures event callbacks
// Must be called before the first connection is added
func (pm *PeerManager) SetHandlers(
	onConnect func(PeerID),
	onDisconnect func(PeerID),
	onMessage func(PeerID, *Message),
) {
	pm.onConnect = onConnect
	pm.onDisconnect = onDisconnect
	pm.onMessage = onMessage
}

// AddConnection adopts conn as a new peer and starts its I/O loops
func (pm *PeerManager) AddConnection(conn net.Conn) (PeerID, error) {
	pm.mu.Lock()
	if limit := pm.config.MaxPeers; limit > 0 && len(pm.peers) >= limit {
		pm.mu.Unlock()
		conn.Close()
		return 0, ErrMaxPeers
	}
	peer := newPeer(PeerID(pm.nextID.Add(1)), conn, pm.config)
	pm.peers[peer.ID] = peer
	pm.mu.Unlock()

	if pm.onConnect != nil {
		pm.onConnect(peer.ID)
	}

	core.Go(func() { peer.readLoop(pm.onMessage) })
	core.Go(peer.writeLoop)
	core.Go(func() { pm.watch(peer) })
	return peer.ID, nil
}

// watch forgets the peer once its connection is gone
func (pm *PeerManager) watch(peer *Peer) {
	<-peer.Done()

	pm.mu.Lock()
	_, tracked := pm.peers[peer.ID]
	delete(pm.peers, peer.ID)
	pm.mu.Unlock()

	if tracked && pm.onDisconnect != nil {
		pm.onDisconnect(peer.ID)
	}
}

// Broadcast queues msg for every peer; returns the number queued
func (pm *PeerManager) Broadcast(msg *Message) int {
	return pm.BroadcastExcept(msg, 0)
}

// BroadcastExcept queues msg for every peer but except
// Each peer gets its own copy so sequence numbers stay per-connection
func (pm *PeerManager) BroadcastExcept(msg *Message, except PeerID) int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	sent := 0
	for id, peer := range pm.peers {
		if id == except {
			continue
		}
		clone := *msg
		if peer.Send(&clone) {
			sent++
		}
	}
	return sent
}

// PeerCount returns the number of live peers
func (pm *PeerManager) PeerCount() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Close shuts every peer down and waits, bounded, for their queues to flush
func (pm *PeerManager) Close() {
	pm.mu.Lock()
	peers := pm.peers
	pm.peers = make(map[PeerID]*Peer)
	pm.mu.Unlock()

	for _, peer := range peers {
		peer.Close()
	}

	grace := pm.config.WriteTimeout
	if grace <= 0 {
		grace = closeGrace
	}
	timeout := time.NewTimer(grace)
	defer timeout.Stop()
	for _, peer := range peers {
		select {
		case <-peer.Done():
		case <-timeout.C:
			// Force the stragglers; their writeLoops exit on the write error
			for _, p := range peers {
				p.conn.Close()
			}
			return
		}
	}
}

// dial connects to addr, over TLS when configured
func dial(addr string, cfg *Config) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	if cfg.TLS != nil {
		return tls.DialWithDialer(dialer, "tcp", addr, cfg.TLS)
	}
	return dialer.Dial("tcp", addr)
}

package api

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/canvas-fx/core"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 4096
	sendQueue  = 64 // packets buffered per subscriber before it counts as stalled
)

// Hub fans effect packets out to browser overlay subscribers over websockets
// Implements fx.Broadcaster; Broadcast never blocks on a subscriber
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*subscriber
	nextID      atomic.Uint64
	upgrader    websocket.Upgrader
	closed      bool
}

// subscriber owns one connection; only its writeLoop writes data frames
type subscriber struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
	quit chan struct{}
	once sync.Once
}

func newSubscriber(id uint64, conn *websocket.Conn) *subscriber {
	return &subscriber{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendQueue),
		quit: make(chan struct{}),
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.quit) })
}

// NewHub creates an empty hub
// Overlay pages are served from other origins, so any origin may subscribe
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint64]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and keeps the subscriber until it disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		log.Printf("api: websocket upgrade from %s: %v", r.RemoteAddr, err)
		return
	}

	sub := newSubscriber(h.nextID.Add(1), conn)
	if !h.add(sub) {
		conn.Close()
		return
	}
	log.Printf("api: subscriber %d connected from %s", sub.id, r.RemoteAddr)

	core.Go(func() { h.writeLoop(sub) })
	h.readLoop(sub)
	h.remove(sub)
}

func (h *Hub) add(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subscribers[sub.id] = sub
	return true
}

// readLoop discards inbound frames; it exists to process control frames and notice disconnects
func (h *Hub) readLoop(sub *subscriber) {
	sub.conn.SetReadLimit(readLimit)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("api: subscriber %d: %v", sub.id, err)
			}
			return
		}
	}
}

// writeLoop drains the subscriber's queue and keeps it alive with pings
// A failed write closes the connection, which ends readLoop and removes the subscriber
func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		var (
			kind = websocket.TextMessage
			data []byte
		)
		select {
		case <-sub.quit:
			return
		case data = <-sub.send:
		case <-ticker.C:
			kind = websocket.PingMessage
		}

		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(kind, data); err != nil {
			log.Printf("api: failed to send to subscriber %d: %v", sub.id, err)
			return
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub.id]
	delete(h.subscribers, sub.id)
	h.mu.Unlock()
	sub.stop()
	sub.conn.Close()
	if ok {
		log.Printf("api: subscriber %d disconnected", sub.id)
	}
}

// Broadcast queues packet for every subscriber as a text frame
// A subscriber whose queue is full is stalled and gets dropped; the packet itself is never rejected
func (h *Hub) Broadcast(packet []byte) error {
	h.mu.Lock()
	var stalled []*subscriber
	for _, sub := range h.subscribers {
		select {
		case sub.send <- packet:
		default:
			stalled = append(stalled, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range stalled {
		log.Printf("api: subscriber %d stalled, dropping", sub.id)
		h.remove(sub)
	}
	return nil
}

// Count returns the number of connected subscribers
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := h.subscribers
	h.subscribers = make(map[uint64]*subscriber)
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown")
	for _, sub := range subs {
		sub.stop()
		sub.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		sub.conn.Close()
	}
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lixenwraith/canvas-fx/core"
	"github.com/lixenwraith/canvas-fx/fx"
)

// maxBody bounds a request payload; matches the network frame limit
const maxBody = 64 << 10

// Server is the HTTP invocation surface: effects are emitted through the relay
// and browser overlays subscribe to the hub
type Server struct {
	relay  *fx.Relay
	hub    *Hub
	router chi.Router
	http   *http.Server
}

// NewServer builds the router for addr; call Start to listen
func NewServer(addr string, relay *fx.Relay, hub *Hub) *Server {
	s := &Server{relay: relay, hub: hub}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	s.RegisterRoutes(r)
	s.router = r

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// RegisterRoutes mounts the effect routes on r
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Get("/effects", s.catalog)
		r.Post("/effects/{action}", s.emit)
		r.Post("/clear", s.clear)
	})
	if s.hub != nil {
		r.Get("/ws", s.hub.ServeHTTP)
	}
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return nil, fmt.Errorf("http listen: %w", err)
	}
	log.Printf("api: listening on http://%s", ln.Addr())
	core.Go(func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("api: serve: %v", err)
		}
	})
	return ln.Addr(), nil
}

// Shutdown closes websocket subscribers and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fx.Catalog())
}

func (s *Server) emit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "action")
	if _, ok := fx.ParseAction(name); !ok {
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}

	payload := fx.Payload{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	s.respond(w, name, s.relay.EmitName(name, payload))
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	s.respond(w, fx.ActionClear.String(), s.relay.Clear())
}

type emitResult struct {
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

// respond reports an emitted request; local execution is already queued when broadcasting fails
func (s *Server) respond(w http.ResponseWriter, action string, err error) {
	if err != nil {
		log.Printf("api: %s: %v", action, err)
		writeJSON(w, http.StatusBadGateway, emitResult{Action: action, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, emitResult{Action: action})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

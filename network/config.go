package network

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"
)

// Role selects how the transport attaches to the broadcast channel
type Role uint8

const (
	RoleNone   Role = iota
	RoleClient      // dials one server
	RoleServer      // listens and forwards effect packets between its peers
)

var roleNames = map[string]Role{
	"":       RoleNone,
	"none":   RoleNone,
	"off":    RoleNone,
	"client": RoleClient,
	"server": RoleServer,
}

// ParseRole maps a config or flag value to a Role, case-insensitively
func ParseRole(s string) (Role, error) {
	r, ok := roleNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return RoleNone, fmt.Errorf("unknown network role %q", s)
	}
	return r, nil
}

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	}
	return "none"
}

// Config drives Transport and the peers it creates
// Zero durations disable the matching deadline or heartbeat
type Config struct {
	Role    Role
	Address string      // listen address for servers, dial target for clients
	TLS     *tls.Config // nil keeps the link plaintext

	MaxPeers int // 0 = unlimited

	ConnectTimeout    time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	HeartbeatInterval time.Duration

	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int // frames buffered per peer before Send starts refusing
}

// DefaultConfig is disabled; callers pick a role and address
// ReadTimeout spans three heartbeats so an idle but healthy link survives
func DefaultConfig() *Config {
	const heartbeat = 10 * time.Second
	return &Config{
		Address:           ":7777",
		MaxPeers:          16,
		ConnectTimeout:    5 * time.Second,
		ReadTimeout:       3 * heartbeat,
		WriteTimeout:      5 * time.Second,
		HeartbeatInterval: heartbeat,
		ReadBufferSize:    16 << 10,
		WriteBufferSize:   16 << 10,
		SendQueueSize:     128,
	}
}

// DebugConfig is DefaultConfig with role and address filled in, plaintext
func DebugConfig(role Role, addr string) *Config {
	cfg := DefaultConfig()
	cfg.Role, cfg.Address = role, addr
	return cfg
}

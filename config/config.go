package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/canvas-fx/audio"
	"github.com/lixenwraith/canvas-fx/network"
)

// Config is the process configuration, decoded from TOML over the defaults
type Config struct {
	Identity  string        `toml:"identity"`   // local user id matched against "users" allow-lists
	AssetRoot string        `toml:"asset_root"` // base directory for relative media and sound paths
	Network   NetworkConfig `toml:"network"`
	Audio     AudioConfig   `toml:"audio"`
	Display   DisplayConfig `toml:"display"`
	HTTP      HTTPConfig    `toml:"http"`
}

type NetworkConfig struct {
	Role              string        `toml:"role"` // "none", "client" or "server"
	Address           string        `toml:"address"`
	MaxPeers          int           `toml:"max_peers"`
	ConnectTimeout    time.Duration `toml:"connect_timeout"`
	ReadTimeout       time.Duration `toml:"read_timeout"`
	WriteTimeout      time.Duration `toml:"write_timeout"`
	HeartbeatInterval time.Duration `toml:"heartbeat_interval"`
	SendQueueSize     int           `toml:"send_queue_size"`
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled"`
	Volume     float64 `toml:"volume"` // master gain (0.0-1.0)
	SampleRate int     `toml:"sample_rate"`
}

type DisplayConfig struct {
	CellWidth     float64       `toml:"cell_width"`  // px per terminal column
	CellHeight    float64       `toml:"cell_height"` // px per terminal row
	FrameInterval time.Duration `toml:"frame_interval"`
}

type HTTPConfig struct {
	Address string `toml:"address"` // empty disables the HTTP surface
}

// Load reads path and decodes it over Default
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration: standalone, audio on, HTTP off
func Default() *Config {
	nd := network.DefaultConfig()
	return &Config{
		Identity:  "local",
		AssetRoot: ".",
		Network: NetworkConfig{
			Role:              "none",
			Address:           nd.Address,
			MaxPeers:          nd.MaxPeers,
			ConnectTimeout:    nd.ConnectTimeout,
			ReadTimeout:       nd.ReadTimeout,
			WriteTimeout:      nd.WriteTimeout,
			HeartbeatInterval: nd.HeartbeatInterval,
			SendQueueSize:     nd.SendQueueSize,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     1.0,
			SampleRate: 48000,
		},
		Display: DisplayConfig{
			CellWidth:     8,
			CellHeight:    16,
			FrameInterval: 16 * time.Millisecond,
		},
	}
}

// Validate rejects values the runtime cannot use
func (c *Config) Validate() error {
	if _, err := network.ParseRole(c.Network.Role); err != nil {
		return err
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio volume %v outside [0, 1]", c.Audio.Volume)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate %d must be positive", c.Audio.SampleRate)
	}
	if c.Display.FrameInterval <= 0 {
		return fmt.Errorf("frame interval %v must be positive", c.Display.FrameInterval)
	}
	return nil
}

// NetworkConfig converts the [network] section; call after Validate
func (c *Config) NetworkConfig() *network.Config {
	role, _ := network.ParseRole(c.Network.Role)
	cfg := network.DefaultConfig()
	cfg.Role = role
	cfg.Address = c.Network.Address
	cfg.MaxPeers = c.Network.MaxPeers
	cfg.ConnectTimeout = c.Network.ConnectTimeout
	cfg.ReadTimeout = c.Network.ReadTimeout
	cfg.WriteTimeout = c.Network.WriteTimeout
	cfg.HeartbeatInterval = c.Network.HeartbeatInterval
	cfg.SendQueueSize = c.Network.SendQueueSize
	return cfg
}

// AudioConfig converts the [audio] section, rooted at AssetRoot
func (c *Config) AudioConfig() *audio.AudioConfig {
	return &audio.AudioConfig{
		Enabled:    c.Audio.Enabled,
		Volume:     c.Audio.Volume,
		SampleRate: c.Audio.SampleRate,
		Root:       c.AssetRoot,
	}
}

package audio

import (
	"log"
	"sync/atomic"
)

// AudioService wraps SoundManager as a Service
// Handles graceful degradation when no audio backend is available
type AudioService struct {
	config   *AudioConfig
	manager  *SoundManager
	disabled atomic.Bool
}

// NewService creates a new audio service
func NewService() *AudioService {
	return &AudioService{}
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: *AudioConfig - playback settings (default config when absent)
func (s *AudioService) Init(args ...any) error {
	s.config = DefaultAudioConfig()
	if len(args) > 0 {
		if cfg, ok := args[0].(*AudioConfig); ok && cfg != nil {
			s.config = cfg
		}
	}
	if !s.config.Enabled {
		s.disabled.Store(true)
		return nil
	}
	s.manager = NewSoundManager(s.config)
	return nil
}

// Start implements Service
// Opens the speaker; sets disabled on failure (no error returned)
func (s *AudioService) Start() error {
	if s.disabled.Load() || s.manager == nil {
		return nil
	}
	if err := s.manager.Initialize(); err != nil {
		log.Printf("audio: disabled: %v", err)
		s.disabled.Store(true)
		s.manager = nil
	}
	return nil
}

// Stop implements Service
func (s *AudioService) Stop() error {
	if s.manager != nil {
		s.manager.Cleanup()
	}
	return nil
}

// IsDisabled returns true if audio is unavailable
func (s *AudioService) IsDisabled() bool {
	return s.disabled.Load()
}

// Player returns the playback collaborator; a NopPlayer when disabled
func (s *AudioService) Player() Player {
	if s.disabled.Load() || s.manager == nil {
		return NopPlayer{}
	}
	return s.manager
}

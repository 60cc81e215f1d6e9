package audio

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/canvas-fx/core"
)

// ErrUnsupportedFormat is returned for sound files that are neither wav nor mp3
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// resampleQuality is the beep resampler quality used when a file rate differs from the speaker
const resampleQuality = 4

// SoundManager plays sound files through the speaker mixer
type SoundManager struct {
	mu          sync.Mutex
	config      *AudioConfig
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	active      map[*beep.Ctrl]struct{} // guarded by the speaker lock
	initialized bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager(cfg *AudioConfig) *SoundManager {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	return &SoundManager{
		config:     cfg,
		sampleRate: beep.SampleRate(cfg.SampleRate),
		mixer:      &beep.Mixer{},
		active:     make(map[*beep.Ctrl]struct{}),
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sm.sampleRate, sm.sampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	for ctrl := range sm.active {
		ctrl.Paused = true
	}
	sm.mixer.Clear()
	clear(sm.active)
	speaker.Unlock()

	// beep has no speaker close; clearing the mixer silences output
	sm.initialized = false
}

// Play decodes src in the background and adds it to the mixer
// Relative paths resolve against the configured root
func (sm *SoundManager) Play(src string, volume float64) bool {
	sm.mu.Lock()
	ready := sm.initialized && sm.config.Enabled
	master := sm.config.Volume
	sm.mu.Unlock()

	if !ready || src == "" {
		return false
	}

	path := sm.resolve(src)
	core.Go(func() {
		if err := sm.play(path, volume*master); err != nil {
			log.Printf("audio: %s: %v", src, err)
		}
	})
	return true
}

func (sm *SoundManager) resolve(src string) string {
	if filepath.IsAbs(src) || sm.config.Root == "" {
		return src
	}
	return filepath.Join(sm.config.Root, filepath.FromSlash(src))
}

func (sm *SoundManager) play(path string, volume float64) error {
	stream, format, err := Load(path)
	if err != nil {
		return err
	}

	var s beep.Streamer = stream
	if format.SampleRate != sm.sampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, sm.sampleRate, s)
	}

	ctrl := &beep.Ctrl{Streamer: WithVolume(s, volume)}
	// Runs on the speaker goroutine with the speaker lock held
	done := beep.Callback(func() {
		stream.Close()
		delete(sm.active, ctrl)
	})

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		stream.Close()
		return nil
	}

	speaker.Lock()
	sm.active[ctrl] = struct{}{}
	sm.mixer.Add(beep.Seq(ctrl, done))
	speaker.Unlock()
	return nil
}

// Load opens and decodes a wav or mp3 file, chosen by extension
func Load(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open: %w", err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return stream, format, nil
}

// WithVolume scales s by a linear gain; gains at or below zero silence it
func WithVolume(s beep.Streamer, gain float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	if gain <= 0 {
		v.Silent = true
		return v
	}
	v.Volume = math.Log2(gain)
	return v
}

package audio

// AudioConfig holds playback settings
type AudioConfig struct {
	Enabled    bool
	Volume     float64 // master gain applied on top of per-effect volume
	SampleRate int
	Root       string // base directory for relative sound paths
}

// DefaultAudioConfig returns the default configuration: enabled, full master volume
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:    true,
		Volume:     1.0,
		SampleRate: 48000,
	}
}

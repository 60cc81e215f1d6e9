package audio

// DefaultVolume is the per-effect volume when a request names a sound without one
const DefaultVolume = 0.8

// Player is the fire-and-forget playback collaborator used by effect handlers
// Play returns false when the sound was not queued (muted, disabled, no backend)
type Player interface {
	Play(src string, volume float64) bool
}

// NopPlayer discards every request
type NopPlayer struct{}

// Play implements Player
func (NopPlayer) Play(string, float64) bool { return false }

var _ Player = (*SoundManager)(nil)

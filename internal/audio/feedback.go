package audio

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/volbrt/internal/model"
)

// Feedback plays a short sound whenever the overlay shows an audible
// volume change.
type Feedback struct {
	mu     sync.RWMutex
	logger *slog.Logger
	player *Player
	sound  string

	// play is swapped out in tests.
	play func(path string) error
}

// NewFeedback creates a feedback player for sound at volume percent.
// An empty sound disables feedback.
func NewFeedback(sound string, volume int, logger *slog.Logger) *Feedback {
	if logger == nil {
		logger = slog.Default()
	}

	player := NewPlayer(logger)
	f := &Feedback{
		logger: logger,
		player: player,
		play:   player.Play,
	}
	f.Configure(sound, volume)
	return f
}

// Configure switches the sound file and playback volume.
func (f *Feedback) Configure(sound string, volume int) {
	f.mu.Lock()
	changed := f.sound != sound
	f.sound = sound
	f.mu.Unlock()

	f.player.SetGain(float64(volume) / 100)
	if !changed || sound == "" {
		return
	}

	if err := f.player.Load(sound); err != nil {
		f.logger.Warn("failed to preload feedback sound", "path", sound, "error", err)
	}
}

// Sound returns the configured sound file, empty when disabled.
func (f *Feedback) Sound() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sound
}

// OnRequest plays the sound for unmuted volume requests. Playback runs on
// its own goroutine so decoding never stalls the caller.
func (f *Feedback) OnRequest(req model.Request) {
	vol, ok := req.Kind.(model.Volume)
	if !ok || vol.Muted || req.Level == 0 {
		return
	}

	sound := f.Sound()
	if sound == "" {
		return
	}

	go func() {
		if err := f.play(sound); err != nil {
			f.logger.Debug("failed to play feedback sound", "path", sound, "error", err)
		}
	}()
}

// Invalidate drops a cached decode after the file changed on disk.
func (f *Feedback) Invalidate(path string) {
	f.player.Forget(path)
}

// Close stops playback and releases the speaker.
func (f *Feedback) Close() {
	f.player.Close()
}

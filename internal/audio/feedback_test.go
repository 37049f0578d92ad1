package audio

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/volbrt/internal/model"
)

func newTestFeedback(sound string) (*Feedback, chan string) {
	played := make(chan string, 4)
	f := &Feedback{
		logger: slog.Default(),
		player: NewPlayer(nil),
		sound:  sound,
	}
	f.play = func(path string) error {
		played <- path
		return nil
	}
	return f, played
}

func TestFeedback_PlaysForVolume(t *testing.T) {
	f, played := newTestFeedback("/sounds/pop.wav")

	f.OnRequest(model.Request{Kind: model.Volume{}, Level: 40})

	select {
	case path := <-played:
		assert.Equal(t, "/sounds/pop.wav", path)
	case <-time.After(time.Second):
		t.Fatal("feedback sound not played")
	}
}

func TestFeedback_Skips(t *testing.T) {
	tests := []struct {
		name  string
		sound string
		req   model.Request
	}{
		{"brightness", "/sounds/pop.wav", model.Request{Kind: model.Brightness{}, Level: 40}},
		{"muted", "/sounds/pop.wav", model.Request{Kind: model.Volume{Muted: true}, Level: 40}},
		{"silent level", "/sounds/pop.wav", model.Request{Kind: model.Volume{}, Level: 0}},
		{"disabled", "", model.Request{Kind: model.Volume{}, Level: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, played := newTestFeedback(tt.sound)
			f.OnRequest(tt.req)

			select {
			case path := <-played:
				t.Fatalf("unexpected playback of %s", path)
			case <-time.After(50 * time.Millisecond):
			}
		})
	}
}

func TestFeedback_ConfigureMissingFile(t *testing.T) {
	f := NewFeedback("", 100, nil)
	assert.Empty(t, f.Sound())

	// A missing file only logs; the path is kept so a later create works
	f.Configure("/nonexistent/pop.wav", 50)
	assert.Equal(t, "/nonexistent/pop.wav", f.Sound())
}

func TestPlayer_Errors(t *testing.T) {
	dir := t.TempDir()
	flac := filepath.Join(dir, "sound.flac")
	require.NoError(t, os.WriteFile(flac, []byte("fLaC"), 0o644))
	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("not a riff file"), 0o644))

	p := NewPlayer(nil)
	defer p.Close()

	err := p.Play(flac)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported audio format")

	err = p.Load(filepath.Join(dir, "missing.ogg"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = p.Load(junk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode junk.wav")

	assert.NoError(t, p.Play(""), "empty path is a no-op")
}

func TestPlayer_SetGainClamps(t *testing.T) {
	p := NewPlayer(nil)

	p.SetGain(1.5)
	assert.Equal(t, 1.0, p.gain)
	p.SetGain(-1)
	assert.Equal(t, 0.0, p.gain)
	p.SetGain(0.25)
	assert.Equal(t, 0.25, p.gain)
}

func TestPlayer_ForgetOtherPath(t *testing.T) {
	p := NewPlayer(nil)
	p.clipPath = "/sounds/a.wav"
	p.Forget("/sounds/b.wav")
	assert.Equal(t, "/sounds/a.wav", p.clipPath)
	p.Forget("/sounds/a.wav")
	assert.Empty(t, p.clipPath)
}

package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// speakerLatency is the speaker buffer length. Short enough that the
// click lines up with the overlay appearing.
const speakerLatency = 50 * time.Millisecond

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".wav": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
	".ogg": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) },
	".oga": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) },
	".mp3": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
}

// Player keeps one decoded clip in memory and plays it on the shared
// speaker. Loading a different path replaces the clip.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	gain float64 // linear, 0 to 1

	// rate is fixed by the first clip that opens the speaker
	rate    beep.SampleRate
	speaker bool

	clip     *beep.Buffer
	clipPath string
}

// NewPlayer creates a player at full gain. The speaker is opened lazily.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{logger: logger, gain: 1}
}

// SetGain sets the linear playback gain, clamped to [0, 1].
func (p *Player) SetGain(gain float64) {
	p.mu.Lock()
	p.gain = math.Max(0, math.Min(gain, 1))
	p.mu.Unlock()
}

// Load decodes path and makes it the current clip.
func (p *Player) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked(path)
}

func (p *Player) loadLocked(path string) error {
	if p.clip != nil && p.clipPath == path {
		return nil
	}

	buf, err := decodeFile(path)
	if err != nil {
		return err
	}

	if !p.speaker {
		rate := buf.Format().SampleRate
		if err := speaker.Init(rate, rate.N(speakerLatency)); err != nil {
			return fmt.Errorf("open speaker: %w", err)
		}
		p.rate = rate
		p.speaker = true
		p.logger.Debug("speaker opened", "sample_rate", rate)
	}

	p.clip = buf
	p.clipPath = path
	p.logger.Debug("loaded sound", "path", path, "samples", buf.Len())
	return nil
}

// Play plays path, decoding it first unless it is the current clip.
// Playback is asynchronous; overlapping calls mix.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}

	p.mu.Lock()
	if err := p.loadLocked(path); err != nil {
		p.mu.Unlock()
		return err
	}
	clip, rate, gain := p.clip, p.rate, p.gain
	p.mu.Unlock()

	if gain == 0 {
		return nil
	}

	var s beep.Streamer = clip.Streamer(0, clip.Len())
	if from := clip.Format().SampleRate; from != rate {
		s = beep.Resample(4, from, rate, s)
	}
	if gain < 1 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
	}

	speaker.Play(s)
	return nil
}

// Forget drops the clip if it was decoded from path, so the next Play
// re-reads the file.
func (p *Player) Forget(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clipPath == path {
		p.clip = nil
		p.clipPath = ""
	}
}

// Close releases the speaker and the clip.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.speaker {
		speaker.Close()
		p.speaker = false
	}
	p.clip = nil
	p.clipPath = ""
}

// decodeFile reads a whole sound file into memory.
func decodeFile(path string) (*beep.Buffer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format %q (want wav, ogg or mp3)", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound: %w", err)
	}
	defer func() { _ = f.Close() }()

	stream, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = stream.Close() }()

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	return buf, nil
}

package action

import (
	"fmt"
	"log/slog"

	"github.com/jmylchreest/volbrt/internal/config"
	"github.com/jmylchreest/volbrt/internal/dbus"
	"github.com/jmylchreest/volbrt/internal/level"
	"github.com/jmylchreest/volbrt/internal/shell"
)

// Backends holds the level backends selected by config.
type Backends struct {
	Volume     level.VolumeBackend
	Brightness level.BrightnessBackend

	closers []func()
}

// NewBackends builds the backends named in cfg. runner is used by the
// command-line tool backends; nil selects shell.Sh.
func NewBackends(cfg *config.Config, runner shell.Runner, logger *slog.Logger) (*Backends, error) {
	if runner == nil {
		runner = shell.Sh{}
	}
	b := &Backends{}

	switch cfg.Volume.Backend {
	case config.VolumeBackendWirePlumber:
		b.Volume = level.NewWirePlumber(runner)
	case config.VolumeBackendPulse:
		p := level.NewPulse("volbrt")
		b.Volume = p
		b.closers = append(b.closers, p.Close)
	default:
		return nil, fmt.Errorf("unknown volume backend %q", cfg.Volume.Backend)
	}

	switch cfg.Brightness.Backend {
	case config.BrightnessBackendCtl:
		b.Brightness = level.NewBrightnessctl(runner)
	case config.BrightnessBackendLogind:
		b.Brightness = dbus.NewLogind(dbus.DefaultBacklightRoot, cfg.Brightness.Device, nil, logger)
	default:
		return nil, fmt.Errorf("unknown brightness backend %q", cfg.Brightness.Backend)
	}

	return b, nil
}

// Close releases backend connections.
func (b *Backends) Close() {
	for _, c := range b.closers {
		c()
	}
}

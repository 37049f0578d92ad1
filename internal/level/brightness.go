package level

import (
	"context"

	"github.com/jmylchreest/volbrt/internal/model"
)

// BrightnessBackend reads and drives the screen backlight.
type BrightnessBackend interface {
	Name() string
	// Brightness returns the backlight level as a percentage.
	Brightness(ctx context.Context) (int, error)
	SetBrightness(ctx context.Context, level int) error
}

// BrightnessQuantizer is implemented by backends with coarse hardware
// steps. SetBrightnessExact applies lvl and returns the level the
// hardware actually landed on.
type BrightnessQuantizer interface {
	SetBrightnessExact(ctx context.Context, level int) (int, error)
}

// Brightness is the live backlight state of one CLI invocation.
type Brightness struct {
	backend BrightnessBackend
	level   int
}

// QueryBrightness reads the current backlight level from backend.
func QueryBrightness(ctx context.Context, backend BrightnessBackend) (*Brightness, error) {
	lvl, err := backend.Brightness(ctx)
	if err != nil {
		return nil, err
	}
	return &Brightness{backend: backend, level: lvl}, nil
}

// Level returns the current brightness percentage.
func (b *Brightness) Level() int { return b.level }

// Adjust moves the brightness by delta. The result never drops below 1%.
func (b *Brightness) Adjust(ctx context.Context, delta int) error {
	return b.Set(ctx, b.level+delta)
}

// Set applies an absolute level, clamped to the valid range.
func (b *Brightness) Set(ctx context.Context, lvl int) error {
	floor, ceiling := model.Brightness{}.Range()
	lvl = Clamp(lvl, floor, ceiling)
	if q, ok := b.backend.(BrightnessQuantizer); ok {
		applied, err := q.SetBrightnessExact(ctx, lvl)
		if err != nil {
			return err
		}
		b.level = Clamp(applied, floor, ceiling)
		return nil
	}
	if err := b.backend.SetBrightness(ctx, lvl); err != nil {
		return err
	}
	b.level = lvl
	return nil
}

// Request builds the overlay request describing the current state.
func (b *Brightness) Request() (model.Request, error) {
	return model.NewRequest(model.Brightness{}, uint32(b.level))
}

// Clamp limits lvl to [floor, ceiling].
func Clamp(lvl, floor, ceiling int) int {
	return max(floor, min(lvl, ceiling))
}

package action

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/volbrt/internal/ipc"
	"github.com/jmylchreest/volbrt/internal/level"
	"github.com/jmylchreest/volbrt/internal/model"
)

// Notifier hands a request to the overlay.
type Notifier interface {
	Notify(ctx context.Context, req model.Request) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, req model.Request) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, req model.Request) error { return f(ctx, req) }

// Socket notifies the overlay listening on a unix socket.
type Socket struct {
	Path string
}

// Notify sends req over the socket.
func (s Socket) Notify(ctx context.Context, req model.Request) error {
	return ipc.Send(ctx, s.Path, req)
}

// Controller runs one level change per call. Backends may be nil when the
// caller only touches the other kind.
type Controller struct {
	volume     level.VolumeBackend
	brightness level.BrightnessBackend
	notifier   Notifier
	extended   bool
	logger     *slog.Logger
}

// Options configures a Controller.
type Options struct {
	Volume         level.VolumeBackend
	Brightness     level.BrightnessBackend
	Notifier       Notifier
	ExtendedVolume bool
	Logger         *slog.Logger
}

// New creates a controller.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		volume:     opts.Volume,
		brightness: opts.Brightness,
		notifier:   opts.Notifier,
		extended:   opts.ExtendedVolume,
		logger:     logger,
	}
}

// VolumeUp raises the volume by step percent.
func (c *Controller) VolumeUp(ctx context.Context, step int) (model.Request, error) {
	return c.changeVolume(ctx, "volume-up", func(v *level.Volume) error {
		return v.Adjust(ctx, step)
	})
}

// VolumeDown lowers the volume by step percent.
func (c *Controller) VolumeDown(ctx context.Context, step int) (model.Request, error) {
	return c.changeVolume(ctx, "volume-down", func(v *level.Volume) error {
		return v.Adjust(ctx, -step)
	})
}

// VolumeSet applies an absolute volume, clamped to the valid range.
func (c *Controller) VolumeSet(ctx context.Context, lvl int) (model.Request, error) {
	return c.changeVolume(ctx, "volume-set", func(v *level.Volume) error {
		return v.Set(ctx, lvl)
	})
}

// VolumeMute toggles mute.
func (c *Controller) VolumeMute(ctx context.Context) (model.Request, error) {
	return c.changeVolume(ctx, "volume-mute", func(v *level.Volume) error {
		return v.ToggleMute(ctx)
	})
}

// BrightnessUp raises the backlight by step percent.
func (c *Controller) BrightnessUp(ctx context.Context, step int) (model.Request, error) {
	return c.changeBrightness(ctx, "brightness-up", func(b *level.Brightness) error {
		return b.Adjust(ctx, step)
	})
}

// BrightnessDown lowers the backlight by step percent, never below 1%.
func (c *Controller) BrightnessDown(ctx context.Context, step int) (model.Request, error) {
	return c.changeBrightness(ctx, "brightness-down", func(b *level.Brightness) error {
		return b.Adjust(ctx, -step)
	})
}

// BrightnessSet applies an absolute backlight level, clamped to the valid range.
func (c *Controller) BrightnessSet(ctx context.Context, lvl int) (model.Request, error) {
	return c.changeBrightness(ctx, "brightness-set", func(b *level.Brightness) error {
		return b.Set(ctx, lvl)
	})
}

// Volume reads the current volume without changing it.
func (c *Controller) Volume(ctx context.Context) (*level.Volume, error) {
	if c.volume == nil {
		return nil, fmt.Errorf("no volume backend configured")
	}
	return level.QueryVolume(ctx, c.volume, c.extended)
}

// Brightness reads the current backlight level without changing it.
func (c *Controller) Brightness(ctx context.Context) (*level.Brightness, error) {
	if c.brightness == nil {
		return nil, fmt.Errorf("no brightness backend configured")
	}
	return level.QueryBrightness(ctx, c.brightness)
}

func (c *Controller) changeVolume(ctx context.Context, op string, mutate func(*level.Volume) error) (model.Request, error) {
	v, err := c.Volume(ctx)
	if err != nil {
		return model.Request{}, err
	}
	if err := mutate(v); err != nil {
		return model.Request{}, err
	}

	req, err := v.Request()
	if err != nil {
		return model.Request{}, fmt.Errorf("%s: %w", op, err)
	}
	c.logger.Debug("volume changed", "op", op, "backend", c.volume.Name(), "level", v.Level(), "muted", v.Muted())
	return req, c.notify(ctx, req)
}

func (c *Controller) changeBrightness(ctx context.Context, op string, mutate func(*level.Brightness) error) (model.Request, error) {
	b, err := c.Brightness(ctx)
	if err != nil {
		return model.Request{}, err
	}
	if err := mutate(b); err != nil {
		return model.Request{}, err
	}

	req, err := b.Request()
	if err != nil {
		return model.Request{}, fmt.Errorf("%s: %w", op, err)
	}
	c.logger.Debug("brightness changed", "op", op, "backend", c.brightness.Name(), "level", b.Level())
	return req, c.notify(ctx, req)
}

// notify runs after the level has been applied, so a failure here leaves
// the change in place.
func (c *Controller) notify(ctx context.Context, req model.Request) error {
	if c.notifier == nil {
		return nil
	}
	return c.notifier.Notify(ctx, req)
}

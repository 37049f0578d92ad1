package level

import (
	"context"

	"github.com/jmylchreest/volbrt/internal/model"
)

// VolumeBackend reads and drives the default audio sink.
type VolumeBackend interface {
	Name() string
	// Volume returns the sink level as a percentage and its mute state.
	Volume(ctx context.Context) (level int, muted bool, err error)
	SetVolume(ctx context.Context, level int) error
	// ToggleMute flips the sink mute state unconditionally.
	ToggleMute(ctx context.Context) error
}

// Volume is the live volume state of one CLI invocation.
type Volume struct {
	backend  VolumeBackend
	level    int
	muted    bool
	extended bool
}

// QueryVolume reads the current sink state from backend.
func QueryVolume(ctx context.Context, backend VolumeBackend, extended bool) (*Volume, error) {
	lvl, muted, err := backend.Volume(ctx)
	if err != nil {
		return nil, err
	}
	return &Volume{
		backend:  backend,
		level:    lvl,
		muted:    muted,
		extended: extended,
	}, nil
}

// Level returns the current volume percentage.
func (v *Volume) Level() int { return v.level }

// Muted returns the mute flag as last known by this process.
func (v *Volume) Muted() bool { return v.muted }

// Kind returns the display kind for the current state.
func (v *Volume) Kind() model.Volume {
	return model.Volume{Muted: v.muted, Extended: v.extended}
}

// Adjust moves the volume by delta, saturating at the valid range, and
// applies the clamped value.
func (v *Volume) Adjust(ctx context.Context, delta int) error {
	return v.Set(ctx, v.level+delta)
}

// Set applies an absolute level, clamped to the valid range.
func (v *Volume) Set(ctx context.Context, lvl int) error {
	floor, ceiling := v.Kind().Range()
	lvl = Clamp(lvl, floor, ceiling)
	if err := v.backend.SetVolume(ctx, lvl); err != nil {
		return err
	}
	v.level = lvl
	return nil
}

// ToggleMute flips the mute flag and asks the backend to toggle.
// The flag is not re-read, so it may disagree with the sink if another
// client changed mute state since QueryVolume.
func (v *Volume) ToggleMute(ctx context.Context) error {
	if err := v.backend.ToggleMute(ctx); err != nil {
		return err
	}
	v.muted = !v.muted
	return nil
}

// Request builds the overlay request describing the current state.
func (v *Volume) Request() (model.Request, error) {
	return model.NewRequest(v.Kind(), uint32(v.level))
}

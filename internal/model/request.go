// Package model defines the core data structures for volbrt.
package model

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Level ranges per device kind.
const (
	VolumeFloor           = 0
	VolumeCeiling         = 100
	VolumeExtendedCeiling = 150
	BrightnessFloor       = 1
	BrightnessCeiling     = 100
)

// Kind identifies what a display request is about.
// It is a closed set: Volume and Brightness are the only implementations.
type Kind interface {
	// Name returns a short identifier used in logs and CLI output.
	Name() string
	// Range returns the valid level range for this kind.
	Range() (floor, ceiling int)

	sealed()
}

// Volume is the audio volume kind.
type Volume struct {
	Muted    bool
	Extended bool
}

// Brightness is the screen brightness kind.
type Brightness struct{}

func (Volume) Name() string     { return "volume" }
func (Brightness) Name() string { return "brightness" }

// Range returns [0, 100], or [0, 150] when extended volume is enabled.
func (v Volume) Range() (int, int) {
	if v.Extended {
		return VolumeFloor, VolumeExtendedCeiling
	}
	return VolumeFloor, VolumeCeiling
}

// Range returns [1, 100]. Brightness never drops to 0.
func (Brightness) Range() (int, int) {
	return BrightnessFloor, BrightnessCeiling
}

func (Volume) sealed()     {}
func (Brightness) sealed() {}

// Request asks the overlay to flash an indicator for a level change.
type Request struct {
	ID    ulid.ULID
	Kind  Kind
	Level uint32
}

// NewRequest builds a request stamped with a fresh ULID.
func NewRequest(kind Kind, level uint32) (Request, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return Request{}, fmt.Errorf("failed to generate request ID: %w", err)
	}
	return Request{ID: id, Kind: kind, Level: level}, nil
}

// Time returns the creation time encoded in the request ID.
func (r Request) Time() time.Time {
	return ulid.Time(r.ID.Time())
}

// NewerThan reports whether r was created strictly after other.
// A zero ID is older than everything.
func (r Request) NewerThan(other Request) bool {
	return r.ID.Compare(other.ID) > 0
}

func (r Request) String() string {
	switch k := r.Kind.(type) {
	case Volume:
		return fmt.Sprintf("volume %d%% (muted=%t extended=%t)", r.Level, k.Muted, k.Extended)
	case Brightness:
		return fmt.Sprintf("brightness %d%%", r.Level)
	default:
		panic(fmt.Sprintf("model: unknown kind %T", r.Kind))
	}
}

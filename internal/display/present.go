package display

import (
	"fmt"
	"math"

	"github.com/jmylchreest/volbrt/internal/model"
)

// Icon identifies one of the overlay icons.
type Icon int

const (
	IconVolumeMax Icon = iota
	IconVolumeNotMax
	IconVolumeMuted
	IconVolumeExtended
	IconBrightnessMax
	IconBrightnessNotMax
	IconBrightnessMin
)

// AllIcons lists every icon in materialization order.
var AllIcons = []Icon{
	IconVolumeMax,
	IconVolumeNotMax,
	IconVolumeMuted,
	IconVolumeExtended,
	IconBrightnessMax,
	IconBrightnessNotMax,
	IconBrightnessMin,
}

// FileName returns the icon's file name on disk and in the embedded assets.
func (i Icon) FileName() string {
	switch i {
	case IconVolumeMax:
		return "volume_max.svg"
	case IconVolumeNotMax:
		return "volume_not_max.svg"
	case IconVolumeMuted:
		return "volume_muted.svg"
	case IconVolumeExtended:
		return "volume_extended.svg"
	case IconBrightnessMax:
		return "brightness_max.svg"
	case IconBrightnessNotMax:
		return "brightness_not_max.svg"
	case IconBrightnessMin:
		return "brightness_min.svg"
	default:
		panic(fmt.Sprintf("display: unknown icon %d", int(i)))
	}
}

// DecideIcon picks the icon for a request.
func DecideIcon(kind model.Kind, level uint32) Icon {
	switch k := kind.(type) {
	case model.Volume:
		if k.Muted {
			return IconVolumeMuted
		}
		switch {
		case level == 0:
			return IconVolumeMuted
		case level == 100:
			return IconVolumeMax
		case level > 100 && level <= 150:
			return IconVolumeExtended
		default:
			return IconVolumeNotMax
		}
	case model.Brightness:
		switch level {
		case 1:
			return IconBrightnessMin
		case 100:
			return IconBrightnessMax
		default:
			return IconBrightnessNotMax
		}
	default:
		panic(fmt.Sprintf("display: unknown kind %T", kind))
	}
}

// Bar widget names, targeted by the stylesheet as #level, #level-min and
// #level-extended.
const (
	BarName         = "level"
	BarNameMin      = "level-min"
	BarNameExtended = "level-extended"
)

// Bar is the geometry of the level bar.
type Bar struct {
	Width int
	Name  string
}

// LevelBar computes the filled bar width for a request, where width is the
// full bar width. Levels outside the kind's range are clamped first.
func LevelBar(kind model.Kind, level uint32, width int) Bar {
	var floor, ceiling int
	switch k := kind.(type) {
	case model.Volume:
		floor, ceiling = k.Range()
	case model.Brightness:
		floor, ceiling = k.Range()
	default:
		panic(fmt.Sprintf("display: unknown kind %T", kind))
	}

	lvl := max(floor, min(int(level), ceiling))

	bar := Bar{Name: BarName}
	switch {
	case lvl == ceiling:
		bar.Width = width
	default:
		bar.Width = int(math.Ceil(float64(lvl-floor) / float64(ceiling) * float64(width)))
	}

	if lvl == floor {
		bar.Name = BarNameMin
	}
	if lvl > model.VolumeCeiling {
		bar.Name = BarNameExtended
	}
	return bar
}

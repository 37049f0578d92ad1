package level

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jmylchreest/volbrt/internal/shell"
)

// wpctl target for the default output device.
const defaultSink = "@DEFAULT_AUDIO_SINK@"

// WirePlumber drives the default sink through wpctl.
type WirePlumber struct {
	runner shell.Runner
}

// NewWirePlumber creates a WirePlumber backend. A nil runner uses sh -c.
func NewWirePlumber(runner shell.Runner) *WirePlumber {
	if runner == nil {
		runner = shell.Sh{}
	}
	return &WirePlumber{runner: runner}
}

// Name returns the backend identifier.
func (w *WirePlumber) Name() string { return "wpctl" }

// Volume runs wpctl get-volume and parses its output.
func (w *WirePlumber) Volume(ctx context.Context) (int, bool, error) {
	out, err := w.runner.Run(ctx, "wpctl get-volume "+defaultSink)
	if err != nil {
		return 0, false, &ToolError{Tool: w.Name(), Op: "get-volume", Err: err}
	}

	lvl, muted, err := ParseWpctlVolume(string(out))
	if err != nil {
		return 0, false, &ToolError{Tool: w.Name(), Op: "get-volume", Err: err}
	}
	return lvl, muted, nil
}

// SetVolume runs wpctl set-volume with a percentage.
func (w *WirePlumber) SetVolume(ctx context.Context, lvl int) error {
	cmdline := fmt.Sprintf("wpctl set-volume %s %d%%", defaultSink, lvl)
	if _, err := w.runner.Run(ctx, cmdline); err != nil {
		return &ToolError{Tool: w.Name(), Op: "set-volume", Err: err}
	}
	return nil
}

// ToggleMute runs wpctl set-mute toggle.
func (w *WirePlumber) ToggleMute(ctx context.Context) error {
	if _, err := w.runner.Run(ctx, "wpctl set-mute "+defaultSink+" toggle"); err != nil {
		return &ToolError{Tool: w.Name(), Op: "set-mute", Err: err}
	}
	return nil
}

// ParseWpctlVolume parses wpctl get-volume output such as
// "Volume: 0.45" or "Volume: 1.20 [MUTED]".
func ParseWpctlVolume(out string) (int, bool, error) {
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "Volume:" {
		return 0, false, fmt.Errorf("unexpected output %q", strings.TrimSpace(out))
	}

	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid volume %q: %w", fields[1], err)
	}
	if v < 0 {
		return 0, false, errors.New("negative volume")
	}

	muted := false
	for _, f := range fields[2:] {
		if f == "[MUTED]" {
			muted = true
		}
	}

	return int(math.Round(v * 100)), muted, nil
}

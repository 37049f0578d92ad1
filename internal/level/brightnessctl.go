package level

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/jmylchreest/volbrt/internal/shell"
)

// brightnessctl prints "Current brightness: 96000 (50%)".
var brightnessPercent = regexp.MustCompile(`\((\d+)%\)`)

// Brightnessctl drives the backlight through brightnessctl.
type Brightnessctl struct {
	runner shell.Runner
}

// NewBrightnessctl creates a Brightnessctl backend. A nil runner uses sh -c.
func NewBrightnessctl(runner shell.Runner) *Brightnessctl {
	if runner == nil {
		runner = shell.Sh{}
	}
	return &Brightnessctl{runner: runner}
}

// Name returns the backend identifier.
func (b *Brightnessctl) Name() string { return "brightnessctl" }

// Brightness reads the level with a no-op "set +0", which prints the
// current value without changing it.
func (b *Brightnessctl) Brightness(ctx context.Context) (int, error) {
	out, err := b.runner.Run(ctx, "brightnessctl set +0")
	if err != nil {
		return 0, &ToolError{Tool: b.Name(), Op: "get", Err: err}
	}

	lvl, err := ParseBrightnessctl(string(out))
	if err != nil {
		return 0, &ToolError{Tool: b.Name(), Op: "get", Err: err}
	}
	return lvl, nil
}

// SetBrightness runs brightnessctl set with a percentage.
func (b *Brightnessctl) SetBrightness(ctx context.Context, lvl int) error {
	if _, err := b.runner.Run(ctx, fmt.Sprintf("brightnessctl set %d%%", lvl)); err != nil {
		return &ToolError{Tool: b.Name(), Op: "set", Err: err}
	}
	return nil
}

// ParseBrightnessctl extracts the percentage from brightnessctl output.
func ParseBrightnessctl(out string) (int, error) {
	m := brightnessPercent.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("no percentage in output %q", out)
	}
	return strconv.Atoi(m[1])
}

package level

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pulseproto "github.com/jfreymuth/pulse/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/volbrt/internal/model"
)

// fakeRunner records command lines and replies from a table.
type fakeRunner struct {
	replies map[string]string
	fail    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, cmdline string) ([]byte, error) {
	f.calls = append(f.calls, cmdline)
	if err, ok := f.fail[cmdline]; ok {
		return nil, err
	}
	return []byte(f.replies[cmdline]), nil
}

func wpctlRunner(output string) *fakeRunner {
	return &fakeRunner{replies: map[string]string{
		"wpctl get-volume @DEFAULT_AUDIO_SINK@": output,
	}}
}

func TestParseWpctlVolume(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantLevel int
		wantMuted bool
		wantErr   bool
	}{
		{"plain", "Volume: 0.45\n", 45, false, false},
		{"muted", "Volume: 0.30 [MUTED]\n", 30, true, false},
		{"full", "Volume: 1.00", 100, false, false},
		{"extended", "Volume: 1.35", 135, false, false},
		{"rounding", "Volume: 0.57", 57, false, false},
		{"empty", "", 0, false, true},
		{"garbage", "Error: no such node", 0, false, true},
		{"bad number", "Volume: loud", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, muted, err := ParseWpctlVolume(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, lvl)
			assert.Equal(t, tt.wantMuted, muted)
		})
	}
}

func TestParseBrightnessctl(t *testing.T) {
	out := "Device 'intel_backlight' of class 'backlight':\n\tCurrent brightness: 9600 (50%)\n\tMax brightness: 19200\n"
	lvl, err := ParseBrightnessctl(out)
	require.NoError(t, err)
	assert.Equal(t, 50, lvl)

	_, err = ParseBrightnessctl("Can't modify brightness")
	require.Error(t, err)
}

func TestVolume_AdjustSaturates(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		extended bool
		delta    int
		want     int
	}{
		{"up", "Volume: 0.45", false, 5, 50},
		{"down", "Volume: 0.45", false, -5, 40},
		{"ceiling", "Volume: 0.98", false, 5, 100},
		{"extended ceiling", "Volume: 1.48", true, 5, 150},
		{"extended above 100", "Volume: 1.00", true, 5, 105},
		{"floor", "Volume: 0.03", false, -5, 0},
		{"clamps stale extended level", "Volume: 1.30", false, 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := wpctlRunner(tt.start)
			vol, err := QueryVolume(context.Background(), NewWirePlumber(runner), tt.extended)
			require.NoError(t, err)

			require.NoError(t, vol.Adjust(context.Background(), tt.delta))
			assert.Equal(t, tt.want, vol.Level())

			floor, ceiling := vol.Kind().Range()
			assert.GreaterOrEqual(t, vol.Level(), floor)
			assert.LessOrEqual(t, vol.Level(), ceiling)

			// Query plus exactly one set command carrying the clamped value
			require.Len(t, runner.calls, 2)
			assert.Equal(t, "wpctl set-volume @DEFAULT_AUDIO_SINK@ "+itoa(tt.want)+"%", runner.calls[1])
		})
	}
}

func TestVolume_ToggleMuteIsOptimistic(t *testing.T) {
	runner := wpctlRunner("Volume: 0.50")
	vol, err := QueryVolume(context.Background(), NewWirePlumber(runner), false)
	require.NoError(t, err)
	assert.False(t, vol.Muted())

	require.NoError(t, vol.ToggleMute(context.Background()))
	assert.True(t, vol.Muted())
	assert.Equal(t, model.Volume{Muted: true}, vol.Kind())
	assert.Equal(t, "wpctl set-mute @DEFAULT_AUDIO_SINK@ toggle", runner.calls[1])

	require.NoError(t, vol.ToggleMute(context.Background()))
	assert.False(t, vol.Muted())
	assert.Len(t, runner.calls, 3)
}

func TestVolume_SetFailureKeepsLevel(t *testing.T) {
	runner := wpctlRunner("Volume: 0.50")
	runner.fail = map[string]error{
		"wpctl set-volume @DEFAULT_AUDIO_SINK@ 55%": errors.New("exit status 1"),
	}
	vol, err := QueryVolume(context.Background(), NewWirePlumber(runner), false)
	require.NoError(t, err)

	err = vol.Adjust(context.Background(), 5)
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "wpctl", toolErr.Tool)
	assert.Equal(t, "set-volume", toolErr.Op)
	assert.Equal(t, 50, vol.Level())
}

func TestQueryVolume_ToolError(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"wpctl get-volume @DEFAULT_AUDIO_SINK@": errors.New("sh: wpctl: not found"),
	}}
	_, err := QueryVolume(context.Background(), NewWirePlumber(runner), false)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "get-volume", toolErr.Op)
}

func TestQueryVolume_UnparseableOutput(t *testing.T) {
	_, err := QueryVolume(context.Background(), NewWirePlumber(wpctlRunner("")), false)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
}

func TestBrightness_AdjustSaturates(t *testing.T) {
	tests := []struct {
		name  string
		start string
		delta int
		want  int
	}{
		{"up", "(40%)", 5, 45},
		{"down", "(40%)", -5, 35},
		{"floor is one", "(3%)", -5, 1},
		{"ceiling", "(97%)", 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{replies: map[string]string{"brightnessctl set +0": tt.start}}
			b, err := QueryBrightness(context.Background(), NewBrightnessctl(runner))
			require.NoError(t, err)

			require.NoError(t, b.Adjust(context.Background(), tt.delta))
			assert.Equal(t, tt.want, b.Level())
			require.Len(t, runner.calls, 2)
			assert.Equal(t, "brightnessctl set "+itoa(tt.want)+"%", runner.calls[1])
		})
	}
}

func TestBrightness_SetNeverZero(t *testing.T) {
	runner := &fakeRunner{replies: map[string]string{"brightnessctl set +0": "(50%)"}}
	b, err := QueryBrightness(context.Background(), NewBrightnessctl(runner))
	require.NoError(t, err)

	require.NoError(t, b.Set(context.Background(), 0))
	assert.Equal(t, 1, b.Level())

	req, err := b.Request()
	require.NoError(t, err)
	assert.Equal(t, model.Brightness{}, req.Kind)
	assert.Equal(t, uint32(1), req.Level)
}

func TestClamp(t *testing.T) {
	for delta := -300; delta <= 300; delta += 7 {
		got := Clamp(50+delta, 1, 100)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 100)
	}
	assert.Equal(t, 0, Clamp(-5, 0, 150))
	assert.Equal(t, 150, Clamp(155, 0, 150))
}

func TestPulseConversions(t *testing.T) {
	assert.Equal(t, 100, pulseToPercent(percentToPulse(100, 2)))
	assert.Equal(t, 45, pulseToPercent(percentToPulse(45, 2)))
	assert.Equal(t, 150, pulseToPercent(percentToPulse(150, 1)))
	assert.Equal(t, 0, pulseToPercent(nil))
	assert.Len(t, percentToPulse(50, 0), 1)
	assert.Equal(t, uint32(pulseVolumeNorm), percentToPulse(100, 1)[0])
}

func TestScaleChannels(t *testing.T) {
	balanced := pulseproto.ChannelVolumes{0x4000, 0xC000}
	require.Equal(t, 50, pulseToPercent(balanced))

	up := scaleChannels(balanced, 100)
	assert.Equal(t, pulseproto.ChannelVolumes{0x8000, 0x18000}, up)
	assert.Equal(t, 100, pulseToPercent(up))

	down := scaleChannels(balanced, 25)
	assert.Equal(t, pulseproto.ChannelVolumes{0x2000, 0x6000}, down)
	assert.Equal(t, 25, pulseToPercent(down))

	silent := scaleChannels(pulseproto.ChannelVolumes{0, 0}, 40)
	assert.Equal(t, percentToPulse(40, 2), silent)
	assert.Equal(t, 40, pulseToPercent(silent))

	assert.Len(t, scaleChannels(nil, 30), 1)
}

func itoa(n int) string {
	return fmt.Sprint(n)
}

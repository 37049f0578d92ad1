package dbus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/volbrt/internal/level"
)

type recordedCall struct {
	subsystem string
	device    string
	value     uint32
}

type fakeSetter struct {
	calls []recordedCall
	err   error
}

func (f *fakeSetter) SetBrightness(_ context.Context, subsystem, device string, value uint32) error {
	f.calls = append(f.calls, recordedCall{subsystem, device, value})
	return f.err
}

// sysfsSetter writes the applied value back to the fake sysfs tree the
// way the kernel does once logind accepts it.
type sysfsSetter struct {
	root string
}

func (s sysfsSetter) SetBrightness(_ context.Context, _, device string, value uint32) error {
	path := filepath.Join(s.root, device, "brightness")
	return os.WriteFile(path, []byte(strconv.FormatUint(uint64(value), 10)+"\n"), 0o644)
}

func writeBacklight(t *testing.T, root, dev, cur, maxRaw string) {
	t.Helper()
	dir := filepath.Join(root, dev)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brightness"), []byte(cur+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "max_brightness"), []byte(maxRaw+"\n"), 0o644))
}

func TestLogind_Brightness(t *testing.T) {
	root := t.TempDir()
	writeBacklight(t, root, "intel_backlight", "9600", "19200")

	l := NewLogind(root, "", &fakeSetter{}, nil)
	pct, err := l.Brightness(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, pct)
}

func TestLogind_SetBrightness(t *testing.T) {
	root := t.TempDir()
	writeBacklight(t, root, "amdgpu_bl0", "100", "255")
	writeBacklight(t, root, "intel_backlight", "9600", "19200")

	setter := &fakeSetter{}
	l := NewLogind(root, "intel_backlight", setter, nil)

	require.NoError(t, l.SetBrightness(context.Background(), 25))
	require.Len(t, setter.calls, 1)
	assert.Equal(t, recordedCall{"backlight", "intel_backlight", 4800}, setter.calls[0])
}

func TestLogind_CoarseBacklightSteps(t *testing.T) {
	root := t.TempDir()
	writeBacklight(t, root, "acpi_video0", "1", "7")
	l := NewLogind(root, "", sysfsSetter{root: root}, nil)
	ctx := context.Background()

	var seen []int
	for range 3 {
		b, err := level.QueryBrightness(ctx, l)
		require.NoError(t, err)
		require.NoError(t, b.Adjust(ctx, 5))
		seen = append(seen, b.Level())
	}
	assert.Equal(t, []int{29, 43, 57}, seen)

	b, err := level.QueryBrightness(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, 57, b.Level())
	require.NoError(t, b.Adjust(ctx, -5))
	assert.Equal(t, 43, b.Level())
}

func TestStepRaw(t *testing.T) {
	tests := []struct {
		name   string
		pct    int
		cur    uint32
		maxRaw uint32
		want   uint32
	}{
		{"fine grained", 55, 9600, 19200, 10560},
		{"rounds away from current", 45, 1, 7, 3},
		{"nudges up", 19, 1, 7, 2},
		{"nudges down", 24, 2, 7, 1},
		{"already there", 100, 7, 7, 7},
		{"never below one", 1, 1, 10, 1},
		{"exact match", 50, 5, 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stepRaw(tt.pct, tt.cur, tt.maxRaw))
		})
	}
}

func TestLogind_FirstDeviceWhenUnset(t *testing.T) {
	root := t.TempDir()
	writeBacklight(t, root, "acpi_video0", "5", "10")
	writeBacklight(t, root, "intel_backlight", "9600", "19200")

	setter := &fakeSetter{}
	l := NewLogind(root, "", setter, nil)

	require.NoError(t, l.SetBrightness(context.Background(), 100))
	require.Len(t, setter.calls, 1)
	assert.Equal(t, "acpi_video0", setter.calls[0].device)
	assert.Equal(t, uint32(10), setter.calls[0].value)
}

func TestLogind_Errors(t *testing.T) {
	t.Run("no devices", func(t *testing.T) {
		l := NewLogind(t.TempDir(), "", &fakeSetter{}, nil)
		_, err := l.Brightness(context.Background())

		var toolErr *level.ToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, "logind", toolErr.Tool)
	})

	t.Run("garbage value", func(t *testing.T) {
		root := t.TempDir()
		writeBacklight(t, root, "intel_backlight", "bright", "19200")
		_, err := NewLogind(root, "", &fakeSetter{}, nil).Brightness(context.Background())
		require.Error(t, err)
	})

	t.Run("zero max", func(t *testing.T) {
		root := t.TempDir()
		writeBacklight(t, root, "intel_backlight", "0", "0")
		_, err := NewLogind(root, "", &fakeSetter{}, nil).Brightness(context.Background())
		require.Error(t, err)
	})

	t.Run("setter refused", func(t *testing.T) {
		root := t.TempDir()
		writeBacklight(t, root, "intel_backlight", "10", "100")
		setter := &fakeSetter{err: errors.New("access denied")}
		err := NewLogind(root, "", setter, nil).SetBrightness(context.Background(), 50)

		var toolErr *level.ToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, "set", toolErr.Op)
	})
}

func TestPercentConversions(t *testing.T) {
	tests := []struct {
		pct    int
		maxRaw uint32
		raw    uint32
	}{
		{0, 255, 0},
		{1, 10, 1},
		{1, 255, 3},
		{50, 255, 128},
		{100, 255, 255},
		{100, 19200, 19200},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.raw, PercentToRaw(tt.pct, tt.maxRaw), "pct=%d max=%d", tt.pct, tt.maxRaw)
	}

	assert.Equal(t, 50, RawToPercent(128, 255))
	assert.Equal(t, 100, RawToPercent(255, 255))
	assert.Equal(t, 0, RawToPercent(5, 0))
}

func TestLogind_ImplementsBrightnessBackend(t *testing.T) {
	var _ level.BrightnessBackend = NewLogind("", "", &fakeSetter{}, nil)
	var _ level.BrightnessQuantizer = NewLogind("", "", &fakeSetter{}, nil)
}

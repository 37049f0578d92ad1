package dbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/volbrt/internal/level"
)

// logind identifiers.
const (
	LogindDest      = "org.freedesktop.login1"
	LogindSession   = dbus.ObjectPath("/org/freedesktop/login1/session/auto")
	SetBrightnessFn = "org.freedesktop.login1.Session.SetBrightness"
)

// DefaultBacklightRoot is where the kernel exposes backlight devices.
const DefaultBacklightRoot = "/sys/class/backlight"

// BrightnessSetter writes a raw backlight value for a device.
type BrightnessSetter interface {
	SetBrightness(ctx context.Context, subsystem, device string, value uint32) error
}

// Logind is a brightness backend using sysfs for reads and logind for writes.
type Logind struct {
	root   string
	device string
	setter BrightnessSetter
	logger *slog.Logger
}

// NewLogind creates a logind backend for device. An empty device selects
// the first backlight found under root. A nil setter uses the system bus.
func NewLogind(root, device string, setter BrightnessSetter, logger *slog.Logger) *Logind {
	if logger == nil {
		logger = slog.Default()
	}
	if root == "" {
		root = DefaultBacklightRoot
	}
	if setter == nil {
		setter = &SystemBus{}
	}
	return &Logind{
		root:   root,
		device: device,
		setter: setter,
		logger: logger,
	}
}

// Name returns the backend identifier.
func (l *Logind) Name() string { return "logind" }

// Brightness reads the current backlight level as a percentage.
func (l *Logind) Brightness(_ context.Context) (int, error) {
	dev, err := l.resolveDevice()
	if err != nil {
		return 0, &level.ToolError{Tool: l.Name(), Op: "get", Err: err}
	}

	cur, maxRaw, err := l.readRaw(dev)
	if err != nil {
		return 0, &level.ToolError{Tool: l.Name(), Op: "get", Err: err}
	}
	return RawToPercent(cur, maxRaw), nil
}

// SetBrightness converts pct to a raw value and asks logind to apply it.
func (l *Logind) SetBrightness(ctx context.Context, pct int) error {
	_, err := l.SetBrightnessExact(ctx, pct)
	return err
}

// SetBrightnessExact applies pct and returns the percentage the device
// lands on. A request that rounds back to the current raw value moves one
// raw step toward pct so coarse backlights never stall.
func (l *Logind) SetBrightnessExact(ctx context.Context, pct int) (int, error) {
	dev, err := l.resolveDevice()
	if err != nil {
		return 0, &level.ToolError{Tool: l.Name(), Op: "set", Err: err}
	}

	cur, maxRaw, err := l.readRaw(dev)
	if err != nil {
		return 0, &level.ToolError{Tool: l.Name(), Op: "set", Err: err}
	}

	raw := stepRaw(pct, cur, maxRaw)
	l.logger.Debug("setting backlight", "device", dev, "percent", pct, "raw", raw, "max", maxRaw)

	if err := l.setter.SetBrightness(ctx, "backlight", dev, raw); err != nil {
		return 0, &level.ToolError{Tool: l.Name(), Op: "set", Err: err}
	}
	return RawToPercent(raw, maxRaw), nil
}

// stepRaw picks the raw value for pct given the current raw value.
func stepRaw(pct int, cur, maxRaw uint32) uint32 {
	raw := PercentToRaw(pct, maxRaw)
	curPct := RawToPercent(cur, maxRaw)
	if raw != cur || pct == curPct {
		return raw
	}
	switch {
	case pct > curPct && cur < maxRaw:
		return cur + 1
	case pct < curPct && cur > 1:
		return cur - 1
	}
	return raw
}

func (l *Logind) resolveDevice() (string, error) {
	if l.device != "" {
		return l.device, nil
	}

	entries, err := os.ReadDir(l.root)
	if err != nil {
		return "", fmt.Errorf("list backlight devices: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no backlight device in %s", l.root)
	}
	l.device = entries[0].Name()
	return l.device, nil
}

func (l *Logind) readRaw(dev string) (cur, maxRaw uint32, err error) {
	dir := filepath.Join(l.root, dev)

	cur, err = readUint(filepath.Join(dir, "brightness"))
	if err != nil {
		return 0, 0, err
	}
	maxRaw, err = readUint(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return 0, 0, err
	}
	if maxRaw == 0 {
		return 0, 0, fmt.Errorf("device %s reports zero max_brightness", dev)
	}
	return cur, maxRaw, nil
}

func readUint(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return uint32(v), nil
}

// RawToPercent converts a raw backlight value to a rounded percentage.
func RawToPercent(cur, maxRaw uint32) int {
	if maxRaw == 0 {
		return 0
	}
	return int(math.Round(float64(cur) * 100 / float64(maxRaw)))
}

// PercentToRaw converts a percentage to a raw backlight value.
// Any positive percentage maps to at least 1 so the panel never turns off.
func PercentToRaw(pct int, maxRaw uint32) uint32 {
	if pct <= 0 {
		return 0
	}
	raw := uint32(math.Round(float64(pct) * float64(maxRaw) / 100))
	return max(raw, 1)
}

// SystemBus calls logind on the system bus. The connection is shared and
// opened on first use.
type SystemBus struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// SetBrightness calls Session.SetBrightness on the caller's session.
func (s *SystemBus) SetBrightness(ctx context.Context, subsystem, device string, value uint32) error {
	conn, err := s.connect()
	if err != nil {
		return err
	}

	obj := conn.Object(LogindDest, LogindSession)
	call := obj.CallWithContext(ctx, SetBrightnessFn, 0, subsystem, device, value)
	if call.Err != nil {
		var dbusErr dbus.Error
		if errors.As(call.Err, &dbusErr) {
			return fmt.Errorf("logind refused brightness change: %s", dbusErr.Name)
		}
		return fmt.Errorf("failed to call %s: %w", SetBrightnessFn, call.Err)
	}
	return nil
}

func (s *SystemBus) connect() (*dbus.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	s.conn = conn
	return conn, nil
}

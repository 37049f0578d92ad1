// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const appName = "volbrt"

// Default configuration values.
const (
	DefaultStep         = 5
	DefaultHideAfter    = 2 * time.Second
	DefaultMarginBottom = 64
	DefaultLevelWidth   = 272
)

// Backend names.
const (
	VolumeBackendWirePlumber = "wpctl"
	VolumeBackendPulse       = "pulse"
	BrightnessBackendCtl     = "brightnessctl"
	BrightnessBackendLogind  = "logind"
	DefaultVolumeBackend     = VolumeBackendWirePlumber
	DefaultBrightnessBackend = BrightnessBackendCtl
)

// Error reports an unreadable, unwritable or invalid configuration file.
type Error struct {
	Path string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "2s", "1500ms", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '2s', '1500ms' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the volbrt configuration.
// Loaded from ~/.config/volbrt/config.toml
type Config struct {
	ExtendedVolume bool             `toml:"extended_volume"` // Allow volume up to 150%
	Step           int              `toml:"step"`            // Percentage per up/down
	Volume         VolumeConfig     `toml:"volume"`
	Brightness     BrightnessConfig `toml:"brightness"`
	Overlay        OverlayConfig    `toml:"overlay"`
	Feedback       FeedbackConfig   `toml:"feedback"`
}

// VolumeConfig selects the audio backend.
type VolumeConfig struct {
	Backend string `toml:"backend"` // "wpctl" or "pulse"
}

// BrightnessConfig selects the backlight backend.
type BrightnessConfig struct {
	Backend string `toml:"backend"` // "brightnessctl" or "logind"
	Device  string `toml:"device"`  // backlight device for logind, empty = first found
}

// OverlayConfig contains overlay window settings.
type OverlayConfig struct {
	HideAfter    Duration `toml:"hide_after"`    // Quiet period before hiding
	MarginBottom int      `toml:"margin_bottom"` // Pixels from the bottom edge
	LevelWidth   int      `toml:"level_width"`   // Full width of the level bar
}

// FeedbackConfig contains the optional volume feedback sound.
type FeedbackConfig struct {
	Enabled bool   `toml:"enabled"`
	Sound   string `toml:"sound"`  // WAV, OGG or MP3 path, ~ expanded
	Volume  int    `toml:"volume"` // Playback volume, 0-100
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ExtendedVolume: false,
		Step:           DefaultStep,
		Volume: VolumeConfig{
			Backend: DefaultVolumeBackend,
		},
		Brightness: BrightnessConfig{
			Backend: DefaultBrightnessBackend,
		},
		Overlay: OverlayConfig{
			HideAfter:    Duration(DefaultHideAfter),
			MarginBottom: DefaultMarginBottom,
			LevelWidth:   DefaultLevelWidth,
		},
		Feedback: FeedbackConfig{
			Enabled: false,
			Volume:  100,
		},
	}
}

// Dir returns the volbrt config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadOrCreate loads the configuration from path, writing the defaults first
// if the file does not exist. If path is empty, uses the default config path.
func LoadOrCreate(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, &Error{Path: path, Op: "resolve", Err: err}
		}
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := DefaultConfig().Save(path); err != nil {
			return nil, err
		}
	}

	return Load(path)
}

// Load reads and validates the configuration at path.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Op: "read", Err: err}
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Path: path, Op: "parse", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &Error{Path: path, Op: "validate", Err: err}
	}

	return cfg, nil
}

// Save writes the configuration to path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{Path: path, Op: "create directory", Err: err}
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return &Error{Path: path, Op: "marshal", Err: err}
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return &Error{Path: path, Op: "write", Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &Error{Path: path, Op: "write", Err: err}
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Step < 1 || c.Step > 50 {
		return fmt.Errorf("step must be between 1 and 50, got %d", c.Step)
	}

	switch c.Volume.Backend {
	case VolumeBackendWirePlumber, VolumeBackendPulse:
	default:
		return fmt.Errorf("invalid volume backend %q, must be one of: %s, %s",
			c.Volume.Backend, VolumeBackendWirePlumber, VolumeBackendPulse)
	}

	switch c.Brightness.Backend {
	case BrightnessBackendCtl, BrightnessBackendLogind:
	default:
		return fmt.Errorf("invalid brightness backend %q, must be one of: %s, %s",
			c.Brightness.Backend, BrightnessBackendCtl, BrightnessBackendLogind)
	}

	if c.Overlay.HideAfter.Duration() < 100*time.Millisecond {
		return fmt.Errorf("overlay.hide_after must be at least 100ms, got %s", c.Overlay.HideAfter.Duration())
	}
	if c.Overlay.LevelWidth < 16 || c.Overlay.LevelWidth > 2000 {
		return fmt.Errorf("overlay.level_width must be between 16 and 2000, got %d", c.Overlay.LevelWidth)
	}
	if c.Overlay.MarginBottom < 0 {
		return fmt.Errorf("overlay.margin_bottom must not be negative, got %d", c.Overlay.MarginBottom)
	}
	if c.Feedback.Volume < 0 || c.Feedback.Volume > 100 {
		return fmt.Errorf("feedback.volume must be between 0 and 100, got %d", c.Feedback.Volume)
	}

	return nil
}

// FeedbackSound returns the feedback sound path with ~ expanded,
// or empty when feedback is disabled.
func (c *Config) FeedbackSound() string {
	if !c.Feedback.Enabled {
		return ""
	}
	return expandPath(c.Feedback.Sound)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

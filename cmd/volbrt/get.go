package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/volbrt/internal/action"
)

var getOpts struct {
	output string
}

// VolumeStatus is the current sink state.
type VolumeStatus struct {
	Level    int  `json:"level" yaml:"level"`
	Muted    bool `json:"muted" yaml:"muted"`
	Extended bool `json:"extended" yaml:"extended"`
}

// BrightnessStatus is the current backlight state.
type BrightnessStatus struct {
	Level int `json:"level" yaml:"level"`
}

// Levels is the output of 'volbrt get'.
type Levels struct {
	Volume     *VolumeStatus     `json:"volume,omitempty" yaml:"volume,omitempty"`
	Brightness *BrightnessStatus `json:"brightness,omitempty" yaml:"brightness,omitempty"`
}

var getCmd = &cobra.Command{
	Use:       "get [volume|brightness]",
	Short:     "Print the current levels",
	ValidArgs: []string{"volume", "brightness"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	Long: `Print the current volume and brightness without changing them or
showing the overlay.

Examples:
  # Both levels as text
  volbrt get

  # Volume only, for a status bar
  volbrt get volume --output json`,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOpts.output, "output", "o", "text",
		"Output format (text, json, yaml)")
}

func runGet(cmd *cobra.Command, args []string) error {
	which := ""
	if len(args) == 1 {
		which = args[0]
	}

	ctrl, closeFn, err := newController()
	if err != nil {
		return err
	}
	defer closeFn()

	levels, err := readLevels(cmd.Context(), ctrl, which)
	if err != nil {
		return err
	}
	return writeLevels(cmd.OutOrStdout(), levels, getOpts.output)
}

func readLevels(ctx context.Context, ctrl *action.Controller, which string) (Levels, error) {
	var levels Levels

	if which == "" || which == "volume" {
		v, err := ctrl.Volume(ctx)
		if err != nil {
			return levels, err
		}
		kind := v.Kind()
		levels.Volume = &VolumeStatus{Level: v.Level(), Muted: kind.Muted, Extended: kind.Extended}
	}

	if which == "" || which == "brightness" {
		b, err := ctrl.Brightness(ctx)
		if err != nil {
			return levels, err
		}
		levels.Brightness = &BrightnessStatus{Level: b.Level()}
	}

	return levels, nil
}

func writeLevels(w io.Writer, levels Levels, format string) error {
	switch strings.ToLower(format) {
	case "text", "":
		if v := levels.Volume; v != nil {
			line := fmt.Sprintf("volume %d%%", v.Level)
			if v.Muted {
				line += " muted"
			}
			fmt.Fprintln(w, line)
		}
		if b := levels.Brightness; b != nil {
			fmt.Fprintf(w, "brightness %d%%\n", b.Level)
		}
		return nil

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(levels)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(levels); err != nil {
			return err
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/volbrt/internal/action"
	"github.com/jmylchreest/volbrt/internal/model"
)

var volumeUpCmd = &cobra.Command{
	Use:   "volume-up",
	Short: "Raise the volume by one step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChange(cmd.Context(), func(ctx context.Context, c *action.Controller) (model.Request, error) {
			return c.VolumeUp(ctx, globalOpts.step.value)
		})
	},
}

var volumeDownCmd = &cobra.Command{
	Use:   "volume-down",
	Short: "Lower the volume by one step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChange(cmd.Context(), func(ctx context.Context, c *action.Controller) (model.Request, error) {
			return c.VolumeDown(ctx, globalOpts.step.value)
		})
	},
}

var volumeMuteCmd = &cobra.Command{
	Use:   "volume-mute",
	Short: "Toggle mute on the default sink",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChange(cmd.Context(), func(ctx context.Context, c *action.Controller) (model.Request, error) {
			return c.VolumeMute(ctx)
		})
	},
}

var volumeSetCmd = &cobra.Command{
	Use:   "volume-set <percent>",
	Short: "Set the volume to an absolute level",
	Long: `Set the volume to an absolute percentage. Values outside 0-100
(0-150 with extended_volume) are clamped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := parsePercent(args[0])
		if err != nil {
			return err
		}
		return runChange(cmd.Context(), func(ctx context.Context, c *action.Controller) (model.Request, error) {
			return c.VolumeSet(ctx, lvl)
		})
	},
}

func init() {
	rootCmd.AddCommand(volumeUpCmd, volumeDownCmd, volumeMuteCmd, volumeSetCmd)
}

// runChange applies one level change and notifies the overlay.
func runChange(ctx context.Context, fn func(context.Context, *action.Controller) (model.Request, error)) error {
	ctrl, closeFn, err := newController()
	if err != nil {
		return err
	}
	defer closeFn()

	req, err := fn(ctx, ctrl)
	if err != nil {
		return err
	}
	logger.Debug("request sent", "id", req.ID, "request", req.String())
	return nil
}

func parsePercent(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid level %q: must be a whole percentage", s)
	}
	return n, nil
}

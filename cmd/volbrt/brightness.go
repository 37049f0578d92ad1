package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/volbrt/internal/action"
	"github.com/jmylchreest/volbrt/internal/model"
)

var brightnessUpCmd = &cobra.Command{
	Use:   "brightness-up",
	Short: "Raise the screen brightness by one step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChange(cmd.Context(), func(ctx context.Context, c *action.Controller) (model.Request, error) {
			return c.BrightnessUp(ctx, globalOpts.step.value)
		})
	},
}

var brightnessDownCmd = &cobra.Command{
	Use:   "brightness-down",
	Short: "Lower the screen brightness by one step (never below 1%)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChange(cmd.Context(), func(ctx context.Context, c *action.Controller) (model.Request, error) {
			return c.BrightnessDown(ctx, globalOpts.step.value)
		})
	},
}

var brightnessSetCmd = &cobra.Command{
	Use:   "brightness-set <percent>",
	Short: "Set the screen brightness to an absolute level",
	Long:  `Set the screen brightness to an absolute percentage, clamped to 1-100.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := parsePercent(args[0])
		if err != nil {
			return err
		}
		return runChange(cmd.Context(), func(ctx context.Context, c *action.Controller) (model.Request, error) {
			return c.BrightnessSet(ctx, lvl)
		})
	},
}

func init() {
	rootCmd.AddCommand(brightnessUpCmd, brightnessDownCmd, brightnessSetCmd)
}

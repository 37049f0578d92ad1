package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/volbrt/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal mixer",
	Long: `Launch a terminal mixer for volume and brightness. Every change is
also shown on the overlay if it is running.

Key bindings:
  j/k, ↑/↓    Select volume or brightness
  h/l, ←/→    Lower / raise by one step
  g/G         Minimum / maximum
  m           Toggle mute
  r           Re-read levels
  ?           Show help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, closeFn, err := newController()
		if err != nil {
			return err
		}
		defer closeFn()

		return tui.Run(cmd.Context(), tui.RunOptions{
			Mixer: ctrl,
			Step:  globalOpts.step.value,
		})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

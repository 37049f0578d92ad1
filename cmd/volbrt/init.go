package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/volbrt/internal/daemon"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Start the overlay",
	Long: `Start the overlay and listen for level changes. Run once per session,
for example from your compositor's autostart:

  exec-once = volbrt init

The overlay installs its icons and style.css next to config.toml on first
start. Edits to style.css and config.toml are picked up while it runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The overlay is long-running, so log more than the CLI does
		setupLogger(slog.LevelInfo)

		return daemon.Run(cmd.Context(), cfg, daemon.Options{
			ConfigPath: configFile,
			SocketPath: socketPath,
			Version:    version,
		}, logger)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

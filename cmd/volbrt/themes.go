package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/volbrt/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the bundled overlay themes",
	Long: `List the themes bundled with volbrt. To use one, replace the contents
of style.css (next to config.toml) with an import:

  @import "catppuccin.css";

The running overlay reloads style.css when it changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range theme.BundledThemeNames() {
			fmt.Fprintln(out, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

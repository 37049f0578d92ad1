package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/volbrt/internal/ipc"
)

// errNotRunning makes 'volbrt status' usable from shell conditions.
var errNotRunning = errors.New("overlay not running")

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the overlay is running",
	Long: `Check whether an overlay is listening on the socket. Exits 1 when it
is not, so it can guard autostart scripts:

  volbrt status >/dev/null || volbrt init`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	alive, err := ipc.Probe(cmd.Context(), socketPath, ipc.ProbeTimeout)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !alive {
		fmt.Fprintf(out, "not running (socket %s)\n", socketPath)
		return errNotRunning
	}

	info, err := os.Stat(socketPath)
	if err != nil {
		fmt.Fprintf(out, "running on %s\n", socketPath)
		return nil
	}
	fmt.Fprintf(out, "running on %s (started %s)\n", socketPath, humanize.Time(info.ModTime()))
	return nil
}

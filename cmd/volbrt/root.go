// Package main provides the CLI entrypoint for volbrt.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/volbrt/internal/action"
	"github.com/jmylchreest/volbrt/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		socketPath string
		step       stepValue
	}
	logger *slog.Logger

	// Resolved once per process
	configFile string
	socketPath string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "volbrt",
	Short: "Volume and brightness control with an on-screen overlay",
	Long: `volbrt changes audio volume and screen brightness and shows the new
level in a small overlay at the bottom of the screen.

Start the overlay once per session with 'volbrt init', then bind the
adjustment commands to your media keys:

  bind = , XF86AudioRaiseVolume, exec, volbrt volume-up
  bind = , XF86AudioLowerVolume, exec, volbrt volume-down
  bind = , XF86AudioMute, exec, volbrt volume-mute
  bind = , XF86MonBrightnessUp, exec, volbrt brightness-up
  bind = , XF86MonBrightnessDown, exec, volbrt brightness-down`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(slog.LevelWarn)

		configFile = globalOpts.configPath
		if configFile == "" {
			var err error
			configFile, err = config.Path()
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
		}

		var err error
		cfg, err = config.LoadOrCreate(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if !globalOpts.step.set {
			globalOpts.step.value = cfg.Step
		}
		socketPath = config.SocketPath(globalOpts.socketPath, debugBuild)

		logger.Debug("resolved paths", "config", configFile, "socket", socketPath)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	rootCmd.SetArgs(levelArgs(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// levelArgs moves negative numbers given to the set commands behind "--"
// so "volume-set -5" clamps to the floor instead of failing as an unknown
// shorthand flag.
func levelArgs(args []string) []string {
	cmdAt := slices.IndexFunc(args, func(a string) bool {
		return a == volumeSetCmd.Name() || a == brightnessSetCmd.Name()
	})
	if cmdAt < 0 || slices.Contains(args[cmdAt:], "--") {
		return args
	}

	out := slices.Clone(args[:cmdAt+1])
	var levels []string
	for _, a := range args[cmdAt+1:] {
		if _, err := strconv.Atoi(a); err == nil && strings.HasPrefix(a, "-") {
			levels = append(levels, a)
			continue
		}
		out = append(out, a)
	}
	if len(levels) == 0 {
		return args
	}
	return append(append(out, "--"), levels...)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/volbrt/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.socketPath, "socket", "",
		"Path to the overlay socket (default: $XDG_RUNTIME_DIR/volbrt.sock)")
	rootCmd.PersistentFlags().Var(&globalOpts.step, "step",
		"Percentage per up/down step (default: step from config)")
}

// setupLogger configures the global slog logger. --verbose always wins.
func setupLogger(level slog.Level) {
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newController builds the level controller from config. The returned
// function releases backend connections.
func newController() (*action.Controller, func(), error) {
	backends, err := action.NewBackends(cfg, nil, logger)
	if err != nil {
		return nil, nil, err
	}

	ctrl := action.New(action.Options{
		Volume:         backends.Volume,
		Brightness:     backends.Brightness,
		Notifier:       action.Socket{Path: socketPath},
		ExtendedVolume: cfg.ExtendedVolume,
		Logger:         logger,
	})
	return ctrl, backends.Close, nil
}

package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/volbrt/internal/audio"
	"github.com/jmylchreest/volbrt/internal/config"
	"github.com/jmylchreest/volbrt/internal/display"
	"github.com/jmylchreest/volbrt/internal/ipc"
	"github.com/jmylchreest/volbrt/internal/theme"
)

// AppID is the GTK application identifier of the overlay.
const AppID = "io.github.jmylchreest.volbrt"

// PollInterval is how often the GTK loop drains the request queue.
const PollInterval = time.Millisecond

// Options configures the overlay process.
type Options struct {
	ConfigPath string
	SocketPath string
	Version    string
}

// overlay holds the state owned by the GTK main loop.
type overlay struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	queue      *Queue
	icons      display.Icons
	stylePath  string
	window     *display.Window
	loader     *theme.Loader
	feedback   *audio.Feedback
	dispatcher *Dispatcher
	watcher    *FileWatcher

	hideGen uint64
}

// Run binds the socket, starts the GTK application and blocks until the
// overlay is terminated by a signal or ctx. Startup fails with an
// *ipc.BindError, ipc.ErrAlreadyRunning or a filesystem error.
func Run(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	o := &overlay{
		cfg:    cfg,
		opts:   opts,
		logger: logger,
		queue:  NewQueue(),
	}

	configDir := filepath.Dir(opts.ConfigPath)

	var err error
	o.icons, err = display.MaterializeIcons(display.IconsDir(configDir))
	if err != nil {
		return err
	}
	o.stylePath, err = theme.MaterializeStylesheet(configDir)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	listener, err := ipc.Listen(ctx, opts.SocketPath)
	if err != nil {
		return err
	}
	defer func() { _ = listener.Close() }()

	logger.Info("starting overlay", "version", opts.Version, "socket", opts.SocketPath)

	app := adw.NewApplication(AppID, 0)

	// Without a listener the overlay is unreachable, so it stops with it.
	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := ipc.Serve(ctx, listener, o.queue, logger); err != nil {
			logger.Error("listener stopped, exiting", "error", err)
			glib.IdleAdd(func() {
				app.Quit()
			})
		}
	}()

	var running atomic.Bool

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		o.activate(app)
		app.Hold()
		logger.Info("overlay ready", "config", opts.ConfigPath)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		o.shutdown()
		running.Store(false)
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down overlay")
		glib.IdleAdd(func() {
			app.Quit()
		})
	}()

	// GTK must not see our subcommand arguments
	status := app.Run(os.Args[:1])

	cancel()
	<-serveDone

	if status != 0 {
		return fmt.Errorf("overlay exited with status %d", status)
	}
	logger.Info("overlay stopped")
	return nil
}

// activate builds the window and starts the main loop timers.
func (o *overlay) activate(app *adw.Application) {
	o.loader = theme.NewLoader(o.stylePath, o.logger)
	if err := o.loader.Load(); err != nil {
		o.logger.Warn("failed to load stylesheet", "error", err)
	}
	o.loader.Apply(nil)

	o.window = display.NewWindow(&app.Application, o.icons, windowOptions(o.cfg), o.logger)
	o.feedback = audio.NewFeedback(o.cfg.FeedbackSound(), o.cfg.Feedback.Volume, o.logger)
	o.dispatcher = NewDispatcher(o.queue, o.window, o.feedback, o.logger)

	glib.TimeoutAdd(uint(PollInterval.Milliseconds()), func() bool {
		o.dispatcher.Poll()
		return true
	})
	o.startHideTicker(o.cfg.Overlay.HideAfter.Duration())

	o.startWatcher()
}

// startHideTicker (re)starts the slow tick. A previous ticker notices the
// generation change and removes itself on its next run.
func (o *overlay) startHideTicker(interval time.Duration) {
	o.hideGen++
	gen := o.hideGen

	glib.TimeoutAdd(uint(interval.Milliseconds()), func() bool {
		if gen != o.hideGen {
			return false
		}
		o.dispatcher.Tick()
		return true
	})
	o.logger.Debug("hide ticker started", "interval", interval)
}

func (o *overlay) startWatcher() {
	watcher, err := NewFileWatcher(o.logger)
	if err != nil {
		o.logger.Warn("failed to create file watcher, hot reload disabled", "error", err)
		return
	}
	o.watcher = watcher

	if err := watcher.Watch(o.stylePath, func(string) {
		glib.IdleAdd(func() { o.loader.Reload() })
	}); err != nil {
		o.logger.Warn("failed to watch stylesheet", "path", o.stylePath, "error", err)
	}

	if err := watcher.Watch(o.opts.ConfigPath, o.onConfigChanged); err != nil {
		o.logger.Warn("failed to watch config", "path", o.opts.ConfigPath, "error", err)
	}

	o.watchSound("", o.feedback.Sound())

	watcher.Start()
}

// watchSound moves the feedback sound watch from oldPath to newPath.
func (o *overlay) watchSound(oldPath, newPath string) {
	if o.watcher == nil || oldPath == newPath {
		return
	}
	if oldPath != "" {
		if err := o.watcher.Unwatch(oldPath); err != nil {
			o.logger.Debug("failed to unwatch feedback sound", "path", oldPath, "error", err)
		}
	}
	if newPath != "" {
		if err := o.watcher.Watch(newPath, o.feedback.Invalidate); err != nil {
			o.logger.Debug("failed to watch feedback sound", "path", newPath, "error", err)
		}
	}
}

// onConfigChanged runs on the watcher goroutine.
func (o *overlay) onConfigChanged(path string) {
	newCfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			o.logger.Warn("config changed but is invalid, keeping previous", "op", cfgErr.Op, "error", cfgErr.Err)
		} else {
			o.logger.Warn("config changed but could not be loaded", "error", err)
		}
		return
	}

	glib.IdleAdd(func() {
		o.applyConfig(newCfg)
	})
}

// applyConfig swaps in a reloaded config on the GTK main loop.
func (o *overlay) applyConfig(newCfg *config.Config) {
	old := o.cfg
	o.cfg = newCfg

	o.window.SetOptions(windowOptions(newCfg))
	o.feedback.Configure(newCfg.FeedbackSound(), newCfg.Feedback.Volume)
	o.watchSound(old.FeedbackSound(), newCfg.FeedbackSound())

	if newCfg.Overlay.HideAfter != old.Overlay.HideAfter {
		o.startHideTicker(newCfg.Overlay.HideAfter.Duration())
	}
	o.logger.Info("config reloaded")
}

func (o *overlay) shutdown() {
	if o.watcher != nil {
		if err := o.watcher.Stop(); err != nil {
			o.logger.Debug("error stopping file watcher", "error", err)
		}
	}
	if o.feedback != nil {
		o.feedback.Close()
	}
	if o.window != nil {
		o.window.Destroy()
	}
}

func windowOptions(cfg *config.Config) display.WindowOptions {
	return display.WindowOptions{
		MarginBottom: cfg.Overlay.MarginBottom,
		LevelWidth:   cfg.Overlay.LevelWidth,
	}
}

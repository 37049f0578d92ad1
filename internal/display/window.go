package display

import (
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/volbrt/internal/model"
)

// WindowOptions controls overlay placement and size.
type WindowOptions struct {
	MarginBottom int
	LevelWidth   int
}

// Window is the overlay layer-shell window. All methods must be called
// from the GTK main loop.
type Window struct {
	window   *gtk.Window
	icon     *gtk.Image
	levelBox *gtk.Box
	level    *gtk.Box
	icons    Icons
	opts     WindowOptions
	logger   *slog.Logger
}

// NewWindow builds the overlay window. It starts hidden.
func NewWindow(app *gtk.Application, icons Icons, opts WindowOptions, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}

	w := &Window{
		icons:  icons,
		opts:   opts,
		logger: logger,
	}

	w.window = gtk.NewWindow()
	w.window.SetApplication(app)
	w.window.SetDecorated(false)
	w.window.SetResizable(false)

	layershell.InitForWindow(w.window)
	layershell.SetLayer(w.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(w.window, 0)
	layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(w.window, "volbrt-osd")
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeBottom, true)

	w.buildUI()
	w.applyOptions()
	w.window.SetVisible(false)

	return w
}

// buildUI creates the icon and level bar widgets.
func (w *Window) buildUI() {
	w.icon = gtk.NewImageFromFile(w.icons.Path(IconVolumeNotMax))
	w.icon.SetPixelSize(48)
	w.icon.SetName("icon")

	w.level = gtk.NewBox(gtk.OrientationVertical, 0)
	w.level.SetName(BarName)

	w.levelBox = gtk.NewBox(gtk.OrientationHorizontal, 0)
	w.levelBox.SetName("volume-box")
	w.levelBox.Append(w.level)

	root := gtk.NewBox(gtk.OrientationHorizontal, 12)
	root.SetName("root")
	root.Append(w.icon)
	root.Append(w.levelBox)

	w.window.SetChild(root)
}

func (w *Window) applyOptions() {
	layershell.SetMargin(w.window, layershell.LayerShellEdgeBottom, w.opts.MarginBottom)
	w.levelBox.SetSizeRequest(w.opts.LevelWidth, -1)
}

// SetOptions updates placement and size, e.g. after a config reload.
func (w *Window) SetOptions(opts WindowOptions) {
	w.opts = opts
	w.applyOptions()
}

// Show renders req and makes the window visible.
func (w *Window) Show(req model.Request) {
	icon := DecideIcon(req.Kind, req.Level)
	bar := LevelBar(req.Kind, req.Level, w.opts.LevelWidth)

	w.icon.SetFromFile(w.icons.Path(icon))
	w.level.SetName(bar.Name)
	w.level.SetSizeRequest(bar.Width, -1)

	w.logger.Debug("showing overlay", "request", req.String(), "icon", icon.FileName(), "width", bar.Width)
	w.window.SetVisible(true)
}

// Hide hides the window.
func (w *Window) Hide() {
	w.window.SetVisible(false)
}

// Destroy releases the window.
func (w *Window) Destroy() {
	w.window.Destroy()
}

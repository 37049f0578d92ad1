package theme

import (
	"log/slog"
	"os"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader applies the overlay stylesheet to the display and reloads it
// when the file changes.
type Loader struct {
	mu       sync.Mutex
	logger   *slog.Logger
	provider *gtk.CSSProvider
	path     string
	sheet    *Stylesheet
}

// NewLoader creates a loader for the stylesheet at path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		provider: gtk.NewCSSProvider(),
		path:     path,
	}
}

// Load reads the stylesheet, falling back to the embedded default when the
// file is missing or unreadable.
func (l *Loader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path != "" {
		if _, err := os.Stat(l.path); err == nil {
			sheet, err := ReadStylesheet(l.path)
			if err == nil {
				l.sheet = sheet
				l.provider.LoadFromString(sheet.CSS)
				l.logger.Info("loaded stylesheet", "path", l.path)
				return nil
			}
			l.logger.Warn("failed to load stylesheet, using default", "path", l.path, "error", err)
		}
	}

	l.sheet = DefaultStylesheet()
	l.provider.LoadFromString(l.sheet.CSS)
	l.logger.Info("loaded default stylesheet")
	return nil
}

// Apply attaches the stylesheet to a display. A nil display uses the default.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply stylesheet")
		return
	}

	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}

// Reload re-reads the stylesheet and pushes changes to GTK. Must be called
// from the GTK main loop.
func (l *Loader) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sheet == nil || l.sheet.Embedded {
		return
	}

	changed, err := l.sheet.Refresh()
	if err != nil {
		l.logger.Warn("failed to reload stylesheet", "path", l.path, "error", err)
		return
	}
	if changed {
		l.provider.LoadFromString(l.sheet.CSS)
		l.logger.Info("hot-reloaded stylesheet", "path", l.path)
	}
}

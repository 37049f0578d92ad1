package display

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// embeddedIcons holds the default overlay icons.
//
//go:embed icons/*.svg
var embeddedIcons embed.FS

// Icons locates the materialized icon files.
type Icons struct {
	dir string
}

// IconsDir returns the icon directory under a config directory.
func IconsDir(configDir string) string {
	return filepath.Join(configDir, "icons")
}

// MaterializeIcons writes the default icons into dir. Existing files are
// never overwritten so users can replace any icon.
func MaterializeIcons(dir string) (Icons, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Icons{}, fmt.Errorf("create icon directory: %w", err)
	}

	for _, icon := range AllIcons {
		path := filepath.Join(dir, icon.FileName())
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Icons{}, fmt.Errorf("stat icon %s: %w", path, err)
		}

		data, err := embeddedIcons.ReadFile("icons/" + icon.FileName())
		if err != nil {
			return Icons{}, fmt.Errorf("read embedded icon %s: %w", icon.FileName(), err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return Icons{}, fmt.Errorf("write icon %s: %w", path, err)
		}
	}

	return Icons{dir: dir}, nil
}

// Path returns the file path of an icon.
func (i Icons) Path(icon Icon) string {
	return filepath.Join(i.dir, icon.FileName())
}

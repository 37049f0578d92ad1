package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed themes/*.css
var bundled embed.FS

// DefaultThemeName is the bundled theme written out as style.css.
const DefaultThemeName = "default"

// StylesheetName is the user stylesheet file name in the config directory.
const StylesheetName = "style.css"

// GetEmbeddedTheme returns the CSS of a bundled theme.
func GetEmbeddedTheme(name string) (string, bool) {
	data, err := bundled.ReadFile(path.Join("themes", name+".css"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// BundledThemeNames lists the bundled themes, sorted. Partials whose name
// starts with an underscore are left out.
func BundledThemeNames() []string {
	files, _ := fs.Glob(bundled, "themes/*.css")

	names := make([]string, 0, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".css")
		if !strings.HasPrefix(name, "_") {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// MaterializeStylesheet writes the default theme to dir/style.css unless
// the file already exists, and returns its path.
func MaterializeStylesheet(dir string) (string, error) {
	dest := filepath.Join(dir, StylesheetName)

	_, err := os.Stat(dest)
	switch {
	case err == nil:
		return dest, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("stat stylesheet: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	css, _ := GetEmbeddedTheme(DefaultThemeName)
	if err := os.WriteFile(dest, []byte(css), 0o644); err != nil {
		return "", fmt.Errorf("write stylesheet: %w", err)
	}
	return dest, nil
}

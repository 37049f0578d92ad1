package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// importPattern matches @import "x.css", @import 'x.css' and @import url("x.css").
var importPattern = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// maxImportDepth stops runaway import chains that the cycle check cannot see,
// such as symlinks pointing back up the tree.
const maxImportDepth = 8

// Stylesheet is the overlay CSS with every @import inlined, ready for a
// GTK CSS provider.
type Stylesheet struct {
	Path     string // empty when Embedded
	CSS      string
	Embedded bool
}

// ReadStylesheet loads the stylesheet at path.
func ReadStylesheet(path string) (*Stylesheet, error) {
	css, err := readInlined(path)
	if err != nil {
		return nil, err
	}
	return &Stylesheet{Path: path, CSS: css}, nil
}

// DefaultStylesheet returns the bundled default style.
func DefaultStylesheet() *Stylesheet {
	css, _ := GetEmbeddedTheme(DefaultThemeName)
	return &Stylesheet{CSS: css, Embedded: true}
}

// Refresh re-reads the file and reports whether the resulting CSS differs.
// Content is compared because editors can write twice within one mtime tick.
func (s *Stylesheet) Refresh() (bool, error) {
	if s.Embedded {
		return false, nil
	}
	css, err := readInlined(s.Path)
	if err != nil {
		return false, err
	}
	if css == s.CSS {
		return false, nil
	}
	s.CSS = css
	return true, nil
}

func readInlined(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return InlineImports(string(data), filepath.Dir(path)), nil
}

// InlineImports replaces each @import in css with the imported file,
// resolved against dir. A file that cannot be read falls back to the bundled
// theme of the same base name, so `@import "catppuccin.css";` works without
// copying the theme next to style.css.
func InlineImports(css, dir string) string {
	r := importResolver{visited: make(map[string]bool)}
	return r.inline(css, dir, 0)
}

type importResolver struct {
	visited map[string]bool
}

func (r *importResolver) inline(css, dir string, depth int) string {
	return importPattern.ReplaceAllStringFunc(css, func(stmt string) string {
		target := importPattern.FindStringSubmatch(stmt)[1]

		path := target
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		if r.visited[path] || depth >= maxImportDepth {
			return "/* skipped import " + target + ": cycle */"
		}
		r.visited[path] = true

		data, err := os.ReadFile(path)
		if err != nil {
			name := strings.TrimSuffix(filepath.Base(target), ".css")
			if bundled, ok := GetEmbeddedTheme(name); ok {
				return "/* " + target + " (bundled) */\n" + bundled
			}
			return "/* skipped import " + target + ": " + err.Error() + " */"
		}

		return "/* " + target + " */\n" + r.inline(string(data), filepath.Dir(path), depth+1)
	})
}

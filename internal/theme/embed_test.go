package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedTheme_Default(t *testing.T) {
	css, found := GetEmbeddedTheme("default")
	require.True(t, found, "default theme should be found")
	assert.Contains(t, css, "#level")
	// Should use Adwaita variables
	assert.Contains(t, css, "@window_bg_color")
	assert.Contains(t, css, "@accent_bg_color")
}

func TestGetEmbeddedTheme_NotFound(t *testing.T) {
	css, found := GetEmbeddedTheme("nonexistent")
	assert.False(t, found)
	assert.Empty(t, css)
}

func TestBundledThemeNames(t *testing.T) {
	assert.Equal(t, []string{"catppuccin", "default"}, BundledThemeNames())
}

func TestBundledThemes_StyleEveryWidget(t *testing.T) {
	widgets := []string{"#root", "#icon", "#volume-box", "#level", "#level-min", "#level-extended"}

	for _, name := range BundledThemeNames() {
		t.Run(name, func(t *testing.T) {
			css, found := GetEmbeddedTheme(name)
			require.True(t, found)

			for _, w := range widgets {
				assert.Contains(t, css, w+" {", "theme %s should style %s", name, w)
			}
			assert.Equal(t, strings.Count(css, "{"), strings.Count(css, "}"),
				"theme %s should have balanced braces", name)
		})
	}
}

func TestMaterializeStylesheet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "volbrt")

	path, err := MaterializeStylesheet(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "style.css"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	def, _ := GetEmbeddedTheme(DefaultThemeName)
	assert.Equal(t, def, string(data))
}

func TestMaterializeStylesheet_KeepsUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, StylesheetName)
	require.NoError(t, os.WriteFile(path, []byte("#root { color: red; }"), 0o644))

	got, err := MaterializeStylesheet(dir)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#root { color: red; }", string(data))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 11, cfg.Map.Zoom)
	assert.Equal(t, 20, cfg.Map.FitPadding)
	assert.Equal(t, "topleft", cfg.Map.LayerPosition)
	assert.True(t, cfg.Map.ControlScale)

	assert.Equal(t, "#2a5bd7", cfg.Present.Color)
	assert.Equal(t, 5.0, cfg.Present.Radius)
	assert.Equal(t, 0.7, cfg.Present.FillOpacity)

	assert.Equal(t, "#d00", cfg.Missing.Color)
	assert.Equal(t, 6.0, cfg.Missing.Radius)
	assert.Equal(t, 0.9, cfg.Missing.FillOpacity)

	assert.Equal(t, 280, cfg.Popup.MaxWidth)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zipmap.yaml")
	data := []byte(`
map:
  zoom: 9
missing:
  color: "#ff8800"
minify: false
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Map.Zoom)
	assert.Equal(t, "#ff8800", cfg.Missing.Color)
	assert.False(t, cfg.Minify)

	assert.Equal(t, 6.0, cfg.Missing.Radius, "untouched fields keep defaults")
	assert.Equal(t, "#2a5bd7", cfg.Present.Color)
	assert.Equal(t, 20, cfg.Map.FitPadding)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown field", "map:\n  colour: red\n", "parse config"},
		{"bad position", "map:\n  layer_position: middle\n", "layer_position"},
		{"zoom out of range", "map:\n  zoom: 42\n", "map.zoom"},
		{"negative radius", "present:\n  radius: -1\n", "present.radius"},
		{"opacity above one", "missing:\n  fill_opacity: 1.5\n", "missing.fill_opacity"},
		{"preview size", "preview:\n  enabled: true\n  size: 0\n", "preview.size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

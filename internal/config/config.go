// Package config handles configuration loading and shared data structures.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Map     MapOptions   `yaml:"map"`
	Present MarkerStyle  `yaml:"present"`
	Missing MarkerStyle  `yaml:"missing"`
	Popup   PopupOptions `yaml:"popup"`
	Preview Preview      `yaml:"preview"`
	Minify  bool         `yaml:"minify"`
}

// MapOptions controls the base map and its controls.
type MapOptions struct {
	Title         string `yaml:"title"`
	TileURL       string `yaml:"tile_url"`
	Attribution   string `yaml:"attribution"`
	LayerPosition string `yaml:"layer_position"`
	Zoom          int    `yaml:"zoom"`
	MaxZoom       int    `yaml:"max_zoom"`
	FitPadding    int    `yaml:"fit_padding"`
	ControlScale  bool   `yaml:"control_scale"`
}

// MarkerStyle is the circle marker look of one layer.
type MarkerStyle struct {
	Layer       string  `yaml:"layer"`
	Label       string  `yaml:"label"`
	Color       string  `yaml:"color"`
	Radius      float64 `yaml:"radius"`
	FillOpacity float64 `yaml:"fill_opacity"`
	Weight      float64 `yaml:"weight"`
}

// PopupOptions controls the click pop-up.
type PopupOptions struct {
	MissingText string `yaml:"missing_text"`
	MaxWidth    int    `yaml:"max_width"`
}

// Preview controls the static raster embedded for clients without JavaScript.
type Preview struct {
	Size    int  `yaml:"size"`
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Map: MapOptions{
			Title:         "ZipCode map",
			TileURL:       "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution:   `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
			LayerPosition: "topleft",
			Zoom:          11,
			MaxZoom:       19,
			FitPadding:    20,
			ControlScale:  true,
		},
		Present: MarkerStyle{
			Layer:       "ZipCode present",
			Label:       "Zip",
			Color:       "#2a5bd7",
			Radius:      5,
			FillOpacity: 0.7,
			Weight:      1,
		},
		Missing: MarkerStyle{
			Layer:       "ZipCode missing",
			Label:       "Manquant",
			Color:       "#d00",
			Radius:      6,
			FillOpacity: 0.9,
			Weight:      1,
		},
		Popup: PopupOptions{
			MissingText: "(missing)",
			MaxWidth:    280,
		},
		Preview: Preview{
			Enabled: true,
			Size:    512,
		},
		Minify: true,
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Fields absent from the file keep their Default values. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values a YAML file could have broken.
func (c *Config) Validate() error {
	switch c.Map.LayerPosition {
	case "topleft", "topright", "bottomleft", "bottomright":
	default:
		return fmt.Errorf("map.layer_position %q: must be topleft, topright, bottomleft or bottomright", c.Map.LayerPosition)
	}

	if c.Map.Zoom < 0 || c.Map.Zoom > c.Map.MaxZoom {
		return fmt.Errorf("map.zoom %d: must be within 0..%d", c.Map.Zoom, c.Map.MaxZoom)
	}

	for name, s := range map[string]MarkerStyle{"present": c.Present, "missing": c.Missing} {
		if s.Radius <= 0 {
			return fmt.Errorf("%s.radius must be > 0", name)
		}
		if s.FillOpacity < 0 || s.FillOpacity > 1 {
			return fmt.Errorf("%s.fill_opacity must be within 0..1", name)
		}
		if s.Color == "" {
			return fmt.Errorf("%s.color must be set", name)
		}
	}

	if c.Preview.Enabled && c.Preview.Size <= 0 {
		return errors.New("preview.size must be > 0")
	}

	return nil
}

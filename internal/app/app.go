// Package app wires table loading, map building and page output together.
package app

import (
	"fmt"
	"io"

	"github.com/woozymasta/zipmap/internal/config"
	"github.com/woozymasta/zipmap/internal/output"
	"github.com/woozymasta/zipmap/internal/points"
	"github.com/woozymasta/zipmap/internal/render"
	"github.com/woozymasta/zipmap/internal/table"

	"github.com/rs/zerolog/log"
)

// Params is one run of the map pipeline.
type Params struct {
	Config *config.Config
	// Open shows the written page, nil skips it.
	Open output.Opener
	CSV  string
	// Sep is the field separator, 0 triggers detection.
	Sep rune
	// Out is the destination file, empty writes a temporary file.
	Out     string
	TempDir string
	// Sample caps the rendered rows, nil disables the cap.
	Sample *int
	Seed   uint64
}

// Run loads the table, builds the map, writes the page and opens it.
// It returns the path of the written page. A browser that fails to open is
// only logged, the page is complete at that point.
func Run(p Params) (string, error) {
	if p.Sample != nil && *p.Sample < 0 {
		return "", fmt.Errorf("sample %d must be >= 0", *p.Sample)
	}

	cfg := p.Config
	if cfg == nil {
		cfg = config.Default()
	}

	sep := p.Sep
	if sep == 0 {
		var err error
		if sep, err = table.DetectSeparator(p.CSV); err != nil {
			return "", err
		}
	}

	tbl, err := table.Load(p.CSV, sep)
	if err != nil {
		return "", err
	}

	log.Info().
		Str("path", p.CSV).
		Str("sep", table.SeparatorName(sep)).
		Int("rows", tbl.Len()).
		Msg("Table loaded")

	doc, err := points.Build(tbl, points.BuildOptions{Sample: p.Sample, Seed: p.Seed})
	if err != nil {
		return "", err
	}

	logger := log.Info().
		Int("present", len(doc.Layer(points.Present).Markers)).
		Int("missing", len(doc.Layer(points.Missing).Markers))
	if p.Sample != nil {
		logger = logger.Int("sampled", *p.Sample)
	}
	logger.Msg("Map built")

	if doc.Len() == 0 {
		log.Warn().Str("path", p.CSV).Msg("No row has both coordinates, the map is empty")
	}

	r, err := render.New(cfg)
	if err != nil {
		return "", err
	}
	renderDoc := func(w io.Writer) error { return r.Render(w, doc) }

	path := p.Out
	if path == "" {
		path, err = output.WriteTemp(p.TempDir, renderDoc)
	} else {
		err = output.WriteFile(path, renderDoc)
	}
	if err != nil {
		return "", err
	}

	log.Debug().Str("path", path).Msg("Map written")

	if p.Open != nil {
		if err := p.Open(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to open browser, open the file manually")
		}
	}

	return path, nil
}

// Package render builds the self-contained HTML page of a map document.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/woozymasta/zipmap/assets"
	"github.com/woozymasta/zipmap/internal/config"
	"github.com/woozymasta/zipmap/internal/geo"
	"github.com/woozymasta/zipmap/internal/points"
	"github.com/woozymasta/zipmap/internal/preview"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	mhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const (
	mimeCSS  = "text/css"
	mimeHTML = "text/html"
	mimeJS   = "text/javascript"
)

// PageData feeds the page template.
type PageData struct {
	Title    string
	CSS      string
	JS       string
	Options  string // JSON
	Features string // GeoJSON
	Preview  string // data URI, empty when disabled
}

// Renderer turns documents into HTML pages for one configuration.
type Renderer struct {
	cfg  *config.Config
	tmpl *template.Template
	min  *minify.M
}

// New parses the embedded page template.
func New(cfg *config.Config) (*Renderer, error) {
	tmpl, err := template.New("map").Parse(assets.Template)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	m := minify.New()
	m.AddFunc(mimeCSS, css.Minify)
	m.AddFunc(mimeHTML, mhtml.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)

	return &Renderer{cfg: cfg, tmpl: tmpl, min: m}, nil
}

// Render writes the complete page for doc to w.
func (r *Renderer) Render(w io.Writer, doc *points.Document) error {
	data, err := r.pageData(doc)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	if !r.cfg.Minify {
		_, err := w.Write(buf.Bytes())
		return err
	}

	if err := r.min.Minify(mimeHTML, w, &buf); err != nil {
		return fmt.Errorf("minify HTML: %w", err)
	}

	return nil
}

func (r *Renderer) pageData(doc *points.Document) (PageData, error) {
	data := PageData{
		Title: r.cfg.Map.Title,
		CSS:   assets.Style,
		JS:    assets.Script,
	}

	if r.cfg.Minify {
		var err error
		if data.CSS, err = r.min.String(mimeCSS, data.CSS); err != nil {
			return PageData{}, fmt.Errorf("minify CSS: %w", err)
		}
		if data.JS, err = r.min.String(mimeJS, data.JS); err != nil {
			return PageData{}, fmt.Errorf("minify JS: %w", err)
		}
	}

	opts, err := json.Marshal(r.Options(doc))
	if err != nil {
		return PageData{}, fmt.Errorf("marshal options: %w", err)
	}
	data.Options = string(opts)

	features, err := json.Marshal(r.Features(doc))
	if err != nil {
		return PageData{}, fmt.Errorf("marshal features: %w", err)
	}
	data.Features = string(features)

	if r.cfg.Preview.Enabled {
		if data.Preview, err = preview.DataURI(doc, r.cfg); err != nil {
			return PageData{}, fmt.Errorf("render preview: %w", err)
		}
		log.Debug().Int("bytes", len(data.Preview)).Msg("Preview image embedded")
	}

	return data, nil
}

// LayerOptions describes one toggleable overlay.
type LayerOptions struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	Show  bool   `json:"show"`
}

// Options is the map setup consumed by the page script.
type Options struct {
	Bounds        *[2][2]float64 `json:"bounds"`
	TileURL       string         `json:"tileURL"`
	Attribution   string         `json:"attribution"`
	LayerPosition string         `json:"layerPosition"`
	Layers        []LayerOptions `json:"layers"`
	Center        [2]float64     `json:"center"`
	Padding       [2]int         `json:"padding"`
	Zoom          int            `json:"zoom"`
	MaxZoom       int            `json:"maxZoom"`
	PopupMaxWidth int            `json:"popupMaxWidth"`
	ControlScale  bool           `json:"controlScale"`
}

// Options returns the map setup for doc. Bounds is nil for an empty document.
func (r *Renderer) Options(doc *points.Document) Options {
	o := Options{
		Center:        [2]float64{doc.Center.Lat, doc.Center.Lon},
		Zoom:          r.cfg.Map.Zoom,
		MaxZoom:       r.cfg.Map.MaxZoom,
		TileURL:       r.cfg.Map.TileURL,
		Attribution:   r.cfg.Map.Attribution,
		ControlScale:  r.cfg.Map.ControlScale,
		LayerPosition: r.cfg.Map.LayerPosition,
		Padding:       [2]int{r.cfg.Map.FitPadding, r.cfg.Map.FitPadding},
		PopupMaxWidth: r.cfg.Popup.MaxWidth,
	}

	for _, c := range points.Classes {
		o.Layers = append(o.Layers, LayerOptions{
			Name:  r.style(c).Layer,
			Class: c.String(),
			Show:  true,
		})
	}

	if doc.HasBounds {
		o.Bounds = &[2][2]float64{
			{doc.Bounds.SouthWest.Lat, doc.Bounds.SouthWest.Lon},
			{doc.Bounds.NorthEast.Lat, doc.Bounds.NorthEast.Lon},
		}
	}

	return o
}

// Features returns one styled GeoJSON point per marker, grouped by layer.
func (r *Renderer) Features(doc *points.Document) geo.FeatureCollection {
	fc := geo.NewFeatureCollection(doc.Len())

	for _, c := range points.Classes {
		s := r.style(c)
		for _, m := range doc.Layer(c).Markers {
			fc.Features = append(fc.Features, geo.NewPoint(m.Latitude, m.Longitude, map[string]any{
				"class":       c.String(),
				"index":       m.Index,
				"zip":         m.ZipClean,
				"radius":      s.Radius,
				"color":       s.Color,
				"fillColor":   s.Color,
				"fillOpacity": s.FillOpacity,
				"weight":      s.Weight,
				"tooltip":     Tooltip(s.Label, m),
				"popup":       r.Popup(m),
			}))
		}
	}

	return fc
}

// Tooltip is the hover label of a marker: "<label> • <code>".
func Tooltip(label string, m points.CleanedRecord) string {
	return html.EscapeString(label + " • " + m.ZipClean)
}

// Popup is the click pop-up body of a marker, one labeled line per field.
func (r *Renderer) Popup(m points.CleanedRecord) string {
	zip := m.ZipClean
	if m.IsMissing {
		zip = r.cfg.Popup.MissingText
	}

	var b strings.Builder
	line := func(label, value string) {
		b.WriteString("<b>")
		b.WriteString(label)
		b.WriteString("</b> ")
		b.WriteString(html.EscapeString(value))
		b.WriteString("<br>")
	}

	line("Index", strconv.Itoa(m.Index))
	line(points.ColLatitude, strconv.FormatFloat(m.Latitude, 'f', 6, 64))
	line(points.ColLongitude, strconv.FormatFloat(m.Longitude, 'f', 6, 64))
	line(points.ColZipCode, zip)

	return b.String()
}

func (r *Renderer) style(c points.Class) config.MarkerStyle {
	if c == points.Missing {
		return r.cfg.Missing
	}
	return r.cfg.Present
}

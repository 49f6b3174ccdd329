// Package preview rasterizes a map document into a small static WebP image.
package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/zipmap/internal/config"
	"github.com/woozymasta/zipmap/internal/geo"
	"github.com/woozymasta/zipmap/internal/points"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// supersample is the factor the canvas is drawn at before downscaling.
const supersample = 2

// Background fills the canvas behind the markers.
var Background = color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf0, A: 0xff}

// Render draws every marker of doc onto a size x size image using the Web
// Mercator projection. Missing markers are drawn last so they stay on top.
func Render(doc *points.Document, cfg *config.Config) (*image.RGBA, error) {
	size := cfg.Preview.Size
	if size <= 0 {
		return nil, fmt.Errorf("preview size %d must be > 0", size)
	}

	styles := map[points.Class]config.MarkerStyle{
		points.Present: cfg.Present,
		points.Missing: cfg.Missing,
	}

	maxRadius := 0.0
	fills := make(map[points.Class]color.NRGBA, len(styles))
	for c, s := range styles {
		col, err := ParseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("%s color: %w", c, err)
		}
		col.A = uint8(math.Round(s.FillOpacity * 0xff))
		fills[c] = col
		maxRadius = math.Max(maxRadius, s.Radius)
	}

	canvasSize := size * supersample
	canvas := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)

	proj := newProjection(doc, float64(canvasSize), maxRadius*supersample+2)
	for _, c := range points.Classes {
		layer := doc.Layer(c)
		src := &image.Uniform{C: fills[c]}
		r := styles[c].Radius * supersample

		for _, m := range layer.Markers {
			px, py := proj.apply(m.Latitude, m.Longitude)
			d := disc{x: px, y: py, r: r}
			draw.DrawMask(canvas, d.Bounds(), src, image.Point{}, d, d.Bounds().Min, draw.Over)
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)

	return out, nil
}

// EncodeWebP writes img as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: true})
}

// DataURI renders doc and returns it as a base64 WebP data URI.
func DataURI(doc *points.Document, cfg *config.Config) (string, error) {
	img, err := Render(doc, cfg)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := EncodeWebP(&buf, img); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	return "data:image/webp;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ParseColor parses #rgb and #rrggbb colors.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// projection maps lat/lon to canvas pixels, keeping the aspect ratio of the
// projected extent and centering it.
type projection struct {
	minX, minY float64
	scale      float64
	offX, offY float64
}

func newProjection(doc *points.Document, canvas, margin float64) projection {
	p := projection{}
	if !doc.HasBounds {
		return p
	}

	// y grows south, so the north-west corner is the projected minimum
	x0, y0 := geo.LatLonToMercator(doc.Bounds.NorthEast.Lat, doc.Bounds.SouthWest.Lon)
	x1, y1 := geo.LatLonToMercator(doc.Bounds.SouthWest.Lat, doc.Bounds.NorthEast.Lon)

	dx, dy := x1-x0, y1-y0
	span := math.Max(dx, dy)
	if span <= 0 {
		span = 1e-9
	}

	usable := math.Max(canvas-2*margin, 1)
	p.minX, p.minY = x0, y0
	p.scale = usable / span
	p.offX = margin + (usable-dx*p.scale)/2
	p.offY = margin + (usable-dy*p.scale)/2

	return p
}

func (p projection) apply(lat, lon float64) (float64, float64) {
	x, y := geo.LatLonToMercator(lat, lon)
	return p.offX + (x-p.minX)*p.scale, p.offY + (y-p.minY)*p.scale
}

// disc is an alpha mask of a filled circle.
type disc struct {
	x, y, r float64
}

func (d disc) ColorModel() color.Model { return color.AlphaModel }

func (d disc) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(d.x-d.r)), int(math.Floor(d.y-d.r)),
		int(math.Ceil(d.x+d.r))+1, int(math.Ceil(d.y+d.r))+1,
	)
}

func (d disc) At(x, y int) color.Color {
	fx, fy := float64(x)+0.5-d.x, float64(y)+0.5-d.y
	if fx*fx+fy*fy <= d.r*d.r {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

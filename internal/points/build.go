package points

import (
	"slices"

	"github.com/woozymasta/zipmap/internal/geo"
)

// Table is the tabular input of Build.
type Table interface {
	// Columns returns the header names in file order.
	Columns() []string
	// Records returns every data row restricted to RequiredColumns.
	Records() ([]Record, error)
}

// BuildOptions tunes Build.
type BuildOptions struct {
	// Sample caps the number of rendered rows, nil disables the cap.
	Sample *int
	// Seed feeds the downsampling PRNG.
	Seed uint64
}

// Layer is one toggleable group of markers.
type Layer struct {
	Markers []CleanedRecord
	Class   Class
}

// Document is the data of a rendered map: view center, extent and the two
// marker layers indexed by Class.
type Document struct {
	Layers    [len(Classes)]Layer
	Center    geo.Point
	Bounds    geo.Bounds
	HasBounds bool
}

// Len returns the number of markers across all layers.
func (d *Document) Len() int {
	n := 0
	for _, l := range d.Layers {
		n += len(l.Markers)
	}
	return n
}

// Layer returns the layer for c.
func (d *Document) Layer(c Class) *Layer {
	return &d.Layers[c]
}

// MissingColumns returns the sorted RequiredColumns absent from cols.
func MissingColumns(cols []string) []string {
	var missing []string
	for _, req := range RequiredColumns {
		if !slices.Contains(cols, req) {
			missing = append(missing, req)
		}
	}
	slices.Sort(missing)
	return missing
}

// Build filters, samples and cleans the rows of tbl and groups them into layers.
// Rows without both coordinates are dropped, rows without a postal code are kept
// and land in the Missing layer.
func Build(tbl Table, opts BuildOptions) (*Document, error) {
	if missing := MissingColumns(tbl.Columns()); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	recs, err := tbl.Records()
	if err != nil {
		return nil, err
	}

	kept := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.HasCoordinates() {
			kept = append(kept, r)
		}
	}

	if opts.Sample != nil {
		kept = Sample(kept, *opts.Sample, opts.Seed)
	}

	cleaned := make([]CleanedRecord, 0, len(kept))
	pts := make([]geo.Point, 0, len(kept))
	for _, r := range kept {
		c, err := Clean(r)
		if err != nil {
			return nil, err
		}
		cleaned = append(cleaned, c)
		pts = append(pts, geo.Point{Lat: c.Latitude, Lon: c.Longitude})
	}

	doc := &Document{Layers: Group(cleaned)}
	doc.Center, _ = geo.Centroid(pts)
	doc.Bounds, doc.HasBounds = geo.BoundsOf(pts)

	return doc, nil
}

// Group assigns every record to exactly one layer using Classify.
func Group(recs []CleanedRecord) [len(Classes)]Layer {
	var layers [len(Classes)]Layer
	for _, c := range Classes {
		layers[c].Class = c
	}
	for _, r := range recs {
		c := Classify(r)
		layers[c].Markers = append(layers[c].Markers, r)
	}
	return layers
}

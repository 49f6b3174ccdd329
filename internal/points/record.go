// Package points turns table rows into classified map markers.
package points

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Required column names, matched case-sensitively.
const (
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
	ColZipCode   = "ZipCode"
)

// RequiredColumns lists the columns every input table must carry.
var RequiredColumns = []string{ColLatitude, ColLongitude, ColZipCode}

// zipWidth is the left-padded width of a cleaned postal code.
const zipWidth = 5

var digitRun = regexp.MustCompile(`[0-9]+`)

// Field is one raw table cell.
type Field struct {
	Value string
	Null  bool
}

// Value returns a non-null field.
func Value(s string) Field { return Field{Value: s} }

// Null returns a null field.
func Null() Field { return Field{Null: true} }

// Record is one input row restricted to the required columns.
// Index is the 0-based position of the row among the data rows of the table.
type Record struct {
	Latitude  Field
	Longitude Field
	ZipCode   Field
	Index     int
}

// HasCoordinates reports whether both coordinates are present.
func (r Record) HasCoordinates() bool {
	return !r.Latitude.Null && !r.Longitude.Null
}

// CleanedRecord is a Record with parsed coordinates and a normalized postal code.
// IsMissing is true exactly when ZipClean is empty.
type CleanedRecord struct {
	ZipClean  string
	Index     int
	Latitude  float64
	Longitude float64
	IsMissing bool
}

// Class is the layer a marker belongs to.
type Class int

const (
	Present Class = iota
	Missing
)

// Classes lists every class in layer order.
var Classes = [...]Class{Present, Missing}

func (c Class) String() string {
	switch c {
	case Present:
		return "present"
	case Missing:
		return "missing"
	default:
		return "class(" + strconv.Itoa(int(c)) + ")"
	}
}

// Classify decides the layer of a cleaned record.
func Classify(r CleanedRecord) Class {
	if r.IsMissing {
		return Missing
	}
	return Present
}

// CleanZip extracts the first run of digits of a raw postal code and left-pads
// it with zeros to five characters. Longer runs are kept whole.
// ok is false for null values and values without any digit.
func CleanZip(f Field) (zip string, ok bool) {
	if f.Null {
		return "", false
	}

	run := digitRun.FindString(f.Value)
	if run == "" {
		return "", false
	}

	if len(run) < zipWidth {
		run = strings.Repeat("0", zipWidth-len(run)) + run
	}

	return run, true
}

// Clean parses the coordinates of r and normalizes its postal code.
// Malformed coordinates are returned as errors wrapping *strconv.NumError.
func Clean(r Record) (CleanedRecord, error) {
	lat, err := parseCoord(r.Latitude)
	if err != nil {
		return CleanedRecord{}, fmt.Errorf("row %d: %s: %w", r.Index, ColLatitude, err)
	}

	lon, err := parseCoord(r.Longitude)
	if err != nil {
		return CleanedRecord{}, fmt.Errorf("row %d: %s: %w", r.Index, ColLongitude, err)
	}

	zip, ok := CleanZip(r.ZipCode)

	return CleanedRecord{
		Index:     r.Index,
		Latitude:  lat,
		Longitude: lon,
		ZipClean:  zip,
		IsMissing: !ok,
	}, nil
}

func parseCoord(f Field) (float64, error) {
	if f.Null {
		return 0, fmt.Errorf("null coordinate")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", ErrNonFiniteCoordinate, f.Value)
	}
	return v, nil
}

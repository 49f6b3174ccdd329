// Package table loads delimited text files into a dataframe and exposes the
// rows needed to draw postal code markers.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/woozymasta/zipmap/internal/points"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/unicode/norm"
)

// nullTokens are read as missing values: the pandas na_values defaults plus
// gota's own "<nil>".
var nullTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null", "<nil>",
}

// Table is a fully materialized delimited file. All columns are kept as strings.
type Table struct {
	df      dataframe.DataFrame
	columns []string
	rows    int
}

// Columns returns the header names in file order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return t.rows
}

// HasColumns reports whether every name is a column of t.
func (t *Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if !slices.Contains(t.columns, n) {
			return false
		}
	}
	return true
}

// Records returns every row restricted to points.RequiredColumns.
func (t *Table) Records() ([]points.Record, error) {
	if missing := points.MissingColumns(t.columns); len(missing) > 0 {
		return nil, &points.MissingColumnsError{Columns: missing}
	}

	recs := make([]points.Record, t.rows)
	if t.rows == 0 {
		return recs, nil
	}

	// gota renames repeated header names, so columns are addressed by the
	// position of their first occurrence in the raw header
	lat := slices.Index(t.columns, points.ColLatitude)
	lon := slices.Index(t.columns, points.ColLongitude)
	zip := slices.Index(t.columns, points.ColZipCode)

	for i := range recs {
		recs[i] = points.Record{
			Index:     i,
			Latitude:  field(t.df.Elem(i, lat)),
			Longitude: field(t.df.Elem(i, lon)),
			ZipCode:   field(t.df.Elem(i, zip)),
		}
	}

	return recs, nil
}

func field(e series.Element) points.Field {
	if e.IsNA() {
		return points.Null()
	}
	return points.Value(e.String())
}

// Load reads the whole file at path using sep as the field delimiter.
func Load(path string, sep rune) (*Table, error) {
	return LoadFile(path, sep, 0)
}

// LoadFile reads the header and at most limit data rows of path.
// limit <= 0 reads everything.
func LoadFile(path string, sep rune, limit int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = f.Close() }()

	return LoadReader(f, sep, limit)
}

// LoadReader parses a delimited table with a header row from r.
// Rows shorter than the header are padded with nulls, longer rows are an error.
func LoadReader(r io.Reader, sep rune, limit int) (*Table, error) {
	cr := csv.NewReader(decode(r))
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = norm.NFC.String(h)
	}

	records := [][]string{header}
	for limit <= 0 || len(records)-1 < limit {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)-1, err)
		}

		switch {
		case len(row) > len(header):
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w: expected %d fields, saw %d", line, ErrRaggedRow, len(header), len(row))
		case len(row) < len(header):
			row = append(row, make([]string, len(header)-len(row))...)
		}

		records = append(records, row)
	}

	t := &Table{columns: header, rows: len(records) - 1}
	if t.rows == 0 {
		return t, nil
	}

	t.df = dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nullTokens),
	)
	if t.df.Err != nil {
		return nil, fmt.Errorf("load dataframe: %w", t.df.Err)
	}

	return t, nil
}

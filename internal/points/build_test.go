package points

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTable struct {
	err     error
	columns []string
	records []Record
}

func (f fakeTable) Columns() []string          { return f.columns }
func (f fakeTable) Records() ([]Record, error) { return f.records, f.err }

func rec(i int, lat, lon, zip string) Record {
	field := func(s string) Field {
		if s == "" {
			return Null()
		}
		return Value(s)
	}
	return Record{Index: i, Latitude: field(lat), Longitude: field(lon), ZipCode: field(zip)}
}

func limit(n int) *int { return &n }

func table(recs ...Record) fakeTable {
	return fakeTable{columns: []string{"Id", ColLatitude, ColLongitude, ColZipCode}, records: recs}
}

func TestBuildScenario(t *testing.T) {
	doc, err := Build(table(
		rec(0, "47.6", "-122.3", "98101"),
		rec(1, "47.61", "-122.31", ""),
	), BuildOptions{Seed: DefaultSeed})
	require.NoError(t, err)

	present := doc.Layer(Present).Markers
	missing := doc.Layer(Missing).Markers
	require.Len(t, present, 1)
	require.Len(t, missing, 1)

	assert.Equal(t, "98101", present[0].ZipClean)
	assert.Equal(t, 0, present[0].Index)
	assert.Equal(t, 1, missing[0].Index)
	assert.True(t, missing[0].IsMissing)

	assert.InDelta(t, 47.605, doc.Center.Lat, 1e-9)
	assert.InDelta(t, -122.305, doc.Center.Lon, 1e-9)

	require.True(t, doc.HasBounds)
	assert.Equal(t, 47.6, doc.Bounds.SouthWest.Lat)
	assert.Equal(t, -122.31, doc.Bounds.SouthWest.Lon)
	assert.Equal(t, 47.61, doc.Bounds.NorthEast.Lat)
	assert.Equal(t, -122.3, doc.Bounds.NorthEast.Lon)
}

func TestBuildMissingColumns(t *testing.T) {
	_, err := Build(fakeTable{columns: []string{ColLatitude, ColLongitude}}, BuildOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)

	var mcErr *MissingColumnsError
	require.ErrorAs(t, err, &mcErr)
	assert.Equal(t, []string{ColZipCode}, mcErr.Columns)
	assert.Equal(t, "missing columns: [ZipCode]", err.Error())

	_, err = Build(fakeTable{columns: []string{"lat", "zip"}}, BuildOptions{})
	require.ErrorAs(t, err, &mcErr)
	assert.Equal(t, []string{ColLatitude, ColLongitude, ColZipCode}, mcErr.Columns)
}

func TestBuildDropsOnlyRowsWithoutCoordinates(t *testing.T) {
	doc, err := Build(table(
		rec(0, "1", "1", "11111"),
		rec(1, "", "2", "22222"),
		rec(2, "3", "", "33333"),
		rec(3, "", "", ""),
		rec(4, "5", "5", ""),
		rec(5, "6", "6", "no zip"),
	), BuildOptions{})
	require.NoError(t, err)

	var got []int
	for _, c := range Classes {
		for _, m := range doc.Layer(c).Markers {
			got = append(got, m.Index)
		}
	}
	assert.ElementsMatch(t, []int{0, 4, 5}, got)
	assert.Equal(t, 3, doc.Len())
	assert.Len(t, doc.Layer(Missing).Markers, 2)
}

func TestBuildEveryMarkerInExactlyOneLayer(t *testing.T) {
	var recs []Record
	for i := 0; i < 50; i++ {
		zip := ""
		if i%3 != 0 {
			zip = fmt.Sprintf("%d", i*7)
		}
		recs = append(recs, rec(i, fmt.Sprintf("%d.5", i), "10", zip))
	}

	doc, err := Build(table(recs...), BuildOptions{})
	require.NoError(t, err)

	seen := make(map[int]Class)
	for _, c := range Classes {
		layer := doc.Layer(c)
		assert.Equal(t, c, layer.Class)
		for _, m := range layer.Markers {
			_, dup := seen[m.Index]
			require.False(t, dup, "row %d rendered twice", m.Index)
			seen[m.Index] = c
			assert.Equal(t, Classify(m), c)
			assert.Equal(t, m.IsMissing, m.ZipClean == "")
		}
	}
	assert.Len(t, seen, len(recs))
}

func TestBuildCenterIsMeanOfRetainedRows(t *testing.T) {
	doc, err := Build(table(
		rec(0, "10", "100", "1"),
		rec(1, "20", "200", ""),
		rec(2, "", "999", "3"),
		rec(3, "30", "300", "4"),
	), BuildOptions{})
	require.NoError(t, err)

	assert.InDelta(t, 20.0, doc.Center.Lat, 1e-9)
	assert.InDelta(t, 200.0, doc.Center.Lon, 1e-9)
}

func TestBuildSample(t *testing.T) {
	var recs []Record
	for i := 0; i < 10; i++ {
		recs = append(recs, rec(i, fmt.Sprintf("%d", i), fmt.Sprintf("%d", -i), "98101"))
	}

	first, err := Build(table(recs...), BuildOptions{Sample: limit(1), Seed: DefaultSeed})
	require.NoError(t, err)
	require.Equal(t, 1, first.Len())

	again, err := Build(table(recs...), BuildOptions{Sample: limit(1), Seed: DefaultSeed})
	require.NoError(t, err)
	assert.Equal(t, first, again, "same input and seed select the same row")

	m := first.Layer(Present).Markers[0]
	assert.Equal(t, float64(m.Index), first.Center.Lat, "center follows the sampled row")

	all, err := Build(table(recs...), BuildOptions{Sample: limit(10), Seed: DefaultSeed})
	require.NoError(t, err)
	assert.Equal(t, 10, all.Len(), "cap equal to row count keeps everything")
}

func TestBuildSampleAppliesAfterCoordinateFilter(t *testing.T) {
	doc, err := Build(table(
		rec(0, "", "1", "1"),
		rec(1, "", "1", "1"),
		rec(2, "2", "2", "2"),
	), BuildOptions{Sample: limit(1)})
	require.NoError(t, err)
	require.Equal(t, 1, doc.Len())
	assert.Equal(t, 2, doc.Layer(Present).Markers[0].Index)
}

func TestBuildEmpty(t *testing.T) {
	doc, err := Build(table(rec(0, "", "", "98101")), BuildOptions{})
	require.NoError(t, err)
	assert.Zero(t, doc.Len())
	assert.False(t, doc.HasBounds)
}

func TestBuildPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Build(fakeTable{columns: RequiredColumns, err: boom}, BuildOptions{})
	assert.ErrorIs(t, err, boom)

	_, err = Build(table(rec(0, "47.6", "abc", "98101")), BuildOptions{})
	assert.ErrorContains(t, err, "row 0: Longitude")
}

func TestBuildSampleZeroDrawsNothing(t *testing.T) {
	doc, err := Build(table(
		rec(0, "1", "1", "11111"),
		rec(1, "2", "2", ""),
	), BuildOptions{Sample: limit(0), Seed: DefaultSeed})
	require.NoError(t, err)
	assert.Zero(t, doc.Len())
	assert.False(t, doc.HasBounds)

	doc, err = Build(table(rec(0, "1", "1", "11111")), BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len(), "no cap without a sample size")
}

func TestBuildRejectsNonFiniteCoordinates(t *testing.T) {
	for _, v := range []string{"inf", "-Inf", "+infinity"} {
		_, err := Build(table(rec(4, v, "1", "98101")), BuildOptions{})
		require.ErrorIs(t, err, ErrNonFiniteCoordinate, v)
		assert.ErrorContains(t, err, "row 4: Latitude")
	}

	_, err := Build(table(rec(2, "1", "-inf", "98101")), BuildOptions{})
	require.ErrorIs(t, err, ErrNonFiniteCoordinate)
	assert.ErrorContains(t, err, "row 2: Longitude")
}

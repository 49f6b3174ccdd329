package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexes(recs []Record) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.Index
	}
	return out
}

func TestSample(t *testing.T) {
	recs := make([]Record, 100)
	for i := range recs {
		recs[i].Index = i
	}

	t.Run("no cap", func(t *testing.T) {
		assert.Equal(t, recs, Sample(recs, -5, DefaultSeed))
		assert.Equal(t, recs, Sample(recs, 100, DefaultSeed))
		assert.Equal(t, recs, Sample(recs, 500, DefaultSeed))
	})

	t.Run("zero draws nothing", func(t *testing.T) {
		assert.Empty(t, Sample(recs, 0, DefaultSeed))
	})

	t.Run("exact size without duplicates", func(t *testing.T) {
		got := Sample(recs, 25, DefaultSeed)
		require.Len(t, got, 25)

		seen := make(map[int]bool)
		for _, idx := range indexes(got) {
			assert.False(t, seen[idx])
			seen[idx] = true
		}
	})

	t.Run("deterministic per seed", func(t *testing.T) {
		assert.Equal(t, indexes(Sample(recs, 10, 42)), indexes(Sample(recs, 10, 42)))
		assert.NotEqual(t, indexes(Sample(recs, 10, 42)), indexes(Sample(recs, 10, 7)))
	})

	t.Run("input untouched", func(t *testing.T) {
		_ = Sample(recs, 10, DefaultSeed)
		for i, r := range recs {
			require.Equal(t, i, r.Index)
		}
	})
}

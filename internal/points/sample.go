package points

import "math/rand/v2"

// DefaultSeed keeps downsampling reproducible between runs.
const DefaultSeed uint64 = 42

// Sample returns n records drawn uniformly without replacement using a PRNG
// seeded with seed. recs is returned unchanged when n < 0 or len(recs) <= n.
func Sample(recs []Record, n int, seed uint64) []Record {
	if n < 0 || len(recs) <= n {
		return recs
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	// partial Fisher-Yates over an index slice, recs stays untouched
	idx := make([]int, len(recs))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	out := make([]Record, n)
	for i, j := range idx[:n] {
		out[i] = recs[j]
	}

	return out
}

package sieve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basednum/internal/tinymap"
)

// referenceDivisorCount counts divisors of n by trial division.
func referenceDivisorCount(n uint64) uint64 {
	var count uint64
	for d := uint64(1); d <= n; d++ {
		if n%d == 0 {
			count++
		}
	}
	return count
}

// referencePrimes lists all primes <= max by trial division.
func referencePrimes(max uint64) []uint64 {
	var primes []uint64
	for n := uint64(2); n <= max; n++ {
		isPrime := true
		for d := uint64(2); d*d <= n; d++ {
			if n%d == 0 {
				isPrime = false
				break
			}
		}
		if isPrime {
			primes = append(primes, n)
		}
	}
	return primes
}

func TestRunRejectsZero(t *testing.T) {
	_, err := Run(0)
	assert.Error(t, err)
}

func TestRunMaxOne(t *testing.T) {
	r, err := Run(1)
	require.NoError(t, err)

	require.Len(t, r.Properties, 2)
	assert.Equal(t, NumberProperties{Number: 1, FactorCount: 1}, r.Properties[1])
	assert.Empty(t, r.Primes)
	assert.Empty(t, r.Based)
	assert.Empty(t, r.Histogram())
}

func TestRunMaxTen(t *testing.T) {
	r, err := Run(10)
	require.NoError(t, err)

	wantFactorCounts := []uint64{1, 2, 2, 3, 2, 4, 2, 4, 3, 4}
	wantDistinct := []uint64{0, 1, 1, 1, 1, 2, 1, 1, 1, 2}
	wantBasedness := []uint64{0, 1, 2, 2, 3, 4, 4, 2, 4, 6}
	for i := uint64(1); i <= 10; i++ {
		p := r.Properties[i]
		assert.Equal(t, i, p.Number)
		assert.Equal(t, wantFactorCounts[i-1], p.FactorCount, "factor count of %d", i)
		assert.Equal(t, wantDistinct[i-1], p.DistinctPrimeCount, "distinct primes of %d", i)
		assert.Equal(t, wantBasedness[i-1], p.Basedness, "basedness of %d", i)
	}

	assert.Equal(t, []uint64{2, 3, 5, 7}, r.Primes)

	assert.Equal(t, []BasedRecord{
		{Number: 2, Basedness: 1},
		{Number: 3, Basedness: 2},
		{Number: 5, Basedness: 3},
		{Number: 6, Basedness: 4},
		{Number: 10, Basedness: 6},
	}, r.Based)

	assert.Equal(t, []HistogramBucket{
		{DistinctPrimeCount: 1, Count: 7},
		{DistinctPrimeCount: 2, Count: 2},
	}, r.Histogram())
}

func TestFactorCountMatchesReference(t *testing.T) {
	const max = 500
	r, err := Run(max)
	require.NoError(t, err)

	for i := uint64(1); i <= max; i++ {
		require.Equal(t, referenceDivisorCount(i), r.Properties[i].FactorCount,
			"divisor count of %d", i)
	}
}

func TestFactorizationRoundTrip(t *testing.T) {
	const max = 500
	r, err := Run(max)
	require.NoError(t, err)

	for i := uint64(2); i <= max; i++ {
		product := uint64(1)
		for p, exp := range r.Factorizations[i].All() {
			for range exp {
				product *= p
			}
		}
		require.Equal(t, i, product, "factorization of %d must reconstruct it", i)
	}
}

func TestFactorizationsAreShrunk(t *testing.T) {
	const max = 2500
	r, err := Run(max)
	require.NoError(t, err)

	sawSpilled := false
	for i := uint64(2); i <= max; i++ {
		f := &r.Factorizations[i]
		if f.Len() <= tinymap.InlineCapacity {
			require.Equal(t, tinymap.InlineCapacity, f.Cap(), "factorization of %d should be inline", i)
		} else {
			sawSpilled = true
			require.Equal(t, f.Len(), f.Cap(), "factorization of %d should hold exact capacity", i)
		}
	}
	// 2310 = 2*3*5*7*11 has five distinct prime factors.
	assert.True(t, sawSpilled)
}

func TestPrimesMatchReference(t *testing.T) {
	const max = 1000
	r, err := Run(max)
	require.NoError(t, err)

	assert.Equal(t, referencePrimes(max), r.Primes)
}

func TestHistogramMass(t *testing.T) {
	const max = 200
	r, err := Run(max)
	require.NoError(t, err)

	var total uint64
	for _, b := range r.Histogram() {
		total += b.Count
	}
	assert.Equal(t, uint64(max-1), total, "every number except 1 lands in one bucket")

	buckets := r.Histogram()
	require.NotEmpty(t, buckets)
	assert.NotZero(t, buckets[len(buckets)-1].Count, "trailing zero buckets must be trimmed")
}

func TestBasednessUsesPredecessorFactorCount(t *testing.T) {
	const max = 300
	r, err := Run(max)
	require.NoError(t, err)

	for i := uint64(2); i <= max; i++ {
		want := r.Properties[i].DistinctPrimeCount * r.Properties[i-1].FactorCount
		require.Equal(t, want, r.Properties[i].Basedness, "basedness of %d", i)
	}
}

func TestBasedRecordsStrictlyIncrease(t *testing.T) {
	const max = 10000
	r, err := Run(max)
	require.NoError(t, err)

	require.NotEmpty(t, r.Based)
	for i := 1; i < len(r.Based); i++ {
		require.Greater(t, r.Based[i].Number, r.Based[i-1].Number)
		require.Greater(t, r.Based[i].Basedness, r.Based[i-1].Basedness)
	}
	for _, rec := range r.Based {
		require.Equal(t, r.Properties[rec.Number].Basedness, rec.Basedness)
	}
}

func TestProgressCallback(t *testing.T) {
	const max = 50
	var calls []uint64
	var total uint64

	_, err := Run(max, WithProgress(func(done, t uint64) {
		calls = append(calls, done)
		total = t
	}))
	require.NoError(t, err)

	require.Len(t, calls, max-1)
	assert.Equal(t, uint64(1), calls[0])
	assert.Equal(t, uint64(max-1), calls[len(calls)-1])
	assert.Equal(t, uint64(max-1), total)
}

package sieve

import "basednum/internal/tinymap"

// Factorization is the multiset of prime factors for one number, represented
// as a sorted map of prime -> exponent. With an inline capacity of 3 the map
// stays allocation-free for roughly 62% of numbers, which have at most three
// distinct prime factors.
type Factorization = tinymap.Map[uint64, uint32]

// maxDistinctFactors bounds the histogram. The product of the first 15 primes
// already exceeds 2^64, so no uint64 has more than 15 distinct prime factors.
const maxDistinctFactors = 15

// NumberProperties is the computed, read-only summary for one number.
type NumberProperties struct {
	Number             uint64 `json:"number"`
	FactorCount        uint64 `json:"numFactors"`
	DistinctPrimeCount uint64 `json:"numPrimeFactors"`
	Basedness          uint64 `json:"basedness"`
}

// BasedRecord is one entry of the basedness record list: a number whose
// basedness strictly exceeded every previously recorded basedness.
type BasedRecord struct {
	Number    uint64 `json:"number"`
	Basedness uint64 `json:"basedness"`
}

// HistogramBucket counts how many numbers have a given number of distinct
// prime factors.
type HistogramBucket struct {
	DistinctPrimeCount uint64 `json:"numPrimeFactors"`
	Count              uint64 `json:"count"`
}

// Result holds everything a completed sieve run produced.
type Result struct {
	// Properties is indexed by number; slot 0 is unused.
	Properties []NumberProperties
	// Factorizations is indexed by number; slot 0 and slot 1 are empty maps.
	// The arena is retained for the whole run because each composite's
	// factorization is cloned from a smaller number's.
	Factorizations []Factorization
	// Primes lists every prime <= max, ascending.
	Primes []uint64
	// Based is the record list, strictly increasing in both number and
	// basedness.
	Based []BasedRecord

	histogram [maxDistinctFactors]uint64
}

// Histogram returns the distinct-prime-factor histogram with trailing
// zero-count buckets trimmed. Bucket k counts the numbers in [2, max] with
// exactly k distinct prime factors; 1 is excluded.
func (r *Result) Histogram() []HistogramBucket {
	last := -1
	for i, c := range r.histogram {
		if c > 0 {
			last = i
		}
	}
	buckets := make([]HistogramBucket, 0, last+1)
	for i := 0; i <= last; i++ {
		buckets = append(buckets, HistogramBucket{
			DistinctPrimeCount: uint64(i + 1),
			Count:              r.histogram[i],
		})
	}
	return buckets
}

// Package sieve computes prime factorizations, divisor counts and basedness
// scores for every number up to a maximum.
//
// The sieve is incremental: a composite i is factored by cloning the already
// computed factorization of i/p for its smallest prime factor p and raising
// p's exponent by one, so no number is ever factored from scratch. The loop
// has a hard data dependency chain (each step reads a strictly smaller,
// already finalized slot) and runs strictly sequentially.
package sieve

import (
	"errors"
	"log/slog"
	"time"

	"basednum/internal/slogutil"
)

type options struct {
	logger   *slog.Logger
	progress func(done, total uint64)
}

// Option configures a sieve run.
type Option func(*options)

// WithLogger sets the logger for run-level diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithProgress installs a progress callback invoked once per processed
// number. It is a visual side channel only and has no effect on results.
func WithProgress(fn func(done, total uint64)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Run computes properties for every number in [1, max]. It is deterministic
// and total for any max >= 1; max == 0 is rejected.
func Run(max uint64, opts ...Option) (*Result, error) {
	if max == 0 {
		return nil, errors.New("sieve: max must be at least 1")
	}

	o := options{logger: slogutil.NewDiscardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Result{
		Properties:     make([]NumberProperties, max+1),
		Factorizations: make([]Factorization, max+1),
	}

	// 1 has no prime factors; it never enters the histogram or the loop.
	r.Properties[1] = NumberProperties{Number: 1, FactorCount: 1}

	start := time.Now()
	o.logger.Info("sieve started", "max", max)

	for i := uint64(2); i <= max; i++ {
		// A composite i has a prime factor no larger than sqrt(i), and every
		// prime below i is already in the list, so scanning the known primes
		// up to that bound finds the smallest prime factor or proves i prime.
		var p uint64
		for _, q := range r.Primes {
			if q*q > i {
				break
			}
			if i%q == 0 {
				p = q
				break
			}
		}

		var factorCount uint64
		if p != 0 {
			// The factorization of i is the factorization of i/p with p's
			// exponent raised by one.
			f := r.Factorizations[i/p].Clone()
			f.Entry(p).AndModify(func(exp *uint32) { *exp++ }).OrInsert(1)

			// d(i) = product of (exponent + 1) over the factorization.
			factorCount = 1
			for exp := range f.Values() {
				factorCount *= uint64(exp) + 1
			}
			r.Factorizations[i] = f
		} else {
			r.Factorizations[i].Insert(i, 1)
			r.Primes = append(r.Primes, i)

			// A prime is divided only by 1 and itself.
			factorCount = 2
		}
		r.Factorizations[i].ShrinkToFit()

		distinct := uint64(r.Factorizations[i].Len())
		r.histogram[distinct-1]++

		basedness := distinct * r.Properties[i-1].FactorCount
		r.Properties[i] = NumberProperties{
			Number:             i,
			FactorCount:        factorCount,
			DistinctPrimeCount: distinct,
			Basedness:          basedness,
		}

		var last uint64
		if len(r.Based) > 0 {
			last = r.Based[len(r.Based)-1].Basedness
		}
		if basedness > last {
			r.Based = append(r.Based, BasedRecord{Number: i, Basedness: basedness})
		}

		if o.progress != nil {
			o.progress(i-1, max-1)
		}
	}

	o.logger.Info("sieve finished",
		"max", max,
		"primes", len(r.Primes),
		"basedRecords", len(r.Based),
		"duration", time.Since(start),
	)

	return r, nil
}

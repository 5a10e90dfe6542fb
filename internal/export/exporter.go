// Package export writes sieve results as CSV tables.
// Destinations ending in .gz (or exporters configured to compress) are
// gzip-compressed transparently.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"basednum/internal/sieve"
)

// Exporter serializes sieve results to CSV destinations.
type Exporter struct {
	logger   *slog.Logger
	compress bool
}

// NewExporter creates a new exporter. When compress is true every destination
// is gzip-compressed regardless of its extension.
func NewExporter(logger *slog.Logger, compress bool) *Exporter {
	return &Exporter{
		logger:   logger,
		compress: compress,
	}
}

// WriteNumberProperties writes one CSV row per number, in ascending number
// order. props is indexed by number; the unused slot 0 is skipped.
func (e *Exporter) WriteNumberProperties(path string, props []sieve.NumberProperties) error {
	e.logger.Debug("writing number properties", "path", path, "rows", len(props)-1)

	return e.writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"number", "num_factors", "num_prime_factors", "basedness"}); err != nil {
			return err
		}
		for _, p := range props {
			if p.Number == 0 {
				continue
			}
			row := []string{
				strconv.FormatUint(p.Number, 10),
				strconv.FormatUint(p.FactorCount, 10),
				strconv.FormatUint(p.DistinctPrimeCount, 10),
				strconv.FormatUint(p.Basedness, 10),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteHistogram writes the distinct-prime-factor histogram, one bucket per
// row in ascending bucket order.
func (e *Exporter) WriteHistogram(path string, buckets []sieve.HistogramBucket) error {
	e.logger.Debug("writing histogram", "path", path, "buckets", len(buckets))

	return e.writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"num_prime_factors", "count"}); err != nil {
			return err
		}
		for _, b := range buckets {
			row := []string{
				strconv.FormatUint(b.DistinctPrimeCount, 10),
				strconv.FormatUint(b.Count, 10),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCSV opens path (creating parent directories), runs fill against a CSV
// writer over it, and closes everything. Any failure aborts the export.
func (e *Exporter) writeCSV(path string, fill func(*csv.Writer) error) error {
	w, closeDest, err := e.openDestination(path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := fill(cw); err != nil {
		closeDest()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		closeDest()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := closeDest(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// openDestination creates the output file and its parent directories,
// wrapping it in a gzip writer when compression applies.
func (e *Exporter) openDestination(path string) (io.Writer, func() error, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if e.compress || strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		return gz, func() error {
			if err := gz.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}, nil
	}

	return f, f.Close, nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"basednum/internal/config"
	"basednum/internal/export"
	"basednum/internal/progress"
	"basednum/internal/sieve"
	"basednum/internal/slogutil"
	"basednum/internal/version"
)

var (
	outputCSVFlag      string
	primeFactorCSVFlag string
	compressFlag       bool
	configFlag         string
	verbosityFlag      int
	quietFlag          bool
	noProgressFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "basedness [max-number]",
	Short: "Calculate basedness for all numbers up to a maximum",
	Long: `Calculate basedness for all numbers from 1 to a maximum, then print the
sequence of based numbers up to that maximum.

The basedness of a number is its count of distinct prime factors multiplied by
the divisor count of the previous number. A based number is one whose basedness
strictly exceeds that of every smaller based number.

Examples:
  basedness 1000000
  basedness --output-csv=out/numbers.csv --prime-factor-csv=out/histogram.csv 1000000
  basedness --compress --output-csv=out/numbers.csv 100000000
  basedness -v --no-progress 1000`,
	Args:    cobra.MaximumNArgs(1),
	Version: version.Version,
	Run:     runBasedness,
}

func init() {
	rootCmd.SetVersionTemplate("basedness version {{.Version}}\n")
	rootCmd.Flags().StringVarP(&outputCSVFlag, "output-csv", "o", "", "Write per-number properties to this CSV file")
	rootCmd.Flags().StringVarP(&primeFactorCSVFlag, "prime-factor-csv", "p", "", "Write the prime factor histogram to this CSV file")
	rootCmd.Flags().BoolVar(&compressFlag, "compress", false, "Gzip-compress CSV outputs")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Config file (default: ./basedness.yaml)")
	rootCmd.Flags().CountVarP(&verbosityFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress logs and progress output")
	rootCmd.Flags().BoolVar(&noProgressFlag, "no-progress", false, "Disable the progress bar")
}

func runBasedness(cmd *cobra.Command, args []string) {
	start := time.Now()

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	maxNum, err := resolveMaxNumber(args, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := slogutil.NewLogger(os.Stderr, resolveLogLevel(cfg))

	opts := []sieve.Option{sieve.WithLogger(logger)}
	var bar *progress.Bar
	if maxNum >= 2 && !noProgressFlag && !quietFlag {
		bar = progress.New(os.Stderr, maxNum-1)
		opts = append(opts, sieve.WithProgress(func(done, _ uint64) { bar.Set(done) }))
	}

	result, err := sieve.Run(maxNum, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if bar != nil {
		bar.Finish()
	}

	fmt.Println("Based numbers:")
	for _, rec := range result.Based {
		fmt.Printf("  %d (basedness %d)\n", rec.Number, rec.Basedness)
	}
	fmt.Println("Prime factor histogram:")
	for _, b := range result.Histogram() {
		fmt.Printf("  %d: %d\n", b.DistinctPrimeCount, b.Count)
	}

	exporter := export.NewExporter(logger, compressFlag || cfg.Output.Compress)

	if path := firstNonEmpty(outputCSVFlag, cfg.Output.NumbersCSV); path != "" {
		if err := exporter.WriteNumberProperties(path, result.Properties); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if path := firstNonEmpty(primeFactorCSVFlag, cfg.Output.HistogramCSV); path != "" {
		if err := exporter.WriteHistogram(path, result.Histogram()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Debug("run completed",
		"max", maxNum,
		"duration", time.Since(start),
	)
}

// resolveMaxNumber determines the range bound.
// Precedence: CLI argument > BASEDNESS_MAX_NUMBER env var > config file > default
func resolveMaxNumber(args []string, cfg *config.Config) (uint64, error) {
	// 1. CLI argument (highest priority)
	if len(args) > 0 {
		return parseMaxNumber(args[0])
	}

	// 2. Environment variable
	if env := os.Getenv("BASEDNESS_MAX_NUMBER"); env != "" {
		return parseMaxNumber(env)
	}

	// 3. Config file (defaults applied by LoadConfig)
	if cfg != nil && cfg.MaxNumber > 0 {
		return cfg.MaxNumber, nil
	}

	// 4. Built-in default
	return config.DefaultMaxNumber, nil
}

func parseMaxNumber(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid max number %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("max number must be at least 1, got %d", n)
	}
	return n, nil
}

// resolveLogLevel maps CLI verbosity flags onto the configured level; any
// explicit -v or -q wins over the config file.
func resolveLogLevel(cfg *config.Config) slog.Level {
	if verbosityFlag > 0 || quietFlag {
		return slogutil.LevelFromVerbosity(verbosityFlag, quietFlag)
	}
	return slogutil.LevelFromString(cfg.Logging.Level)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

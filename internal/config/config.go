// Package config loads and validates the basedness CLI configuration.
package config

import (
	"github.com/spf13/viper"
)

// DefaultMaxNumber is the range bound used when none is configured.
const DefaultMaxNumber = 100_000_000

// Config represents the complete basedness configuration.
type Config struct {
	MaxNumber uint64        `json:"maxNumber" mapstructure:"maxNumber"`
	Output    OutputConfig  `json:"output" mapstructure:"output"`
	Logging   LoggingConfig `json:"logging" mapstructure:"logging"`
}

// OutputConfig contains the export destinations. Empty paths disable the
// corresponding export.
type OutputConfig struct {
	NumbersCSV   string `json:"numbersCsv" mapstructure:"numbersCsv"`
	HistogramCSV string `json:"histogramCsv" mapstructure:"histogramCsv"`
	Compress     bool   `json:"compress" mapstructure:"compress"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		MaxNumber: DefaultMaxNumber,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from path, or from basedness.yaml in the
// working directory when path is empty. A missing default config file is not
// an error; defaults are returned instead.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("maxNumber", DefaultMaxNumber)
	v.SetDefault("logging.level", "info")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("basedness")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxNumber < 1 {
		return &ConfigError{Field: "maxNumber", Message: "must be at least 1"}
	}
	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

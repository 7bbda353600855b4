package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gostrata/domain/stats"
	"gostrata/internal/errors"
)

// Environment variable names
const (
	EnvLogLevel     = "LOG_LEVEL"
	EnvBinMethod    = "GOSTRATA_BIN_METHOD"
	EnvPermutations = "GOSTRATA_PERMUTATIONS"
	EnvSeed         = "GOSTRATA_SEED"
	EnvWorkers      = "GOSTRATA_WORKERS"
	EnvSheet        = "GOSTRATA_SHEET"
)

// Defaults
const (
	DefaultPermutations = 1000
	DefaultSeed         = 42
	DefaultSheet        = "Sheet1"

	// MaxPermutations bounds memory for the null distribution buffer
	MaxPermutations = 10_000_000
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Logging  LoggingConfig
	Input    InputConfig
}

// AnalysisConfig holds association and permutation settings
type AnalysisConfig struct {
	BinMethod    stats.BinMethod
	Permutations int
	Seed         uint32
	Workers      int // 0 selects GOMAXPROCS
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
}

// InputConfig holds input file settings
type InputConfig struct {
	Sheet string
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			BinMethod:    stats.DefaultBinMethod,
			Permutations: DefaultPermutations,
			Seed:         DefaultSeed,
		},
		Logging: LoggingConfig{Level: "INFO"},
		Input:   InputConfig{Sheet: DefaultSheet},
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := Default()

	analysisConfig, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	config.Analysis = *analysisConfig

	config.Logging.Level = getEnvOrDefault(EnvLogLevel, config.Logging.Level)
	config.Input.Sheet = getEnvOrDefault(EnvSheet, config.Input.Sheet)

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAnalysisConfig() (*AnalysisConfig, error) {
	method := stats.DefaultBinMethod
	if value := os.Getenv(EnvBinMethod); value != "" {
		parsed, err := stats.ParseBinMethod(value)
		if err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("%s: %w", EnvBinMethod, err))
		}
		method = parsed
	}

	permutations, err := getEnvInt(EnvPermutations, DefaultPermutations)
	if err != nil {
		return nil, err
	}

	seed, err := getEnvInt(EnvSeed, DefaultSeed)
	if err != nil {
		return nil, err
	}
	if seed < 0 || int64(seed) > math.MaxUint32 {
		return nil, errors.ConfigInvalid(fmt.Sprintf("%s must fit in 32 unsigned bits, got %d", EnvSeed, seed))
	}

	workers, err := getEnvInt(EnvWorkers, 0)
	if err != nil {
		return nil, err
	}

	return &AnalysisConfig{
		BinMethod:    method,
		Permutations: permutations,
		Seed:         uint32(seed),
		Workers:      workers,
	}, nil
}

// Validate checks ranges; flag overrides are validated through it as well
func (c *Config) Validate() error {
	if !c.Analysis.BinMethod.Valid() {
		return errors.ConfigInvalid(fmt.Sprintf("unknown bin method %q", c.Analysis.BinMethod))
	}
	if c.Analysis.Permutations < 0 || c.Analysis.Permutations > MaxPermutations {
		return errors.ConfigInvalid(fmt.Sprintf("permutations must be in [0, %d], got %d", MaxPermutations, c.Analysis.Permutations))
	}
	if c.Analysis.Workers < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("workers must be >= 0, got %d", c.Analysis.Workers))
	}
	if strings.TrimSpace(c.Input.Sheet) == "" {
		return errors.ConfigInvalid("sheet name is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("%s: %w", key, err))
	}
	return intValue, nil
}

// Package config provides configuration loading and validation for the ordtree CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidLogFormat    = errors.New("invalid log format")
	ErrInvalidLogOutput    = errors.New("invalid log output")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidOperations   = errors.New("bench operations must be positive")
	ErrInvalidKeySpace     = errors.New("bench key space must be positive")
	ErrInvalidVerifyEvery  = errors.New("bench verify_every must not be negative")
	ErrInvalidRemoveRatio  = errors.New("bench remove_ratio must be within [0, 1]")
)

// Output formats accepted by the output.format key.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Default configuration values.
const (
	defaultOperations  = 100000
	defaultKeySpace    = 50000
	defaultSeed        = 1
	defaultVerifyEvery = 1000
	defaultRemoveRatio = 0.4

	envPrefix  = "ORDTREE"
	configName = "ordtree"
)

// Config holds all configuration for the ordtree CLI.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
	Bench   BenchConfig   `mapstructure:"bench"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// OutputConfig controls how command results are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// BenchConfig holds the defaults of the randomized workload.
type BenchConfig struct {
	Operations  int     `mapstructure:"operations"`
	KeySpace    int     `mapstructure:"key_space"`
	Seed        int64   `mapstructure:"seed"`
	VerifyEvery int     `mapstructure:"verify_every"`
	RemoveRatio float64 `mapstructure:"remove_ratio"`
}

// SlogLevel maps the configured level name to a slog level.
func (lc LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level

	err := level.UnmarshalText([]byte(lc.Level))
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/ordtree")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Logging defaults.
	viperCfg.SetDefault("logging.level", "warn")
	viperCfg.SetDefault("logging.format", "text")
	viperCfg.SetDefault("logging.output", "stderr")

	// Output defaults.
	viperCfg.SetDefault("output.format", FormatTable)
	viperCfg.SetDefault("output.color", true)

	// Bench defaults.
	viperCfg.SetDefault("bench.operations", defaultOperations)
	viperCfg.SetDefault("bench.key_space", defaultKeySpace)
	viperCfg.SetDefault("bench.seed", defaultSeed)
	viperCfg.SetDefault("bench.verify_every", defaultVerifyEvery)
	viperCfg.SetDefault("bench.remove_ratio", defaultRemoveRatio)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	var level slog.Level

	if err := level.UnmarshalText([]byte(config.Logging.Level)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains([]string{"text", "json"}, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if !slices.Contains([]string{"stdout", "stderr"}, config.Logging.Output) {
		return fmt.Errorf("%w: %q", ErrInvalidLogOutput, config.Logging.Output)
	}

	if !slices.Contains([]string{FormatTable, FormatJSON, FormatYAML}, config.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, config.Output.Format)
	}

	if config.Bench.Operations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOperations, config.Bench.Operations)
	}

	if config.Bench.KeySpace <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidKeySpace, config.Bench.KeySpace)
	}

	if config.Bench.VerifyEvery < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidVerifyEvery, config.Bench.VerifyEvery)
	}

	if config.Bench.RemoveRatio < 0 || config.Bench.RemoveRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidRemoveRatio, config.Bench.RemoveRatio)
	}

	return nil
}

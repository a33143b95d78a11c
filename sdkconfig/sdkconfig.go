// Package sdkconfig loads the SDK's own tuning knobs (retry backoff,
// operation timeout, log level, metrics toggle) from a YAML file and/or
// environment variables, the same viper-backed shape the teacher's
// internal/config package uses for its server settings. This is
// deliberately separate from awsconfig, which resolves AWS credentials
// and region out of ~/.aws/{credentials,config} via internal/inifile:
// the two config surfaces have different sources and different owners.
package sdkconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/alexander-sdk/core/retry"
	"github.com/spf13/viper"
)

// Config holds the tuning knobs client.Client and its collaborators read
// at construction time.
type Config struct {
	Retry   RetryConfig   `mapstructure:"retry"`
	Timeout TimeoutConfig `mapstructure:"timeout"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// RetryConfig parameterizes retry.Jitter.
type RetryConfig struct {
	BaseDelay  time.Duration `mapstructure:"base_delay"`
	MaxDelay   time.Duration `mapstructure:"max_delay"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// Policy builds the retry.Policy this config describes.
func (c RetryConfig) Policy() retry.Policy {
	return retry.Jitter{Base: c.BaseDelay, Max: c.MaxDelay, MaxRetries: c.MaxRetries}
}

// TimeoutConfig holds the per-attempt operation timeout.
type TimeoutConfig struct {
	Operation time.Duration `mapstructure:"operation"`
}

// LoggingConfig holds the zerolog level name the caller wires into its
// own zerolog.Logger construction.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig toggles whether the caller should construct and attach
// a middleware.Metrics bundle.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configPath (if non-empty) plus ALEXANDER_SDK_-prefixed
// environment variables, falling back to defaults when neither is set.
// A missing config file is not an error: env vars and defaults are
// sufficient on their own, matching the teacher's config.Load.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ALEXANDER_SDK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("sdkconfig")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading sdk config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling sdk config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sdk config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("retry.base_delay", time.Second)
	v.SetDefault("retry.max_delay", 20*time.Second)
	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("timeout.operation", 20*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("metrics.enabled", false)
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must be >= 0")
	}
	if c.Retry.BaseDelay <= 0 {
		return fmt.Errorf("retry.base_delay must be positive")
	}
	if c.Retry.MaxDelay < c.Retry.BaseDelay {
		return fmt.Errorf("retry.max_delay must be >= retry.base_delay")
	}
	if c.Timeout.Operation <= 0 {
		return fmt.Errorf("timeout.operation must be positive")
	}
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}
	return nil
}

// MustLoad loads Config or panics, for use in program initialization
// where a bad SDK config is unrecoverable.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load sdk config: %v", err))
	}
	return cfg
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"violationrate/codes"
)

const (
	envPrefix          = "VIOLATIONRATE"
	defaultDatabaseURL = "postgres://postgres@localhost:5432/claims?sslmode=disable"
	defaultBatchSize   = 5000
)

// Config is populated once per invocation from flags, VIOLATIONRATE_* env
// vars, an optional config file and defaults, in that order of precedence.
type Config struct {
	DatabaseURL string `mapstructure:"database_url"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`

	// report
	Output    string   `mapstructure:"output"`
	Screening []string `mapstructure:"screening"`
	Resection []string `mapstructure:"resection"`
	Benign    []string `mapstructure:"benign"`
	Malignant []string `mapstructure:"malignant"`

	// load
	File      string `mapstructure:"file"`
	BatchSize int    `mapstructure:"batch_size"`
}

// Overrides returns the user-supplied code lists.
func (c *Config) Overrides() codes.Overrides {
	return codes.Overrides{
		Screening: c.Screening,
		Resection: c.Resection,
		Benign:    c.Benign,
		Malignant: c.Malignant,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", defaultDatabaseURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("batch_size", defaultBatchSize)
}

// LoadConfig reads the config file named by the "config" key, if any, and
// unmarshals every layer into a Config.
func LoadConfig(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"database_url", "log_level", "log_format", "output",
		"screening", "resection", "benign", "malignant", "file", "batch_size"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database url is required")
	}
	return cfg, nil
}

// Package config loads optional defaults from a pdfpress.yaml config
// file. Command-line flags always win over file values.
package config

import (
	"github.com/spf13/viper"
)

// Config holds file-configurable defaults.
type Config struct {
	Optimizer struct {
		Compression     string
		Workers         int
		SizeThresholdMB float64 `mapstructure:"size_threshold_mb"`
	}
	Logging struct {
		Level string
	}
	TUI struct {
		Enabled bool
	}
}

// Load reads pdfpress.yaml from the working directory or
// $HOME/.pdfpress, falling back to defaults when no file exists.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("pdfpress")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.pdfpress")

	v.SetDefault("optimizer.compression", "medium")
	v.SetDefault("optimizer.workers", 1)
	v.SetDefault("optimizer.size_threshold_mb", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("tui.enabled", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

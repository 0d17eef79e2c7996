// Package config handles attrcodec configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the top-level configuration.
// Maps to the `attrcodec:` root key in YAML.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`   // trace / debug / info / warn / error
	Pattern string           `mapstructure:"pattern"` // %time %level %field %msg %caller %func
	Time    string           `mapstructure:"time"`    // Go time layout
	File    FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Output ───

// OutputConfig controls how wire bytes are printed.
type OutputConfig struct {
	Format    string `mapstructure:"format"`    // hex / base64
	Uppercase bool   `mapstructure:"uppercase"` // hex only
	Separator string `mapstructure:"separator"` // hex only, placed between bytes
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure `attrcodec: ...`.
type configRoot struct {
	AttrCodec Config `mapstructure:"attrcodec"`
}

// Load loads configuration from path. An empty path yields defaults plus
// environment overrides (e.g. ATTRCODEC_LOG_LEVEL, ATTRCODEC_OUTPUT_FORMAT).
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Key "attrcodec.log.level" maps to env "ATTRCODEC_LOG_LEVEL".
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.AttrCodec

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use the "attrcodec." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("attrcodec.log.level", "warn")
	v.SetDefault("attrcodec.log.pattern", "%time [%level] %field %msg\n")
	v.SetDefault("attrcodec.log.time", "2006-01-02 15:04:05")
	v.SetDefault("attrcodec.log.file.enabled", false)
	v.SetDefault("attrcodec.log.file.path", "attrcodec.log")
	v.SetDefault("attrcodec.log.file.rotation.max_size_mb", 10)
	v.SetDefault("attrcodec.log.file.rotation.max_age_days", 7)
	v.SetDefault("attrcodec.log.file.rotation.max_backups", 3)
	v.SetDefault("attrcodec.log.file.rotation.compress", false)

	// Output defaults
	v.SetDefault("attrcodec.output.format", "hex")
	v.SetDefault("attrcodec.output.uppercase", false)
	v.SetDefault("attrcodec.output.separator", "")
}

// ValidateAndApplyDefaults validates configuration and normalizes case.
func (cfg *Config) ValidateAndApplyDefaults() error {
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be trace/debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return fmt.Errorf("log.file.path is required when log.file.enabled=true")
	}

	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if cfg.Output.Format != "hex" && cfg.Output.Format != "base64" {
		return fmt.Errorf("invalid output format: %s (must be hex/base64)", cfg.Output.Format)
	}
	return nil
}

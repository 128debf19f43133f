// Package config loads application settings from defaults, an optional
// YAML file, and NOISEGRAPH_* environment variables, in rising priority.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix is prepended to environment variable names. Nested keys use
// underscores: preview.size is NOISEGRAPH_PREVIEW_SIZE.
const EnvPrefix = "NOISEGRAPH"

// Backend names.
const (
	BackendPerlin    = "perlin"
	BackendFastNoise = "fastnoise"
)

// Config is the application configuration.
type Config struct {
	Backend   string  `mapstructure:"backend"`
	SIMDLevel uint    `mapstructure:"simd_level"` // 0 lets the engine choose
	Debug     bool    `mapstructure:"debug"`
	Preview   Preview `mapstructure:"preview"`
}

// Preview holds the defaults for sampling commands.
type Preview struct {
	Size      int     `mapstructure:"size"`
	Frequency float32 `mapstructure:"frequency"`
	Seed      int32   `mapstructure:"seed"`
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendPerlin)
	v.SetDefault("simd_level", 0)
	v.SetDefault("debug", false)
	v.SetDefault("preview.size", 256)
	v.SetDefault("preview.frequency", 0.02)
	v.SetDefault("preview.seed", 1337)
}

// Load reads the configuration into a Config. path may be empty, in which
// case only defaults, flags bound to v, and the environment apply.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	switch c.Backend {
	case BackendPerlin, BackendFastNoise:
	default:
		err = multierr.Append(err, fmt.Errorf("config: unknown backend %q (want %s or %s)",
			c.Backend, BackendPerlin, BackendFastNoise))
	}
	if c.Preview.Size <= 0 {
		err = multierr.Append(err, fmt.Errorf("config: preview.size must be positive, got %d", c.Preview.Size))
	}
	return err
}

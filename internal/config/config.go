// Package config supplies operator-facing defaults for the cmd/car CLI.
// The core engine (pkg/archive) takes no configuration of its own; this
// package is consumed only by the CLI layer that wraps it.
package config

import (
	"github.com/spf13/viper"
)

// Config holds operator-facing defaults.
type Config struct {
	BufferSizeBytes int  `mapstructure:"bufferSizeBytes"`
	Verbose         bool `mapstructure:"verbose"`
	CompressDefault bool `mapstructure:"compressDefault"`
}

// Load reads configuration from an optional YAML file and environment
// variables prefixed CAR_. With no configPath, a missing ./car.yaml is
// not an error — it simply leaves the built-in defaults in effect; an
// explicitly named configPath that cannot be read is an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("bufferSizeBytes", 64*1024)
	v.SetDefault("verbose", false)
	v.SetDefault("compressDefault", false)

	v.SetEnvPrefix("CAR")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("car")
		v.SetConfigType("yaml")
	}

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

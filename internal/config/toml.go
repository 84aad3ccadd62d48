// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Trainer TrainerConfig `toml:"trainer"`
}

// TrainerConfig maps training-related settings. The reference password is
// deliberately absent: it is never read from disk.
type TrainerConfig struct {
	Correct        *int     `toml:"correct"`
	Mean           *float64 `toml:"mean"`
	Std            *float64 `toml:"std"`
	Window         *int     `toml:"window"`
	Limit          *int     `toml:"limit"`
	Echo           *string  `toml:"echo"`
	TimedReference *bool    `toml:"timed-reference"`
	Format         *string  `toml:"format"`
	Color          *string  `toml:"color"`
	LogFile        *string  `toml:"log-file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

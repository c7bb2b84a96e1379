// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Page      PageConfig      `toml:"page"`
	Generator GeneratorConfig `toml:"generator"`
	History   HistoryConfig   `toml:"history"`
}

// PageConfig maps page content and animation settings.
type PageConfig struct {
	Content     *string `toml:"content"`
	Caption     *string `toml:"caption"`
	Rain        *bool   `toml:"rain"`
	ColumnWidth *int    `toml:"column-width"`
}

// GeneratorConfig maps the text-generation endpoint settings.
type GeneratorConfig struct {
	Endpoint *string `toml:"endpoint"`
	APIKey   *string `toml:"api-key"`
	Timeout  *string `toml:"timeout"`
}

// HistoryConfig maps refinement history settings.
type HistoryConfig struct {
	Enabled *bool `toml:"enabled"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

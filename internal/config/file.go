package config

// This file implements the optional YAML defaults file. Values from the file
// overlay DefaultConfig and are themselves overridden by CLI flags, so the
// file only ever changes defaults, never forces behavior.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the subset of Config that may be set from the defaults
// file. Pointer fields distinguish "absent" from zero values.
type fileConfig struct {
	Recursive   *bool  `yaml:"recursive"`
	JPEGQuality *int   `yaml:"jpeg_quality"`
	MaxEdge     *int   `yaml:"max_edge"`
	Color       string `yaml:"color"`
	Log         string `yaml:"log"`
}

// DefaultFilePath returns the conventional defaults file location
// (<user config dir>/photoclean/config.yaml), or "" when the user config
// dir cannot be determined.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "photoclean", "config.yaml")
}

// LoadFile overlays cfg with values from the YAML file at path. A missing
// file is not an error (the defaults file is optional); a malformed one is.
func LoadFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Recursive != nil {
		cfg.Recursive = *fc.Recursive
	}
	if fc.JPEGQuality != nil {
		cfg.JPEGQuality = *fc.JPEGQuality
	}
	if fc.MaxEdge != nil {
		cfg.MaxEdge = *fc.MaxEdge
	}
	if fc.Color != "" {
		cfg.ColorMode = ColorMode(fc.Color)
	}
	if fc.Log != "" {
		cfg.LogFile = fc.Log
	}
	return nil
}

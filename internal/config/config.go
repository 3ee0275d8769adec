// Package config holds runtime configuration: defaults, an optional YAML
// defaults file, CLI flag parsing, and validation. Precedence is
// defaults < config file < CLI flags.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings for one batch run. It is populated by
// [DefaultConfig], optionally overlaid by [LoadFile], and then mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
// It is not modified once the pipeline starts.
type Config struct {
	// Root directory to scan (positional arg; prompted for when omitted).
	Root string

	// Behavior flags.
	Recursive bool // Default: true. Cleared by --no-recursive.
	DryRun    bool
	Verbose   bool

	// Re-encode settings.
	JPEGQuality int // Default: 95. JPEG re-encode quality (1-100).
	MaxEdge     int // Default: 0 (off). Downscale longest edge to this many pixels.

	// Display and logging.
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path (append mode).
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config matching the tool's documented defaults:
// recursive scan, JPEG quality 95, no downscaling, auto colors.
func DefaultConfig() Config {
	return Config{
		Recursive:   true,
		DryRun:      false,
		Verbose:     false,
		JPEGQuality: 95,
		MaxEdge:     0,
		ColorMode:   ColorAuto,
		CheckOnly:   false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks numeric ranges and enum fields. The root path is not
// required here: when it is absent the entrypoint prompts for it
// interactively before the pipeline starts.
func (c *Config) Validate() error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be 1-100 (got %d)", c.JPEGQuality)
	}
	if c.MaxEdge < 0 {
		return errors.New("max edge must not be negative")
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	return nil
}

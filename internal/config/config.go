// Package config holds runtime configuration: defaults, CLI flag
// registration, optional TOML config file loading, and validation. Defaults
// are the tool's stable CLI contract.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// --- Enum types for validated string fields ---

// StereoStrategy selects how multi-channel sources are handled.
type StereoStrategy string

const (
	StereoDownmix  StereoStrategy = "downmix"          // Mix down to mono at the requested bitrate (default).
	StereoKeep     StereoStrategy = "keep"             // Keep stereo at the requested bitrate.
	StereoIncrease StereoStrategy = "increase-bitrate" // Keep stereo and raise the bitrate by 1.6x.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by a TOML config file, and then mutated by the CLI
// flags before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths.
	SourceDir string // Default: "./original".
	OutputDir string // Default: "./opus".

	// Encoding.
	Bitrate string         // Target bitrate, canonical form "<n>k". Default: "20k".
	Stereo  StereoStrategy // Default: "downmix".

	// Dispatch.
	Workers int // Default: runtime.NumCPU().

	// Behavior flags.
	HandleImages bool // Default: true. Cleared by --no-images.
	SkipExisting bool // Default: true. Cleared by --no-skip.
	DryRun       bool
	CheckOnly    bool // Run --check diagnostics and exit.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional plain-text log file path.

	// ffmpeg constants (not user-configurable).
	EncodeTimeoutSeconds int // Per-invocation cap on a single encode.
}

// DefaultConfig returns a Config with all defaults populated. Used as the
// base before config file and CLI overrides.
func DefaultConfig() Config {
	return Config{
		SourceDir:            "./original",
		OutputDir:            "./opus",
		Bitrate:              "20k",
		Stereo:               StereoDownmix,
		Workers:              runtime.NumCPU(),
		HandleImages:         true,
		SkipExisting:         true,
		DryRun:               false,
		CheckOnly:            false,
		Verbose:              false,
		ColorMode:            ColorAuto,
		EncodeTimeoutSeconds: 3600,
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

// Validate checks enum fields and canonicalizes the bitrate. When not in
// CheckOnly mode it also requires non-empty source and output paths.
// Errors returned here are configuration errors: fatal, reported before
// any work starts.
func (c *Config) Validate() error {
	switch c.Stereo {
	case StereoDownmix, StereoKeep, StereoIncrease:
		// valid
	default:
		return fmt.Errorf("invalid stereo strategy %q (use 'downmix', 'keep' or 'increase-bitrate')", c.Stereo)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	normalized, err := normalizeBitrate(c.Bitrate)
	if err != nil {
		return err
	}
	c.Bitrate = normalized

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}

	if c.CheckOnly {
		return nil
	}
	if c.SourceDir == "" || c.OutputDir == "" {
		return errors.New("source and output directories must not be empty")
	}
	return nil
}

// normalizeBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "20", "20k", "20K", "20kbps". Output is "<n>k".
func normalizeBitrate(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("bitrate must not be empty")
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid bitrate %q (use positive kbps value, e.g. 20k)", raw)
	}
	return fmt.Sprintf("%dk", n), nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved source directory. This prevents the pipeline from
// discovering its own output files on a second run. Both arguments must be
// absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(sourceAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == sourceAbs || strings.HasPrefix(outputAbs+sep, sourceAbs+sep) {
		return errors.New("output directory must not be inside source directory")
	}
	return nil
}

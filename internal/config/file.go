package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

// fileConfig mirrors the user-facing subset of Config for the optional TOML
// config file. All fields are pointers so that absent keys are
// distinguishable from zero values.
type fileConfig struct {
	Source  *string `toml:"source"`
	Output  *string `toml:"output"`
	Bitrate *string `toml:"bitrate"`
	Workers *int    `toml:"workers"`
	Stereo  *string `toml:"stereo"`
	Images  *bool   `toml:"images"`
	Skip    *bool   `toml:"skip_existing"`
	Color   *string `toml:"color"`
	LogFile *string `toml:"log_file"`
}

// LoadFile overlays settings from a TOML file onto cfg. Values are applied
// only for flags the user did not set explicitly, so the precedence is
// built-in defaults < config file < CLI flags. fs must already be parsed.
func LoadFile(cfg *Config, path string, fs *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Source != nil && !fs.Changed("source") {
		cfg.SourceDir = *fc.Source
	}
	if fc.Output != nil && !fs.Changed("output") {
		cfg.OutputDir = *fc.Output
	}
	if fc.Bitrate != nil && !fs.Changed("bitrate") {
		cfg.Bitrate = *fc.Bitrate
	}
	if fc.Workers != nil && !fs.Changed("workers") {
		cfg.Workers = *fc.Workers
	}
	if fc.Stereo != nil && !fs.Changed("stereo") {
		cfg.Stereo = StereoStrategy(*fc.Stereo)
	}
	if fc.Images != nil && !fs.Changed("no-images") {
		cfg.HandleImages = *fc.Images
	}
	if fc.Skip != nil && !fs.Changed("no-skip") {
		cfg.SkipExisting = *fc.Skip
	}
	if fc.Color != nil && !fs.Changed("color") && !fs.Changed("no-color") {
		cfg.ColorMode = ColorMode(*fc.Color)
	}
	if fc.LogFile != nil && !fs.Changed("log") {
		cfg.LogFile = *fc.LogFile
	}
	return nil
}

package config

// This file registers CLI flags on a pflag.FlagSet and applies the negated
// flags after parsing. Negated flags (--no-skip, --no-images, --no-color)
// are captured separately and applied afterwards so Config defaults hold
// unless the user passes the flag.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// NegatedFlags holds boolean flags that invert a Config default. They are
// captured during flag registration and applied by [ApplyNegatedFlags]
// after parsing.
type NegatedFlags struct {
	NoImages   bool
	NoSkip     bool
	NoColor    bool
	ForceColor bool
}

// RegisterFlags registers all converter flags on fs, bound to cfg fields.
// The returned NegatedFlags must be passed to [ApplyNegatedFlags] once
// parsing is complete.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) *NegatedFlags {
	n := &NegatedFlags{}

	fs.StringVarP(&cfg.SourceDir, "source", "s", cfg.SourceDir, "Source directory containing audiobooks")
	fs.StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "Output directory for converted files")
	fs.StringVarP(&cfg.Bitrate, "bitrate", "b", cfg.Bitrate, "Target bitrate (e.g. 15k, 20k, 24k, 32k)")
	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Number of parallel workers")
	fs.Var(&stereoValue{&cfg.Stereo}, "stereo", "Stereo strategy: downmix | keep | increase-bitrate")

	fs.BoolVar(&n.NoImages, "no-images", false, "Do not process cover images")
	fs.BoolVar(&n.NoSkip, "no-skip", false, "Re-convert files even if they already exist")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not invoke external tools")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")

	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	fs.BoolVar(&n.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&n.ForceColor, "color", false, "Force colored output")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append plain-text logs to file")

	return n
}

// ApplyNegatedFlags copies negated flag values into cfg
// (e.g. NoSkip -> SkipExisting=false).
func ApplyNegatedFlags(cfg *Config, n *NegatedFlags) {
	if n.NoImages {
		cfg.HandleImages = false
	}
	if n.NoSkip {
		cfg.SkipExisting = false
	}
	if n.NoColor {
		cfg.ColorMode = ColorNever
	} else if n.ForceColor {
		cfg.ColorMode = ColorAlways
	}
}

// stereoValue adapts StereoStrategy to pflag.Value so invalid strategies
// fail at parse time rather than during validation.
type stereoValue struct{ p *StereoStrategy }

func (v *stereoValue) String() string { return string(*v.p) }
func (v *stereoValue) Type() string   { return "strategy" }
func (v *stereoValue) Set(s string) error {
	switch StereoStrategy(strings.ToLower(s)) {
	case StereoDownmix:
		*v.p = StereoDownmix
	case StereoKeep:
		*v.p = StereoKeep
	case StereoIncrease:
		*v.p = StereoIncrease
	default:
		return fmt.Errorf("invalid stereo strategy %q (use 'downmix', 'keep' or 'increase-bitrate')", s)
	}
	return nil
}

// Package policy computes per-file encoding parameters: the target bitrate
// and channel layout derived from the stereo strategy, and the decision
// whether an already-Opus source can be copied instead of re-encoded.
package policy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kadykov/audiobook-opus-converter/internal/config"
)

// stereoBitrateFactor is the multiplier applied by the increase-bitrate
// strategy. The result is floored to whole kbps (20k -> 32k, 24k -> 38k).
const stereoBitrateFactor = 1.6

// Bitrate is a target audio bitrate in whole kbps, rendered as "<n>k" on
// the ffmpeg command line.
type Bitrate struct {
	Kbps int
}

// ParseBitrate parses a "<int>k" bitrate string. Zero, negative, and
// non-numeric values are configuration errors.
func ParseBitrate(s string) (Bitrate, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasSuffix(raw, "k") {
		return Bitrate{}, fmt.Errorf("invalid bitrate %q (expected <int>k, e.g. 20k)", s)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(raw, "k"))
	if err != nil {
		return Bitrate{}, fmt.Errorf("invalid bitrate %q (expected <int>k, e.g. 20k)", s)
	}
	if n <= 0 {
		return Bitrate{}, fmt.Errorf("invalid bitrate %q (must be positive)", s)
	}
	return Bitrate{Kbps: n}, nil
}

// String renders the bitrate in ffmpeg's "<n>k" form.
func (b Bitrate) String() string {
	return strconv.Itoa(b.Kbps) + "k"
}

// BitsPerSecond returns the bitrate in bits/sec for comparison against
// ffprobe values.
func (b Bitrate) BitsPerSecond() int64 {
	return int64(b.Kbps) * 1000
}

// BitratePlan is the effective encoding target for one file: channel count
// and bitrate after the stereo strategy has been applied.
type BitratePlan struct {
	Channels int // 1 (mono) or 2 (stereo).
	Bitrate  Bitrate
}

// ComputePlan derives the target bitrate and channel layout for a file.
//
// Mono sources (channels <= 1) always encode to mono at the requested
// bitrate; the strategy only matters for multi-channel input:
//
//	downmix          -> mono   at the requested bitrate
//	keep             -> stereo at the requested bitrate
//	increase-bitrate -> stereo at floor(requested * 1.6) kbps
func ComputePlan(requested Bitrate, strategy config.StereoStrategy, channels int) BitratePlan {
	if channels <= 1 {
		return BitratePlan{Channels: 1, Bitrate: requested}
	}

	switch strategy {
	case config.StereoKeep:
		return BitratePlan{Channels: 2, Bitrate: requested}
	case config.StereoIncrease:
		raised := int(float64(requested.Kbps) * stereoBitrateFactor)
		return BitratePlan{Channels: 2, Bitrate: Bitrate{Kbps: raised}}
	default: // config.StereoDownmix
		return BitratePlan{Channels: 1, Bitrate: requested}
	}
}

// ShouldSkipReencode reports whether a source can be copied verbatim instead
// of re-encoded: the existing codec is already Opus and its known bitrate is
// at or below the planned target. An unknown (zero) bitrate is not treated
// as skippable; re-encoding is the safe default.
func ShouldSkipReencode(existingCodec string, existingBitRate int64, planned Bitrate) bool {
	if !strings.EqualFold(existingCodec, "opus") {
		return false
	}
	return existingBitRate > 0 && existingBitRate <= planned.BitsPerSecond()
}

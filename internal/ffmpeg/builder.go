// Package ffmpeg builds and executes the opus encode commands. One
// invocation converts one input file; all codec work is ffmpeg's.
package ffmpeg

import (
	"strconv"

	"github.com/kadykov/audiobook-opus-converter/internal/policy"
)

// Fixed encoder settings for audiobook content: variable bitrate, maximum
// compression effort, and the speech-optimized application mode.
const (
	compressionLevel = "10"
	application      = "voip"
)

// BuildArgs constructs the complete ffmpeg argument slice for encoding one
// file to opus. Only audio streams are mapped (embedded cover art streams
// are dropped; full metadata is carried over).
func BuildArgs(inputPath, outputPath string, plan policy.BitratePlan, verbose bool) []string {
	args := make([]string, 0, 24)
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")

	if verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	args = append(args,
		"-i", inputPath,
		"-map", "0:a",
		"-map_metadata", "0",
		"-c:a", "libopus",
		"-b:a", plan.Bitrate.String(),
		"-ac", strconv.Itoa(plan.Channels),
		"-vbr", "on",
		"-compression_level", compressionLevel,
		"-application", application,
		// The muxer is named explicitly because the output goes to a
		// ".partial" temp path, which defeats extension-based detection.
		"-f", "ogg",
		outputPath,
	)
	return args
}

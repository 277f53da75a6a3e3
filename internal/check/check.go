// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation for ffmpeg, ffprobe, the libopus encoder, and the
// optional cover image tool.
package check

import (
	"errors"
	"os/exec"
	"strings"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrNoOpusSupport   = errors.New("ffmpeg has no libopus encoder support")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// ffprobe, the libopus encoder, and the cover image tool. Returns false when
// a required dependency is missing; the optional image tool only warns.
func RunCheck(log Logger) bool {
	log.Info("=== System Check ===")
	ok := true

	if version := toolVersion("ffmpeg"); version != "" {
		log.Success("ffmpeg: %s", version)
	} else {
		log.Error("ffmpeg not found")
		ok = false
	}

	if _, err := exec.LookPath("ffprobe"); err == nil {
		log.Success("ffprobe: found")
	} else {
		log.Error("ffprobe not found")
		ok = false
	}

	if hasOpusEncoder() {
		log.Success("libopus encoder: available")
	} else {
		log.Error("libopus encoder: not available in this ffmpeg build")
		ok = false
	}

	if tool := DetectImageTool(); tool != "" {
		log.Success("image tool: %s", tool)
	} else {
		log.Warn("image tool: not found (covers will be copied verbatim)")
	}

	if runSilent("ffmpeg",
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "libopus", "-f", "null", "-",
	) {
		log.Success("opus test encode works")
	} else {
		log.Error("opus test encode failed")
		ok = false
	}

	return ok
}

// CheckDeps is the pre-pipeline validation: ffmpeg and ffprobe must be on
// PATH and ffmpeg must carry the libopus encoder. Returns a sentinel error
// on failure so the caller can fail fast before any work starts.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	if !hasOpusEncoder() {
		return ErrNoOpusSupport
	}
	return nil
}

// DetectImageTool returns the ImageMagick binary to use for cover
// optimization: "magick" (v7), falling back to legacy "convert", or ""
// when neither is installed. Absence is non-fatal; covers fall back to a
// verbatim copy.
func DetectImageTool() string {
	for _, name := range []string{"magick", "convert"} {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return ""
}

// --- internal helpers ---

// toolVersion returns the first line of "NAME -version", or "" when the tool
// is missing or fails.
func toolVersion(name string) string {
	if _, err := exec.LookPath(name); err != nil {
		return ""
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		return ""
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	return firstLine
}

// hasOpusEncoder reports whether this ffmpeg build lists the libopus encoder.
func hasOpusEncoder() bool {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), "libopus")
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}

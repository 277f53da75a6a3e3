package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kadykov/audiobook-opus-converter/internal/fileutil"
	"github.com/kadykov/audiobook-opus-converter/internal/policy"
)

// Options controls a single encode invocation.
type Options struct {
	Verbose bool          // Tee ffmpeg stderr to os.Stderr in real time.
	Timeout time.Duration // Per-invocation cap; zero disables the timeout.
}

// Encode converts inputPath to an opus file at outputPath. The encode writes
// to a temporary ".partial" path and renames into place on success, so a
// killed or failed run never leaves a truncated file under the final name.
// On failure the captured stderr tail is folded into the returned error.
func Encode(ctx context.Context, inputPath, outputPath string, plan policy.BitratePlan, opts Options) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	tmp := outputPath + fileutil.PartialSuffix
	args := BuildArgs(inputPath, tmp, plan, opts.Verbose)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if opts.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg timed out encoding %s", inputPath)
		}
		return fmt.Errorf("ffmpeg failed: %w%s", err, stderrTail(stderrBuf.String()))
	}

	if err := os.Rename(tmp, outputPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// stderrTail formats the last few lines of ffmpeg stderr for error messages.
func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, " | ")
}

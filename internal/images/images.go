// Package images handles cover art: resize and strip via ImageMagick when
// it is installed, verbatim copy otherwise.
package images

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/kadykov/audiobook-opus-converter/internal/fileutil"
)

// Fixed optimization parameters for cover images.
const (
	maxDimension = "1200x1200>" // Shrink-only fit within 1200px.
	quality      = "85"
)

// CommandRunner executes an external command and returns its combined
// stderr on failure. Swappable in tests.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Optimizer processes cover images for the output tree.
type Optimizer struct {
	tool string // "magick", "convert", or "" for copy-only fallback.
	run  CommandRunner
}

// NewOptimizer returns an Optimizer using the given ImageMagick binary.
// An empty tool name selects the verbatim-copy fallback for every cover.
func NewOptimizer(tool string) *Optimizer {
	return &Optimizer{tool: tool, run: runCommand}
}

// NewOptimizerWithRunner is NewOptimizer with an injected command runner.
func NewOptimizerWithRunner(tool string, run CommandRunner) *Optimizer {
	return &Optimizer{tool: tool, run: run}
}

// HasTool reports whether an image tool is available (false means every
// cover is copied verbatim).
func (o *Optimizer) HasTool() bool { return o.tool != "" }

// Process writes an optimized (or, without a tool, verbatim) copy of the
// cover at src to dst. The returned bool reports whether the image was
// actually optimized rather than copied.
func (o *Optimizer) Process(ctx context.Context, src, dst string) (bool, error) {
	if o.tool == "" {
		return false, fileutil.CopyFile(src, dst)
	}

	tmp := dst + fileutil.PartialSuffix
	err := o.run(ctx, o.tool,
		src,
		"-resize", maxDimension,
		"-quality", quality,
		"-strip",
		tmp,
	)
	if err != nil {
		return false, fmt.Errorf("%s %s: %w", o.tool, src, err)
	}
	if err := renameTmp(tmp, dst); err != nil {
		return false, err
	}
	return true, nil
}

// runCommand is the default CommandRunner: run the tool, discard stdout,
// fold a stderr excerpt into the error on failure.
func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := commandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%w: %s", err, firstLine(msg))
		}
		return err
	}
	return nil
}

func firstLine(s string) string {
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}

package images

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// commandContext is a thin seam over exec.CommandContext.
func commandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// renameTmp moves a completed partial file into its final place, cleaning
// up the temp file on failure.
func renameTmp(tmp, dst string) error {
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

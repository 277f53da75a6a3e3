// Package fileutil provides small filesystem helpers shared by the pipeline
// and the cover image handling.
package fileutil

import (
	"fmt"
	"io"
	"os"
)

// PartialSuffix marks in-progress output files. Writers produce
// "<name><suffix>" and rename into place on success, so an interrupted run
// never leaves a truncated file under the final name.
const PartialSuffix = ".partial"

// CopyFile copies src to dst through a temporary partial path, renaming into
// place only after the copy completed. The destination directory must exist.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	tmp := dst + PartialSuffix
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copy to %s: %w", tmp, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

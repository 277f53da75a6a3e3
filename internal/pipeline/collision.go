package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// outputResolver tracks output paths claimed by input files and resolves
// duplicates by appending " (N)" suffixes. Two inputs collide when they
// share a stem but differ in extension: BookA/ch1.mp3 and BookA/ch1.flac
// both want BookA/ch1.opus. Resolution runs on the queueing goroutine
// before workers start, so no locking is needed.
type outputResolver struct {
	owners   map[string]string // output path -> input path that owns it
	counters map[string]int    // contested output path -> next suffix number
}

func newOutputResolver() *outputResolver {
	return &outputResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// resolve returns the final output path for input. If requested is unclaimed
// (or already owned by input) it is returned as-is; otherwise an " (N)"
// variant is generated, starting at 2.
func (r *outputResolver) resolve(input, requested string) string {
	owner, exists := r.owners[requested]
	if !exists || owner == input {
		r.owners[requested] = input
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	n := r.counters[requested]
	if n == 0 {
		n = 2
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		cOwner, cExists := r.owners[candidate]
		if !cExists || cOwner == input {
			r.counters[requested] = n + 1
			r.owners[candidate] = input
			return candidate
		}
		n++
	}
}

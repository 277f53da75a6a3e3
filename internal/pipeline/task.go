package pipeline

import (
	"path/filepath"
	"strings"
)

// Kind distinguishes audio conversion tasks from cover image tasks. Cover
// tasks are lower priority: they are queued after all audio tasks and their
// failures never affect the run's exit status.
type Kind int

const (
	KindAudio Kind = iota
	KindCover
)

// Task identifies one discovered input file. Created during the directory
// scan, consumed exactly once by a worker.
type Task struct {
	Kind    Kind
	Path    string // Absolute or source-relative input path.
	RelPath string // Path relative to the source root; mirrors into the output tree.
	Out     string // Final destination path; assigned during queueing, after collision resolution.
}

// OutputPath returns the mirrored destination for this task under outputRoot.
// Audio files are renamed to the .opus extension; covers keep their name.
func (t Task) OutputPath(outputRoot string) string {
	rel := t.RelPath
	if t.Kind == KindAudio {
		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".opus"
	}
	return filepath.Join(outputRoot, rel)
}

// OutcomeKind classifies how a task ended.
type OutcomeKind int

const (
	OutcomeConverted OutcomeKind = iota // Encoded (or optimized, for covers).
	OutcomeCopied                       // Verbatim copy (smart-skip or image fallback).
	OutcomeSkipped                      // Output already existed.
	OutcomeFailed                       // Per-file error; run continues.
)

// Outcome is the terminal result of one task. Every discovered task yields
// exactly one Outcome.
type Outcome struct {
	Task        Task
	Kind        OutcomeKind
	Reason      string // Failure reason; empty otherwise.
	InputBytes  int64
	OutputBytes int64
}

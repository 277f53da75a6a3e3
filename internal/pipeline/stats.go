package pipeline

// FailedFile records one per-file failure for the end-of-run summary.
type FailedFile struct {
	RelPath string
	Reason  string
}

// Stats tracks aggregate outcome counts and byte totals across a run. It is
// mutated only by the collector goroutine, so no locking is needed.
type Stats struct {
	TotalAudio  int
	TotalCovers int

	Converted int // Audio files encoded to opus.
	Copied    int // Audio files copied verbatim (already opus at or below target).
	Skipped   int // Audio files whose output already existed.
	Failed    int // Audio files that could not be converted.

	CoversDone   int // Covers optimized or copied.
	CoversFailed int // Cover failures; never affect the exit status.

	TotalInputBytes  int64
	TotalOutputBytes int64

	FailedFiles []FailedFile // Audio failures with reasons, in completion order.
}

// record folds one task outcome into the counters.
func (s *Stats) record(o Outcome) {
	if o.Task.Kind == KindCover {
		if o.Kind == OutcomeFailed {
			s.CoversFailed++
		} else {
			s.CoversDone++
		}
		return
	}

	switch o.Kind {
	case OutcomeConverted:
		s.Converted++
	case OutcomeCopied:
		s.Copied++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
		s.FailedFiles = append(s.FailedFiles, FailedFile{RelPath: o.Task.RelPath, Reason: o.Reason})
	}
	s.TotalInputBytes += o.InputBytes
	s.TotalOutputBytes += o.OutputBytes
}

// SpaceSaved returns the aggregate byte difference between inputs and
// outputs. Positive means the opus tree is smaller.
func (s *Stats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// Package pipeline orchestrates file discovery, the bounded worker pool,
// per-task conversion, and batch summary reporting.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/kadykov/audiobook-opus-converter/internal/config"
	"github.com/kadykov/audiobook-opus-converter/internal/display"
	"github.com/kadykov/audiobook-opus-converter/internal/ffmpeg"
	"github.com/kadykov/audiobook-opus-converter/internal/fileutil"
	"github.com/kadykov/audiobook-opus-converter/internal/images"
	"github.com/kadykov/audiobook-opus-converter/internal/logging"
	"github.com/kadykov/audiobook-opus-converter/internal/policy"
	"github.com/kadykov/audiobook-opus-converter/internal/probe"
)

// Runner executes one batch conversion run. The probe/encode/copy functions
// are fields so tests can exercise dispatch behavior without external tools.
type Runner struct {
	cfg       *config.Config
	log       *logging.Logger
	requested policy.Bitrate
	optimizer *images.Optimizer

	probeFn  func(ctx context.Context, path string) (*probe.Result, error)
	encodeFn func(ctx context.Context, in, out string, plan policy.BitratePlan, opts ffmpeg.Options) error
	copyFn   func(src, dst string) error
}

// NewRunner builds a Runner from validated config. The bitrate has already
// passed config validation, so a parse failure here is a programming error
// and is still surfaced rather than ignored.
func NewRunner(cfg *config.Config, log *logging.Logger, optimizer *images.Optimizer) (*Runner, error) {
	requested, err := policy.ParseBitrate(cfg.Bitrate)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:       cfg,
		log:       log,
		requested: requested,
		optimizer: optimizer,
		probeFn:   probe.Probe,
		encodeFn:  ffmpeg.Encode,
		copyFn:    fileutil.CopyFile,
	}, nil
}

// Run is the top-level batch entry point: discover tasks, fan them out to
// the worker pool, aggregate outcomes, and print the summary. Outcomes are
// collected in completion order; aggregation is order-independent counts.
func (r *Runner) Run(ctx context.Context) Stats {
	var stats Stats

	tasks, err := Discover(r.cfg.SourceDir, r.cfg.HandleImages)
	if err != nil {
		r.log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}

	// Assign final output paths up front, in the deterministic discovery
	// order. Inputs sharing a stem (ch1.mp3 and ch1.flac) would otherwise
	// race for the same .opus path.
	resolver := newOutputResolver()
	for i := range tasks {
		t := &tasks[i]
		t.Out = resolver.resolve(t.Path, t.OutputPath(r.cfg.OutputDir))
		if t.Kind == KindAudio {
			stats.TotalAudio++
		} else {
			stats.TotalCovers++
		}
	}

	r.logHeader(&stats)
	if stats.TotalAudio == 0 {
		r.log.Warn("No audio files found in %s", r.cfg.SourceDir)
		return stats
	}

	bar := r.newProgressBar(len(tasks))
	start := time.Now()

	// Classic bounded pool: Workers goroutines pull from jobs until the
	// channel is drained or the context is cancelled. Audio tasks were
	// queued ahead of covers by Discover.
	jobs := make(chan Task)
	results := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				results <- r.process(ctx, task)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, task := range tasks {
			select {
			case jobs <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collector: the only place Stats is mutated.
	for outcome := range results {
		stats.record(outcome)
		r.logOutcome(outcome, bar != nil)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	if ctx.Err() != nil {
		r.log.Warn("Interrupted; partial results below")
	}
	r.logSummary(&stats, time.Since(start))
	return stats
}

// process dispatches one task. All per-file errors are converted into a
// failed outcome here; nothing escapes to abort the run.
func (r *Runner) process(ctx context.Context, task Task) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Task: task, Kind: OutcomeFailed, Reason: "interrupted"}
	}
	if task.Kind == KindCover {
		return r.processCover(ctx, task)
	}
	return r.processAudio(ctx, task)
}

// processAudio handles one audio file: skip-existing → probe → plan →
// smart-skip copy → encode.
func (r *Runner) processAudio(ctx context.Context, task Task) Outcome {
	outPath := task.Out

	// Presence test only; no content or timestamp comparison.
	if r.cfg.SkipExisting {
		if _, err := os.Stat(outPath); err == nil {
			return Outcome{Task: task, Kind: OutcomeSkipped}
		}
	}

	fi, err := os.Stat(task.Path)
	if err != nil {
		return r.failed(task, fmt.Sprintf("cannot read input: %v", err))
	}

	pr, err := r.probeFn(ctx, task.Path)
	if err != nil {
		return r.failed(task, fmt.Sprintf("probe failed: %v", err))
	}
	if pr.PrimaryAudio == nil {
		return r.failed(task, "no audio stream")
	}

	plan := policy.ComputePlan(r.requested, r.cfg.Stereo, pr.Channels())
	r.log.Debug("%s: %s %dch @ %d b/s -> %s %dch",
		task.RelPath, pr.Codec(), pr.Channels(), pr.AudioBitRate(), plan.Bitrate, plan.Channels)

	if policy.ShouldSkipReencode(pr.Codec(), pr.AudioBitRate(), plan.Bitrate) {
		if r.cfg.DryRun {
			return Outcome{Task: task, Kind: OutcomeCopied, InputBytes: fi.Size()}
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return r.failed(task, fmt.Sprintf("cannot create output directory: %v", err))
		}
		if err := r.copyFn(task.Path, outPath); err != nil {
			return r.failed(task, fmt.Sprintf("copy failed: %v", err))
		}
		return Outcome{Task: task, Kind: OutcomeCopied,
			InputBytes: fi.Size(), OutputBytes: fi.Size()}
	}

	if r.cfg.DryRun {
		return Outcome{Task: task, Kind: OutcomeConverted, InputBytes: fi.Size()}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return r.failed(task, fmt.Sprintf("cannot create output directory: %v", err))
	}

	opts := ffmpeg.Options{
		Verbose: r.cfg.Verbose,
		Timeout: time.Duration(r.cfg.EncodeTimeoutSeconds) * time.Second,
	}
	if err := r.encodeFn(ctx, task.Path, outPath, plan, opts); err != nil {
		return r.failed(task, err.Error())
	}

	var outSize int64
	if outInfo, err := os.Stat(outPath); err == nil {
		outSize = outInfo.Size()
	}
	return Outcome{Task: task, Kind: OutcomeConverted,
		InputBytes: fi.Size(), OutputBytes: outSize}
}

// processCover handles one cover image. Cover work is best-effort: failures
// are recorded but never fail the run.
func (r *Runner) processCover(ctx context.Context, task Task) Outcome {
	outPath := task.Out

	if r.cfg.SkipExisting {
		if _, err := os.Stat(outPath); err == nil {
			return Outcome{Task: task, Kind: OutcomeSkipped}
		}
	}
	if r.cfg.DryRun {
		return Outcome{Task: task, Kind: OutcomeConverted}
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return Outcome{Task: task, Kind: OutcomeFailed, Reason: err.Error()}
	}

	optimized, err := r.optimizer.Process(ctx, task.Path, outPath)
	if err != nil {
		return Outcome{Task: task, Kind: OutcomeFailed, Reason: err.Error()}
	}
	if optimized {
		return Outcome{Task: task, Kind: OutcomeConverted}
	}
	return Outcome{Task: task, Kind: OutcomeCopied}
}

func (r *Runner) failed(task Task, reason string) Outcome {
	return Outcome{Task: task, Kind: OutcomeFailed, Reason: reason}
}

// --- Progress and logging helpers ---

// newProgressBar returns an overall progress bar when stdout is a TTY and
// verbose mode is off; nil otherwise (per-file log lines serve instead).
func (r *Runner) newProgressBar(total int) *progressbar.ProgressBar {
	if r.cfg.Verbose || !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
}

// logOutcome prints one line per finished task. When the progress bar is
// active, success lines are suppressed and only problems are printed.
func (r *Runner) logOutcome(o Outcome, barActive bool) {
	name := o.Task.RelPath
	if o.Task.Kind == KindCover {
		switch o.Kind {
		case OutcomeFailed:
			r.log.Warn("Cover failed: %s (%s)", name, o.Reason)
		case OutcomeSkipped:
			r.log.Debug("Cover skipped (already exists): %s", name)
		default:
			if !barActive {
				r.log.Info("Cover: %s", name)
			}
		}
		return
	}

	switch o.Kind {
	case OutcomeConverted:
		if r.cfg.DryRun {
			r.log.Success("[DRY] Would convert: %s", name)
		} else if !barActive {
			r.log.Success("Converted: %s", name)
		}
	case OutcomeCopied:
		if r.cfg.DryRun {
			r.log.Info("[DRY] Would copy (already opus at target): %s", name)
		} else if !barActive {
			r.log.Info("Copied (already opus at target): %s", name)
		}
	case OutcomeSkipped:
		if !barActive {
			r.log.Info("Skipped (already exists): %s", name)
		}
	case OutcomeFailed:
		r.log.Error("Failed: %s (%s)", name, o.Reason)
	}
}

func (r *Runner) logHeader(stats *Stats) {
	r.log.Info("==================================================")
	r.log.Info("Audiobook to Opus Converter")
	r.log.Info("==================================================")
	r.log.Info("Source:  %s", r.cfg.SourceDir)
	r.log.Info("Output:  %s", r.cfg.OutputDir)
	r.log.Info("Bitrate: %s (VBR)", r.cfg.Bitrate)
	r.log.Info("Stereo:  %s", r.cfg.Stereo)
	r.log.Info("Workers: %d", r.cfg.Workers)
	if !r.cfg.HandleImages {
		r.log.Info("Covers:  disabled")
	} else if !r.optimizer.HasTool() {
		r.log.Warn("Covers:  no image tool found, copying verbatim")
	}
	if r.cfg.DryRun {
		r.log.Warn("DRY RUN: no files will be written")
	}
	r.log.Info("Found %d audio files, %d covers", stats.TotalAudio, stats.TotalCovers)
	r.log.Info("")
}

func (r *Runner) logSummary(stats *Stats, elapsed time.Duration) {
	r.log.Info("")
	r.log.Info("Conversion complete in %s", display.FormatDuration(elapsed))

	rows := []display.SummaryRow{
		{Label: "Converted", Count: stats.Converted},
		{Label: "Copied (already opus)", Count: stats.Copied},
		{Label: "Skipped (already exist)", Count: stats.Skipped},
		{Label: "Failed", Count: stats.Failed},
	}
	if stats.TotalCovers > 0 {
		rows = append(rows,
			display.SummaryRow{Label: "Covers processed", Count: stats.CoversDone},
			display.SummaryRow{Label: "Covers failed", Count: stats.CoversFailed},
		)
	}
	fmt.Println(display.RenderSummary(rows))

	if !r.cfg.DryRun && stats.TotalOutputBytes > 0 {
		saved := stats.SpaceSaved()
		if saved >= 0 {
			r.log.Success("Space saved: %s (input %s -> output %s)",
				display.FormatBytes(saved),
				display.FormatBytes(stats.TotalInputBytes),
				display.FormatBytes(stats.TotalOutputBytes))
		} else {
			r.log.Warn("Output is larger than input by %s", display.FormatBytes(-saved))
		}
	}

	for _, f := range stats.FailedFiles {
		r.log.Error("Failed: %s (%s)", f.RelPath, f.Reason)
	}
}

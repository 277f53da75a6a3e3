// Command opusbooks batch-converts an audiobook library to the Opus codec.
//
// It parses flags, optionally overlays a TOML config file, validates
// configuration and paths, and either runs system diagnostics (--check) or
// the conversion pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kadykov/audiobook-opus-converter/internal/check"
	"github.com/kadykov/audiobook-opus-converter/internal/config"
	"github.com/kadykov/audiobook-opus-converter/internal/images"
	"github.com/kadykov/audiobook-opus-converter/internal/logging"
	"github.com/kadykov/audiobook-opus-converter/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

// exitInterrupted is the conventional status for a SIGINT-terminated run.
const exitInterrupted = 130

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.DefaultConfig()
	exitCode := 0

	var (
		configPath string
		negated    *config.NegatedFlags
	)

	root := &cobra.Command{
		Use:   "opusbooks",
		Short: "Convert an audiobook library to Opus",
		Long: "opusbooks mirrors a directory tree of audiobooks into a parallel tree\n" +
			"of Opus files, re-encoding with ffmpeg and optimizing cover art along\n" +
			"the way. Files already encoded as Opus at or below the target bitrate\n" +
			"are copied instead of re-encoded.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := config.LoadFile(&cfg, configPath, cmd.Flags()); err != nil {
					return err
				}
			}
			config.ApplyNegatedFlags(&cfg, negated)
			cfg.SourceDir = config.NormalizeDirArg(cfg.SourceDir)
			cfg.OutputDir = config.NormalizeDirArg(cfg.OutputDir)
			if err := cfg.Validate(); err != nil {
				return err
			}
			exitCode = convert(cmd.Context(), &cfg)
			return nil
		},
	}

	negated = config.RegisterFlags(root.Flags(), &cfg)
	root.Flags().StringVar(&configPath, "config", "", "Path to a TOML config file")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "opusbooks: %v\n", err)
		return 1
	}
	return exitCode
}

// convert runs diagnostics or the full pipeline with validated config, and
// returns the process exit code.
func convert(ctx context.Context, cfg *config.Config) int {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opusbooks: %v\n", err)
		return 1
	}
	defer log.Close()

	if cfg.CheckOnly {
		if !check.RunCheck(log) {
			return 1
		}
		return 0
	}

	// Resolve and validate paths: source must exist, output is created if
	// needed, and output must not be inside source (prevents the converter
	// from rediscovering its own output on the next run).
	sourceAbs, err := absPath(cfg.SourceDir)
	if err != nil {
		log.Error("Source not found: %s", cfg.SourceDir)
		return 1
	}
	var outputAbs string
	if cfg.DryRun {
		// Dry runs create nothing, so the output may not exist yet.
		outputAbs, err = filepath.Abs(cfg.OutputDir)
	} else {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error("Cannot create output directory: %s", cfg.OutputDir)
			return 1
		}
		outputAbs, err = absPath(cfg.OutputDir)
	}
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return 1
	}
	if err := cfg.ValidatePaths(sourceAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.SourceDir)
		return 1
	}
	cfg.SourceDir = sourceAbs
	cfg.OutputDir = outputAbs

	// Fail fast if ffmpeg/ffprobe or the opus encoder are unavailable.
	// The image tool is optional: without one, covers are copied verbatim.
	if err := check.CheckDeps(); err != nil {
		log.Error("%v", err)
		return 1
	}
	optimizer := images.NewOptimizer(check.DetectImageTool())

	runner, err := pipeline.NewRunner(cfg, log, optimizer)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	stats := runner.Run(ctx)

	if ctx.Err() != nil {
		return exitInterrupted
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of source vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

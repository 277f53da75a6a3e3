package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/books", "/media/books"},
		{"single trailing slash", "/media/books/", "/media/books"},
		{"multiple trailing slashes", "/media/books///", "/media/books"},
		{"root path", "/", "/"},
		{"relative path", "original", "original"},
		{"relative with slash", "original/", "original"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_StereoStrategy(t *testing.T) {
	tests := []struct {
		name    string
		stereo  StereoStrategy
		wantErr bool
	}{
		{"downmix is valid", StereoDownmix, false},
		{"keep is valid", StereoKeep, false},
		{"increase-bitrate is valid", StereoIncrease, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "surround", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Stereo = tt.stereo
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Bitrate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain kbps", "20k", "20k", false},
		{"bare number", "24", "24k", false},
		{"uppercase suffix", "32K", "32k", false},
		{"kbps suffix", "15kbps", "15k", false},
		{"zero is invalid", "0k", "", true},
		{"negative is invalid", "-5k", "", true},
		{"non-numeric is invalid", "fastk", "", true},
		{"empty is invalid", "", "", true},
		{"fractional is invalid", "20.5k", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Bitrate = tt.in
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Bitrate != tt.want {
				t.Errorf("Bitrate normalized to %q, want %q", cfg.Bitrate, tt.want)
			}
		})
	}
}

func TestValidate_Workers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted zero workers")
	}
	cfg.Workers = -3
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted negative workers")
	}
}

func TestValidatePaths(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		source  string
		output  string
		wantErr bool
	}{
		{"sibling dirs", "/media/original", "/media/opus", false},
		{"output inside source", "/media/original", "/media/original/opus", true},
		{"same dir", "/media/original", "/media/original", true},
		{"shared prefix but not nested", "/media/original", "/media/originals", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cfg.ValidatePaths(tt.source, tt.output)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.source, tt.output, err, tt.wantErr)
			}
		})
	}
}

func TestStereoValue_Set(t *testing.T) {
	var s StereoStrategy = StereoDownmix
	v := &stereoValue{&s}

	if err := v.Set("KEEP"); err != nil {
		t.Fatalf("Set(KEEP): %v", err)
	}
	if s != StereoKeep {
		t.Errorf("got %q, want %q", s, StereoKeep)
	}
	if err := v.Set("quadraphonic"); err == nil {
		t.Error("Set accepted an unknown strategy")
	}
}

func TestRegisterFlags_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	n := RegisterFlags(fs, &cfg)

	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ApplyNegatedFlags(&cfg, n)

	if cfg.SourceDir != "./original" || cfg.OutputDir != "./opus" {
		t.Errorf("default dirs: %q -> %q", cfg.SourceDir, cfg.OutputDir)
	}
	if cfg.Bitrate != "20k" {
		t.Errorf("default bitrate: %q", cfg.Bitrate)
	}
	if !cfg.SkipExisting || !cfg.HandleImages {
		t.Error("skip/images defaults should be enabled")
	}
}

func TestRegisterFlags_NegatedAndShort(t *testing.T) {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	n := RegisterFlags(fs, &cfg)

	args := []string{"-s", "/in", "-o", "/out", "-b", "24k", "-w", "4",
		"--stereo", "increase-bitrate", "--no-skip", "--no-images", "--no-color", "-v"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ApplyNegatedFlags(&cfg, n)

	if cfg.SourceDir != "/in" || cfg.OutputDir != "/out" {
		t.Errorf("dirs: %q -> %q", cfg.SourceDir, cfg.OutputDir)
	}
	if cfg.Bitrate != "24k" || cfg.Workers != 4 {
		t.Errorf("bitrate=%q workers=%d", cfg.Bitrate, cfg.Workers)
	}
	if cfg.Stereo != StereoIncrease {
		t.Errorf("stereo: %q", cfg.Stereo)
	}
	if cfg.SkipExisting {
		t.Error("--no-skip should clear SkipExisting")
	}
	if cfg.HandleImages {
		t.Error("--no-images should clear HandleImages")
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("color mode: %q", cfg.ColorMode)
	}
	if !cfg.Verbose {
		t.Error("-v should set Verbose")
	}
}

func TestLoadFile_PrecedenceUnderFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opusbooks.toml")
	content := `
source = "/books/in"
bitrate = "32k"
workers = 2
stereo = "keep"
skip_existing = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	n := RegisterFlags(fs, &cfg)

	// --bitrate on the command line beats the config file; everything else
	// comes from the file.
	if err := fs.Parse([]string{"--bitrate", "24k"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := LoadFile(&cfg, path, fs); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	ApplyNegatedFlags(&cfg, n)

	if cfg.Bitrate != "24k" {
		t.Errorf("flag should win: bitrate = %q", cfg.Bitrate)
	}
	if cfg.SourceDir != "/books/in" {
		t.Errorf("source from file: %q", cfg.SourceDir)
	}
	if cfg.Workers != 2 || cfg.Stereo != StereoKeep {
		t.Errorf("workers=%d stereo=%q", cfg.Workers, cfg.Stereo)
	}
	if cfg.SkipExisting {
		t.Error("skip_existing=false from file should clear SkipExisting")
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, &cfg)
	_ = fs.Parse(nil)

	if err := LoadFile(&cfg, "/nonexistent/opusbooks.toml", fs); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}
}

package policy

import (
	"testing"

	"github.com/kadykov/audiobook-opus-converter/internal/config"
)

func TestParseBitrate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"default", "20k", 20, false},
		{"high quality", "32k", 32, false},
		{"uppercase", "24K", 24, false},
		{"whitespace", " 15k ", 15, false},
		{"missing suffix", "20", 0, true},
		{"zero", "0k", 0, true},
		{"negative", "-5k", 0, true},
		{"non-numeric", "lots-k", 0, true},
		{"fractional", "20.5k", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBitrate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBitrate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && b.Kbps != tt.want {
				t.Errorf("ParseBitrate(%q) = %d kbps, want %d", tt.in, b.Kbps, tt.want)
			}
		})
	}
}

func TestBitrate_String(t *testing.T) {
	if got := (Bitrate{Kbps: 20}).String(); got != "20k" {
		t.Errorf("String() = %q, want %q", got, "20k")
	}
}

func TestComputePlan_MonoIgnoresStrategy(t *testing.T) {
	requested := Bitrate{Kbps: 20}
	for _, strategy := range []config.StereoStrategy{
		config.StereoDownmix, config.StereoKeep, config.StereoIncrease,
	} {
		for _, channels := range []int{0, 1} {
			plan := ComputePlan(requested, strategy, channels)
			if plan.Channels != 1 {
				t.Errorf("%s/ch=%d: channels = %d, want 1", strategy, channels, plan.Channels)
			}
			if plan.Bitrate != requested {
				t.Errorf("%s/ch=%d: bitrate = %s, want %s", strategy, channels, plan.Bitrate, requested)
			}
		}
	}
}

func TestComputePlan_StereoStrategies(t *testing.T) {
	tests := []struct {
		name         string
		strategy     config.StereoStrategy
		requested    int
		wantChannels int
		wantKbps     int
	}{
		{"downmix goes mono", config.StereoDownmix, 20, 1, 20},
		{"keep stays stereo", config.StereoKeep, 20, 2, 20},
		{"increase 20k to 32k", config.StereoIncrease, 20, 2, 32},
		{"increase 24k floors 38.4 to 38k", config.StereoIncrease, 24, 2, 38},
		{"increase 15k to 24k", config.StereoIncrease, 15, 2, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := ComputePlan(Bitrate{Kbps: tt.requested}, tt.strategy, 2)
			if plan.Channels != tt.wantChannels {
				t.Errorf("channels = %d, want %d", plan.Channels, tt.wantChannels)
			}
			if plan.Bitrate.Kbps != tt.wantKbps {
				t.Errorf("bitrate = %s, want %dk", plan.Bitrate, tt.wantKbps)
			}
		})
	}
}

func TestComputePlan_SurroundTreatedAsStereo(t *testing.T) {
	// 5.1 input with keep still targets two channels; opus encoding of
	// audiobooks never emits more than stereo.
	plan := ComputePlan(Bitrate{Kbps: 20}, config.StereoKeep, 6)
	if plan.Channels != 2 {
		t.Errorf("channels = %d, want 2", plan.Channels)
	}
}

func TestShouldSkipReencode(t *testing.T) {
	planned := Bitrate{Kbps: 20}
	tests := []struct {
		name    string
		codec   string
		bitRate int64
		want    bool
	}{
		{"opus below target", "opus", 16_000, true},
		{"opus exactly at target", "opus", 20_000, true},
		{"opus above target re-encodes", "opus", 32_000, false},
		{"opus unknown bitrate re-encodes", "opus", 0, false},
		{"mp3 never skips", "mp3", 16_000, false},
		{"flac never skips", "flac", 900_000, false},
		{"case-insensitive codec", "Opus", 16_000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldSkipReencode(tt.codec, tt.bitRate, planned)
			if got != tt.want {
				t.Errorf("ShouldSkipReencode(%q, %d, %s) = %v, want %v",
					tt.codec, tt.bitRate, planned, got, tt.want)
			}
		})
	}
}

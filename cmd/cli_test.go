// SPDX-License-Identifier: MIT
package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseArgsDefaults(t *testing.T) {
	opts, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if opts.Command != CommandRun || opts.Headless {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Config.Audio.SampleRate != 16000 || opts.Config.Tuner.InitialTarget != "E" {
		t.Errorf("defaults not loaded: %+v", opts.Config)
	}
}

func TestParseArgsFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuner.yaml")
	content := "audio:\n  sample_rate: 44100\ntuner:\n  initial_target: D\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := ParseArgs([]string{
		"--config", path,
		"--target", "A",
		"--correlation", "fft",
		"-b", "2048",
		"--ws", "--ws-addr", ":9001",
		"--headless", "-v",
	})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}

	cfg := opts.Config
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("file value lost: sample rate %.0f", cfg.Audio.SampleRate)
	}
	if cfg.Tuner.InitialTarget != "A" || cfg.Tuner.Correlation != "fft" || cfg.Audio.FramesPerBuffer != 2048 {
		t.Errorf("flags not applied: %+v %+v", cfg.Tuner, cfg.Audio)
	}
	if !cfg.Transport.WebSocketEnabled || cfg.Transport.WebSocketAddress != ":9001" {
		t.Errorf("transport flags not applied: %+v", cfg.Transport)
	}
	if !opts.Headless || !opts.Verbose || cfg.LogLevel != "debug" {
		t.Errorf("output flags not applied: %+v", opts)
	}
}

func TestParseArgsCommands(t *testing.T) {
	opts, err := ParseArgs([]string{"list"})
	if err != nil || opts.Command != CommandList {
		t.Errorf("list: %+v, %v", opts, err)
	}

	opts, err = ParseArgs([]string{"analyze", "take.wav", "--target", "B"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if opts.Command != CommandAnalyze || opts.Input != "take.wav" || opts.Config.Tuner.InitialTarget != "B" {
		t.Errorf("analyze: %+v", opts)
	}

	if _, err := ParseArgs([]string{"analyze"}); err == nil {
		t.Error("expected an error for analyze without a file")
	}
}

func TestParseArgsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"Bad target", []string{"--target", "H"}, "initial_target"},
		{"Bad correlation", []string{"--correlation", "yin"}, "correlation"},
		{"Frames too small", []string{"-b", "128"}, "frames_per_buffer"},
		{"Unknown flag", []string{"--loud"}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

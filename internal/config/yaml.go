// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"guitartuner/internal/analysis"
	applog "guitartuner/internal/log"
	"guitartuner/internal/notes"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Hardware and processing limits.
const (
	MinDeviceID     = -1     // -1 represents the system default device.
	MinSampleRate   = 8000   // Minimum usable sample rate (Hz).
	MaxSampleRate   = 192000 // Maximum supported sample rate (Hz).
	MaxBufferFrames = 8192   // Maximum frames per buffer.
)

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	LogLevel  string          `yaml:"log_level"` // Logging level ("debug", "info", "warn", "error").
	Audio     AudioConfig     `yaml:"audio"`
	Tuner     TunerConfig     `yaml:"tuner"`
	Recording RecordingConfig `yaml:"recording"`
	Transport TransportConfig `yaml:"transport"`
}

// AudioConfig holds settings related to audio capture.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index for audio input (-1 for default).
	SampleRate      float64 `yaml:"sample_rate"`       // Sample rate in Hz.
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Samples per analysed chunk.
	LowLatency      bool    `yaml:"low_latency"`       // Request low latency settings from the PortAudio device.
	QueueDepth      int     `yaml:"queue_depth"`       // Chunks buffered between capture and analysis.
}

// TunerConfig holds settings for the tuning engine and its display.
type TunerConfig struct {
	InitialTarget   string        `yaml:"initial_target"`   // Target note at startup, e.g. "E".
	Correlation     string        `yaml:"correlation"`      // "direct" or "fft".
	DisplayInterval time.Duration `yaml:"display_interval"` // Refresh period of the display.
}

// RecordingConfig holds settings related to audio recording functionality.
type RecordingConfig struct {
	Enabled     bool   `yaml:"enabled"`      // Record captured input to a WAV file.
	OutputDir   string `yaml:"output_dir"`   // Directory to save recorded audio files.
	FilePattern string `yaml:"file_pattern"` // time.Format layout for file names.
}

// TransportConfig holds settings related to publishing tuner state.
type TransportConfig struct {
	WebSocketEnabled bool          `yaml:"websocket_enabled"`  // Serve snapshots and accept commands over WebSocket.
	WebSocketAddress string        `yaml:"websocket_address"`  // Listen address, e.g. ":8080".
	UDPEnabled       bool          `yaml:"udp_enabled"`        // Send binary snapshots over UDP.
	UDPTargetAddress string        `yaml:"udp_target_address"` // Target address and port for UDP packets.
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`  // Interval between UDP packets.
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     MinDeviceID,
			SampleRate:      16000,
			FramesPerBuffer: 1024,
			LowLatency:      false,
			QueueDepth:      16,
		},
		Tuner: TunerConfig{
			InitialTarget:   "E",
			Correlation:     "direct",
			DisplayInterval: 500 * time.Millisecond,
		},
		Recording: RecordingConfig{
			Enabled:     false,
			OutputDir:   "./recordings",
			FilePattern: "recording-02-01-2006-150405.wav",
		},
		Transport: TransportConfig{
			WebSocketEnabled: false,
			WebSocketAddress: ":8080",
			UDPEnabled:       false,
			UDPTargetAddress: "127.0.0.1:9090",
			UDPSendInterval:  100 * time.Millisecond,
		},
	}
}

// LoadConfig loads configuration from a YAML file specified by path. If path is empty,
// it searches default locations ("config.yaml"). If no file is found, it uses built-in
// defaults. After loading defaults or from file, it applies environment variable
// overrides and validates the final configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, candidate := range []string{"config.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment overrides apply after the file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if _, ok := applog.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log_level %q is not a known level", c.LogLevel)
	}

	// Audio
	if c.Audio.InputDevice < MinDeviceID {
		return fmt.Errorf("audio.input_device must be >= %d, got %d", MinDeviceID, c.Audio.InputDevice)
	}
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate must be in [%d, %d], got %.0f",
			MinSampleRate, MaxSampleRate, c.Audio.SampleRate)
	}
	_, maxLag := analysis.DefaultParams().LagRange(c.Audio.SampleRate)
	if c.Audio.FramesPerBuffer <= maxLag || c.Audio.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("audio.frames_per_buffer must be in (%d, %d] at %.0f Hz, got %d",
			maxLag, MaxBufferFrames, c.Audio.SampleRate, c.Audio.FramesPerBuffer)
	}
	if c.Audio.QueueDepth < 1 {
		return fmt.Errorf("audio.queue_depth must be positive, got %d", c.Audio.QueueDepth)
	}

	// Tuner
	if !notes.IsNoteName(c.Tuner.InitialTarget) {
		return fmt.Errorf("tuner.initial_target %q is not a note name", c.Tuner.InitialTarget)
	}
	if _, err := c.CorrelationMethod(); err != nil {
		return fmt.Errorf("tuner.correlation: %w", err)
	}
	if c.Tuner.DisplayInterval <= 0 {
		return fmt.Errorf("tuner.display_interval must be positive")
	}

	// Recording
	if c.Recording.Enabled && c.Recording.FilePattern == "" {
		return fmt.Errorf("recording.file_pattern must be set when recording is enabled")
	}

	// Transport
	if c.Transport.WebSocketEnabled && c.Transport.WebSocketAddress == "" {
		return fmt.Errorf("transport.websocket_address must be set when WebSocket is enabled")
	}
	if c.Transport.UDPEnabled {
		if c.Transport.UDPTargetAddress == "" {
			return fmt.Errorf("transport.udp_target_address must be set when UDP is enabled")
		}
		if c.Transport.UDPSendInterval <= 0 {
			return fmt.Errorf("transport.udp_send_interval must be positive when UDP is enabled")
		}
	}

	return nil
}

// CorrelationMethod resolves Tuner.Correlation.
func (c *Config) CorrelationMethod() (analysis.CorrelationMethod, error) {
	return analysis.ParseCorrelationMethod(c.Tuner.Correlation)
}

// RecordingPath returns the file a recording started at now is written to.
func (c *Config) RecordingPath(now time.Time) string {
	return filepath.Join(c.Recording.OutputDir, now.UTC().Format(c.Recording.FilePattern))
}

// applyEnvOverrides replaces fields with TUNER_* environment variables.
// Values that fail to parse are ignored with a warning.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("TUNER_LOG_LEVEL"); ok {
		c.LogLevel = val
		applog.Infof("Config: overriding log_level from env: %s", val)
	}

	// TUNER_INPUT_DEVICE
	if val, ok := os.LookupEnv("TUNER_INPUT_DEVICE"); ok {
		if id, err := strconv.Atoi(val); err == nil {
			c.Audio.InputDevice = id
			applog.Infof("Config: overriding audio.input_device from env: %d", id)
		} else {
			applog.Warnf("Config: ignoring TUNER_INPUT_DEVICE=%q: %v", val, err)
		}
	}

	// TUNER_TARGET
	if val, ok := os.LookupEnv("TUNER_TARGET"); ok {
		c.Tuner.InitialTarget = val
		applog.Infof("Config: overriding tuner.initial_target from env: %s", val)
	}

	// TUNER_WS_{...}
	if val, ok := os.LookupEnv("TUNER_WS_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.WebSocketEnabled = b
			applog.Infof("Config: overriding transport.websocket_enabled from env: %v", b)
		} else {
			applog.Warnf("Config: ignoring TUNER_WS_ENABLED=%q: %v", val, err)
		}
	}
	if val, ok := os.LookupEnv("TUNER_WS_ADDRESS"); ok {
		c.Transport.WebSocketAddress = val
		applog.Infof("Config: overriding transport.websocket_address from env: %s", val)
	}

	// TUNER_UDP_{...}
	if val, ok := os.LookupEnv("TUNER_UDP_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.UDPEnabled = b
			applog.Infof("Config: overriding transport.udp_enabled from env: %v", b)
		} else {
			applog.Warnf("Config: ignoring TUNER_UDP_ENABLED=%q: %v", val, err)
		}
	}
	if val, ok := os.LookupEnv("TUNER_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
		applog.Infof("Config: overriding transport.udp_target_address from env: %s", val)
	}
	if val, ok := os.LookupEnv("TUNER_UDP_SEND_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPSendInterval = d
			applog.Infof("Config: overriding transport.udp_send_interval from env: %s", d)
		} else {
			applog.Warnf("Config: ignoring TUNER_UDP_SEND_INTERVAL=%q: %v", val, err)
		}
	}
}

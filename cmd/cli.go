// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"guitartuner/internal/config"
	"guitartuner/pkg/build"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Commands selected by ParseArgs.
const (
	CommandRun     = ""
	CommandList    = "list"
	CommandAnalyze = "analyze"
)

// Options is the outcome of parsing the command line.
type Options struct {
	Config   *config.Config
	Command  string
	Input    string // WAV file for analyze.
	Headless bool   // Print the display instead of running the terminal UI.
	Verbose  bool
}

// flagValues receives flag values before they are merged into the config.
type flagValues struct {
	configPath  string
	device      int
	sampleRate  float64
	frames      int
	lowLatency  bool
	target      string
	correlation string
	record      bool
	outputDir   string
	wsEnabled   bool
	wsAddress   string
	udpEnabled  bool
	udpAddress  string
	verbose     bool
	headless    bool
}

// ParseArgs parses args (without the program name). The configuration is
// loaded from --config (or ./config.yaml), then environment overrides, then
// any flags that were set explicitly.
func ParseArgs(args []string) (*Options, error) {
	buildInfo := build.GetBuildFlags()
	defaults := config.Default()
	options := &Options{}
	var flags flagValues

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = CommandRun
			return load(cmd.Flags(), &flags, options)
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio input devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = CommandList
			return load(cmd.Flags(), &flags, options)
		},
	}
	rootCmd.AddCommand(listCmd)

	// Analyze command
	analyzeCmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Replay a WAV file through the tuner and print every change of reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = CommandAnalyze
			options.Input = args[0]
			return load(cmd.Flags(), &flags, options)
		},
	}
	rootCmd.AddCommand(analyzeCmd)

	pf := rootCmd.PersistentFlags()

	pf.StringVarP(&flags.configPath, "config", "f", "",
		"Path to a YAML configuration file (default ./config.yaml if present)")

	// Audio Device Configuration
	pf.IntVarP(&flags.device, "device", "d", defaults.Audio.InputDevice,
		"Specify input device ID. Use 'list' command to see available devices.")
	pf.Float64VarP(&flags.sampleRate, "sample-rate", "s", defaults.Audio.SampleRate,
		"Sample rate, measured in Hertz (Hz)")
	pf.IntVarP(&flags.frames, "frames-per-buffer", "b", defaults.Audio.FramesPerBuffer,
		"Samples per analysed chunk")
	pf.BoolVarP(&flags.lowLatency, "low-latency", "l", defaults.Audio.LowLatency,
		"Use low latency mode for real-time processing")

	// Tuner Configuration
	pf.StringVarP(&flags.target, "target", "t", defaults.Tuner.InitialTarget,
		"Initial target note (E, A, D, G, B)")
	pf.StringVar(&flags.correlation, "correlation", defaults.Tuner.Correlation,
		"Autocorrelation method: direct or fft")

	// Recording Configuration
	pf.BoolVarP(&flags.record, "record", "r", defaults.Recording.Enabled,
		"Record audio from the input device to a WAV file")
	pf.StringVarP(&flags.outputDir, "output-dir", "o", defaults.Recording.OutputDir,
		"Directory for recordings")

	// Transport Configuration
	pf.BoolVar(&flags.wsEnabled, "ws", defaults.Transport.WebSocketEnabled,
		"Serve snapshots and accept commands over WebSocket")
	pf.StringVar(&flags.wsAddress, "ws-addr", defaults.Transport.WebSocketAddress,
		"WebSocket listen address")
	pf.BoolVar(&flags.udpEnabled, "udp", defaults.Transport.UDPEnabled,
		"Publish binary snapshots over UDP")
	pf.StringVar(&flags.udpAddress, "udp-addr", defaults.Transport.UDPTargetAddress,
		"UDP target address")

	// Output Configuration
	pf.BoolVar(&flags.headless, "headless", false,
		"Print the display to stdout instead of running the terminal UI")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false,
		"Show debug output")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	if options.Config == nil {
		// --help or --version was handled by cobra.
		return nil, nil
	}
	return options, nil
}

// load builds the configuration and applies explicitly set flags on top.
func load(fs *pflag.FlagSet, flags *flagValues, options *Options) error {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return err
	}

	set := fs.Changed
	if set("device") {
		cfg.Audio.InputDevice = flags.device
	}
	if set("sample-rate") {
		cfg.Audio.SampleRate = flags.sampleRate
	}
	if set("frames-per-buffer") {
		cfg.Audio.FramesPerBuffer = flags.frames
	}
	if set("low-latency") {
		cfg.Audio.LowLatency = flags.lowLatency
	}
	if set("target") {
		cfg.Tuner.InitialTarget = flags.target
	}
	if set("correlation") {
		cfg.Tuner.Correlation = flags.correlation
	}
	if set("record") {
		cfg.Recording.Enabled = flags.record
	}
	if set("output-dir") {
		cfg.Recording.OutputDir = flags.outputDir
	}
	if set("ws") {
		cfg.Transport.WebSocketEnabled = flags.wsEnabled
	}
	if set("ws-addr") {
		cfg.Transport.WebSocketAddress = flags.wsAddress
	}
	if set("udp") {
		cfg.Transport.UDPEnabled = flags.udpEnabled
	}
	if set("udp-addr") {
		cfg.Transport.UDPTargetAddress = flags.udpAddress
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	options.Config = cfg
	options.Headless = flags.headless
	options.Verbose = flags.verbose
	return nil
}

// SPDX-License-Identifier: MIT
package main

import (
	"guitartuner/cmd"
	"guitartuner/internal/audio"
	applog "guitartuner/internal/log"
	"guitartuner/pkg/build"
	"os"
)

// main is the entry point for the tuner.
//
//  1. Startup: build information, command line and configuration, logging.
//  2. One-off commands (list, analyze) run and exit.
//  3. Live mode: capture, tuner session, transports and the display run
//     until interrupted, then everything is shut down in reverse order.
func main() {
	// Development builds have no ldflags; the defaults are fine.
	if err := build.Initialize(); err != nil {
		applog.Debugf("Build: %v", err)
	}

	options, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if options == nil {
		return // help or version
	}

	if err := applog.Configure(options.Config.LogLevel); err != nil {
		applog.Fatalf("%v", err)
	}

	switch options.Command {
	case cmd.CommandList:
		err = listDevices()
	case cmd.CommandAnalyze:
		err = analyzeFile(options.Config, options.Input, os.Stdout)
	default:
		err = runLive(options)
	}
	if err != nil {
		applog.Fatalf("%v", err)
	}
}

func listDevices() error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	return audio.ListDevices(os.Stdout)
}

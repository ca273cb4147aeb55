// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"guitartuner/cmd"
	"guitartuner/internal/audio"
	applog "guitartuner/internal/log"
	"guitartuner/internal/transport"
	"guitartuner/internal/transport/udp"
	"guitartuner/internal/tui"
	"guitartuner/internal/tuner"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// runLive captures from the configured device until interrupted.
func runLive(options *cmd.Options) error {
	cfg := options.Config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	session, err := newSession(cfg, cfg.Audio.SampleRate)
	if err != nil {
		return err
	}

	// Transports
	var publish transport.Multi
	if options.Verbose {
		publish = append(publish, transport.NewLoggingTransport())
	}
	if cfg.Transport.WebSocketEnabled {
		wst := transport.NewWebSocketTransport(cfg.Transport.WebSocketAddress, session)
		wst.Start()
		publish = append(publish, wst)
	}
	defer publish.Close()

	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewUDPSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			return err
		}
		defer sender.Close()

		publisher, err := udp.NewUDPPublisher(cfg.Transport.UDPSendInterval, sender, session)
		if err != nil {
			return err
		}
		publisher.Start()
		defer publisher.Close()
	}

	// Capture
	engine, err := audio.NewEngine(cfg.Audio, session)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			applog.Errorf("Audio: closing engine: %v", err)
		}
	}()

	if cfg.Recording.Enabled {
		path := cfg.RecordingPath(time.Now())
		if err := engine.Pipeline().StartRecording(path, int(cfg.Audio.SampleRate)); err != nil {
			return fmt.Errorf("start recording: %w", err)
		}
		applog.Infof("Audio: recording to %s", path)
	}

	if err := engine.StartInputStream(); err != nil {
		return err
	}
	captureErr := make(chan error, 1)
	go func() {
		captureErr <- engine.Run(ctx)
	}()

	onTick := func(s tuner.State) {
		if len(publish) > 0 {
			publish.Send(transport.NewSnapshot(s))
		}
	}

	if options.Headless {
		runHeadless(ctx, session, cfg.Tuner.DisplayInterval, onTick)
	} else if err := runTUI(ctx, session, cfg.Tuner.DisplayInterval, onTick); err != nil {
		stop()
		<-captureErr
		return err
	}

	stop()
	return <-captureErr
}

// runHeadless prints the display every interval until ctx is done.
func runHeadless(ctx context.Context, session *tuner.Session, interval time.Duration, onTick func(tuner.State)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := session.Snapshot()
			onTick(s)
			fmt.Printf("%s\n\n", tuner.FormatDisplay(s))
		}
	}
}

// runTUI runs the terminal UI. Logs go to a file while it owns the screen.
func runTUI(ctx context.Context, session *tuner.Session, interval time.Duration, onTick func(tuner.State)) error {
	logPath := filepath.Join(os.TempDir(), "guitartuner.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	applog.SetOutput(logFile)
	defer func() {
		applog.SetOutput(os.Stderr)
		logFile.Close()
	}()

	program := tea.NewProgram(tui.NewModel(session, interval, onTick),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}

// SPDX-License-Identifier: MIT
/*
Package audio captures mono 16-bit input with PortAudio and hands it to the
tuner one chunk at a time.

Thread Safety:
  - The PortAudio callback only copies into a pooled buffer (Pipeline.Push)
  - A single consumer goroutine (Pipeline.Run) processes and records chunks
  - Chunks arriving while the consumer is behind are dropped and counted
*/
package audio

import (
	"context"
	"fmt"
	"guitartuner/internal/config"
	applog "guitartuner/internal/log"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Engine owns the input stream and the pipeline behind it.
type Engine struct {
	config config.AudioConfig

	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	pipeline *Pipeline
}

// NewEngine resolves the configured input device and prepares a pipeline
// feeding sink. PortAudio must already be initialized.
func NewEngine(cfg config.AudioConfig, sink Sink) (*Engine, error) {
	inputDevice, err := InputDevice(cfg.InputDevice)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:      cfg,
		inputDevice: inputDevice,
		pipeline:    NewPipeline(sink, cfg.FramesPerBuffer, cfg.QueueDepth),
	}

	if cfg.LowLatency {
		engine.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		engine.inputLatency = inputDevice.DefaultHighInputLatency
	}

	return engine, nil
}

// Device returns the input device in use.
func (e *Engine) Device() *portaudio.DeviceInfo {
	return e.inputDevice
}

// Pipeline returns the chunk queue between the stream and the sink.
func (e *Engine) Pipeline() *Pipeline {
	return e.pipeline
}

// Run processes chunks until ctx is cancelled, then stops the input stream.
// StartInputStream must have been called.
func (e *Engine) Run(ctx context.Context) error {
	applog.Infof("Audio: capturing from %q at %.0f Hz, %d frames per chunk",
		e.inputDevice.Name, e.config.SampleRate, e.config.FramesPerBuffer)

	e.pipeline.Run(ctx)

	stats := e.pipeline.Stats()
	applog.Infof("Audio: stopped after %d chunks (%d dropped)", stats.Processed, stats.Dropped)
	return e.StopInputStream()
}

// StartInputStream opens and starts a mono int16 input stream.
func (e *Engine) StartInputStream() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: 1,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0, // No output device
			Device:   nil,
		},
		FramesPerBuffer: e.config.FramesPerBuffer,
		SampleRate:      e.config.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	e.inputStream = stream

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		e.inputStream = nil
		return fmt.Errorf("start input stream: %w", err)
	}

	return nil
}

// StopInputStream stops and closes the stream if it is open.
func (e *Engine) StopInputStream() error {
	if e.inputStream == nil {
		return nil
	}
	if err := e.inputStream.Stop(); err != nil {
		return err
	}
	if err := e.inputStream.Close(); err != nil {
		return err
	}
	e.inputStream = nil
	return nil
}

// processInputStream runs on the PortAudio thread and must not block.
func (e *Engine) processInputStream(in []int16) {
	if !e.pipeline.Push(in) {
		applog.Debugf("Audio: consumer behind, chunk dropped")
	}
}

// Close stops any recording and the input stream.
func (e *Engine) Close() error {
	if path, err := e.pipeline.StopRecording(); err != nil {
		return err
	} else if path != "" {
		applog.Infof("Audio: recording saved to %s", path)
	}
	return e.StopInputStream()
}

// SPDX-License-Identifier: MIT
package tuner

import (
	"guitartuner/internal/analysis"
	applog "guitartuner/internal/log"
	"guitartuner/internal/pcm"
	"sync"
)

// Session owns one tuner state and serializes every update to it. Chunks
// delivered from several goroutines are processed one at a time, in the order
// the lock is acquired.
type Session struct {
	mu         sync.Mutex
	engine     *Engine
	state      State
	sampleRate float64
	samples    []float64 // Decode buffer reused between PCM chunks.
	last       analysis.Outcome
}

// NewSession starts a session from initial for audio at sampleRate.
func NewSession(engine *Engine, sampleRate float64, initial State) *Session {
	return &Session{
		engine:     engine,
		state:      initial,
		sampleRate: sampleRate,
		last:       analysis.InsufficientSignal,
	}
}

// ProcessPCM decodes a little endian 16-bit chunk and processes it.
func (s *Session) ProcessPCM(data []byte) analysis.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = pcm.DecodeS16LE(s.samples, data)
	return s.process(s.samples)
}

// ProcessSamples processes a chunk of normalized samples.
func (s *Session) ProcessSamples(samples []float64) analysis.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.process(samples)
}

func (s *Session) process(samples []float64) analysis.Result {
	next, result := s.engine.Process(s.state, analysis.Frame{
		Samples:    samples,
		SampleRate: s.sampleRate,
	})
	s.state = next

	if result.Outcome != s.last {
		applog.Debugf("Tuner: %s -> %s (level %.3f, %d peaks)", s.last, result.Outcome, result.Level, result.Peaks)
		s.last = result.Outcome
	}
	return result
}

// HandleCommand applies transcribed command text and returns what was parsed.
func (s *Session) HandleCommand(text string) Command {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, cmd := s.engine.HandleCommand(s.state, text)
	s.state = next
	if cmd.Kind != NoOp {
		applog.Infof("Tuner: %s %s (active=%t, target=%s)", cmd.Kind, cmd.Note, next.Active, next.Target)
	}
	return cmd
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Display renders the current state with FormatDisplay.
func (s *Session) Display() string {
	return FormatDisplay(s.Snapshot())
}

// SampleRate returns the rate chunks are interpreted at.
func (s *Session) SampleRate() float64 {
	return s.sampleRate
}

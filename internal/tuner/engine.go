// SPDX-License-Identifier: MIT
package tuner

import (
	"fmt"
	"guitartuner/internal/analysis"
	"guitartuner/internal/notes"
)

// Engine holds the immutable collaborators of the tuner and applies them to
// states. It has no mutable fields, so one Engine can serve any number of
// sessions concurrently.
type Engine struct {
	detector  analysis.PitchDetector
	tuning    notes.Tuning
	smoothing Smoothing
}

// NewEngine returns an Engine using detector for pitch detection, tuning for
// note names and targets, and smoothing for the stability filter.
func NewEngine(detector analysis.PitchDetector, tuning notes.Tuning, smoothing Smoothing) (*Engine, error) {
	if detector == nil {
		return nil, fmt.Errorf("tuner engine requires a pitch detector")
	}
	if err := smoothing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smoothing: %w", err)
	}
	return &Engine{
		detector:  detector,
		tuning:    tuning,
		smoothing: smoothing,
	}, nil
}

// Tuning returns the open-string table the engine maps readings onto.
func (e *Engine) Tuning() notes.Tuning {
	return e.tuning
}

// Process runs pitch detection on frame and folds the outcome into s. When
// nothing is detected the previous reading is kept unchanged.
func (e *Engine) Process(s State, frame analysis.Frame) (State, analysis.Result) {
	result := e.detector.Detect(frame)
	if !result.Found() {
		return s, result
	}
	return e.Observe(s, result.Frequency), result
}

// Observe applies the stability filter to a detected frequency and returns
// the state with a fresh reading.
func (e *Engine) Observe(s State, frequency float64) State {
	var previous float64
	if s.Reading != nil {
		previous = s.Reading.Frequency
	}
	smoothed := e.smoothing.Blend(previous, s.Reading != nil, frequency)
	s.Reading = e.reading(smoothed, s.Target)
	return s
}

// Apply returns s with cmd applied. Changing the target recomputes the
// deviation of an existing reading against the new target.
func (e *Engine) Apply(s State, cmd Command) State {
	switch cmd.Kind {
	case SetTarget:
		s.Target = cmd.Note
		if s.Reading != nil {
			s.Reading = e.reading(s.Reading.Frequency, s.Target)
		}
	case EnterTunerMode:
		s.Active = true
	case ExitTunerMode:
		s.Active = false
	}
	return s
}

// HandleCommand parses text and applies the resulting command to s.
func (e *Engine) HandleCommand(s State, text string) (State, Command) {
	cmd := ParseCommand(text)
	return e.Apply(s, cmd), cmd
}

func (e *Engine) reading(frequency float64, target string) *Reading {
	return &Reading{
		Note:      e.tuning.ClosestNote(frequency),
		Pitch:     notes.FrequencyToNote(frequency),
		Frequency: frequency,
		Cents:     notes.CentsDeviation(frequency, e.tuning.TargetFrequency(target)),
	}
}

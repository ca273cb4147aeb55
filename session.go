// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"guitartuner/internal/analysis"
	"guitartuner/internal/config"
	"guitartuner/internal/notes"
	"guitartuner/internal/tuner"
)

// newSession builds the detector, engine and session described by cfg for
// audio at sampleRate.
func newSession(cfg *config.Config, sampleRate float64) (*tuner.Session, error) {
	method, err := cfg.CorrelationMethod()
	if err != nil {
		return nil, err
	}

	tuning := notes.StandardTuning()
	detector, err := analysis.NewDetector(analysis.DefaultParams(), tuning, method)
	if err != nil {
		return nil, fmt.Errorf("create detector: %w", err)
	}
	engine, err := tuner.NewEngine(detector, tuning, tuner.DefaultSmoothing())
	if err != nil {
		return nil, fmt.Errorf("create tuner engine: %w", err)
	}

	state := tuner.NewState()
	state.Target = cfg.Tuner.InitialTarget
	return tuner.NewSession(engine, sampleRate, state), nil
}

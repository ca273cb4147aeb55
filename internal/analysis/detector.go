// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"guitartuner/internal/notes"
)

// Detector chains the signal gate, Hamming window, autocorrelation, peak
// extraction and fundamental selection. It holds only immutable configuration
// and is safe for concurrent use.
type Detector struct {
	params Params
	tuning notes.Tuning
	method CorrelationMethod
}

// Compile-time check for interface implementation.
var _ PitchDetector = (*Detector)(nil)

// NewDetector validates params and returns a detector scoring against tuning.
func NewDetector(params Params, tuning notes.Tuning, method CorrelationMethod) (*Detector, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector parameters: %w", err)
	}
	if method != CorrelationDirect && method != CorrelationFFT {
		return nil, fmt.Errorf("unsupported correlation method %d", method)
	}
	return &Detector{
		params: params.clone(),
		tuning: tuning,
		method: method,
	}, nil
}

// Params returns a copy of the detector's parameters.
func (d *Detector) Params() Params {
	return d.params.clone()
}

// Detect estimates the fundamental of frame.
func (d *Detector) Detect(frame Frame) Result {
	samples := frame.Samples
	if len(samples) < 2 || frame.SampleRate <= 0 {
		return Result{Outcome: InsufficientSignal}
	}

	level := SignalLevel(samples, d.params.Sensitivity)
	if level < d.params.SignalThreshold {
		return Result{Outcome: InsufficientSignal, Level: level}
	}

	profile := Autocorrelate(Hamming(samples), d.method)
	peaks := ExtractPeaks(profile, frame.SampleRate, d.params)
	res := Result{Level: level, Peaks: len(peaks)}

	freq, ok := SelectFundamental(peaks, d.params, d.tuning)
	switch {
	case !ok:
		res.Outcome = NoPeaks
	case freq < d.params.MinFrequency || freq > d.params.MaxFrequency:
		res.Outcome = OutOfRange
	default:
		res.Outcome = Detected
		res.Frequency = freq
	}
	return res
}

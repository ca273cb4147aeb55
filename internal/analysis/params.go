// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
)

// Params holds every constant the pitch detector depends on. It is a value
// type: construct one with DefaultParams, adjust fields if needed, and hand it
// to NewDetector, which keeps its own copy.
type Params struct {
	// Detection range and peak picking.
	MinFrequency  float64 // Lowest accepted fundamental (Hz).
	MaxFrequency  float64 // Highest accepted fundamental (Hz).
	PeakThreshold float64 // Minimum normalized autocorrelation strength of a peak.
	MinStartLag   int     // Lags below this are never considered.

	// Signal gate.
	Sensitivity     float64 // RMS is divided by this and clamped to [0,1].
	SignalThreshold float64 // Scaled level below which a frame is treated as silence.

	// Fundamental scoring.
	StrengthWeight        float64    // Multiplier applied to peak strength.
	StringTolerance       float64    // Relative tolerance for open-string and harmonic matches.
	StringBonus           float64    // Added when a peak is near an open string.
	HarmonicDivisors      []int      // Sub-multiples checked for the harmonic penalty.
	HarmonicStrengthRatio float64    // Sub-multiple peak must be at least this fraction as strong.
	HarmonicPenalty       float64    // Subtracted from peaks flagged as harmonics.
	LowStringBand         [2]float64 // Inclusive Hz band that earns LowStringBonus.
	LowStringBonus        float64    // Added to non-harmonic peaks inside LowStringBand.
}

// DefaultParams returns the tuning engine's reference constants.
func DefaultParams() Params {
	return Params{
		MinFrequency:  70,
		MaxFrequency:  350,
		PeakThreshold: 0.4,
		MinStartLag:   5,

		Sensitivity:     0.1,
		SignalThreshold: 0.01,

		StrengthWeight:        2,
		StringTolerance:       0.05,
		StringBonus:           1.0,
		HarmonicDivisors:      []int{2, 3, 4},
		HarmonicStrengthRatio: 0.6,
		HarmonicPenalty:       0.5,
		LowStringBand:         [2]float64{80, 115},
		LowStringBonus:        0.5,
	}
}

// Validate checks that the parameters describe a usable detector.
func (p Params) Validate() error {
	if p.MinFrequency <= 0 || p.MaxFrequency <= p.MinFrequency {
		return fmt.Errorf("invalid frequency range [%.1f, %.1f]", p.MinFrequency, p.MaxFrequency)
	}
	if p.PeakThreshold < 0 || p.PeakThreshold >= 1 {
		return fmt.Errorf("peak threshold must be in [0,1), got %.2f", p.PeakThreshold)
	}
	if p.MinStartLag < 1 {
		return fmt.Errorf("minimum start lag must be at least 1, got %d", p.MinStartLag)
	}
	if p.Sensitivity <= 0 {
		return fmt.Errorf("sensitivity must be positive, got %f", p.Sensitivity)
	}
	for _, d := range p.HarmonicDivisors {
		if d < 2 {
			return fmt.Errorf("harmonic divisors must be >= 2, got %d", d)
		}
	}
	return nil
}

// LagRange returns the autocorrelation lags [start, end) that correspond to
// the detection range at the given sample rate.
func (p Params) LagRange(sampleRate float64) (start, end int) {
	minLag := int(sampleRate / p.MaxFrequency)
	maxLag := int(math.Ceil(sampleRate / p.MinFrequency))
	return max(p.MinStartLag, minLag), maxLag
}

// clone returns a copy that shares no slices with p.
func (p Params) clone() Params {
	p.HarmonicDivisors = append([]int(nil), p.HarmonicDivisors...)
	return p
}

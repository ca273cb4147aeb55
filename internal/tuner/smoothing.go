// SPDX-License-Identifier: MIT
package tuner

import (
	"fmt"
	"math"
)

// Smoothing controls the stability filter that blends each new detection
// with the previous reading.
type Smoothing struct {
	// StablePercent is the relative change, in percent of the previous value,
	// below which a detection counts as the same pitch.
	StablePercent float64
	// StableWeight is the weight of the new value for a stable pitch.
	StableWeight float64
	// ChangeWeight is the weight of the new value when the pitch moved.
	ChangeWeight float64
}

// DefaultSmoothing returns the 3% / 0.7 / 0.9 filter.
func DefaultSmoothing() Smoothing {
	return Smoothing{
		StablePercent: 3,
		StableWeight:  0.7,
		ChangeWeight:  0.9,
	}
}

// Validate checks that both weights lie in (0, 1].
func (s Smoothing) Validate() error {
	if s.StablePercent < 0 {
		return fmt.Errorf("stable percent must not be negative, got %.2f", s.StablePercent)
	}
	if s.StableWeight <= 0 || s.StableWeight > 1 {
		return fmt.Errorf("stable weight must be in (0,1], got %.2f", s.StableWeight)
	}
	if s.ChangeWeight <= 0 || s.ChangeWeight > 1 {
		return fmt.Errorf("change weight must be in (0,1], got %.2f", s.ChangeWeight)
	}
	return nil
}

// Blend returns the smoothed frequency for a new detection. Without a
// previous reading the detection is adopted as is.
func (s Smoothing) Blend(previous float64, hasPrevious bool, next float64) float64 {
	if !hasPrevious || previous <= 0 {
		return next
	}

	weight := s.ChangeWeight
	if math.Abs(next-previous)/previous*100 < s.StablePercent {
		weight = s.StableWeight
	}
	return weight*next + (1-weight)*previous
}

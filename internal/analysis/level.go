// SPDX-License-Identifier: MIT
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RMS returns the root mean square amplitude of samples, 0 for an empty slice.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return floats.Norm(samples, 2) / math.Sqrt(float64(len(samples)))
}

// SignalLevel scales the RMS of samples by sensitivity and clamps it to [0,1].
func SignalLevel(samples []float64, sensitivity float64) float64 {
	level := RMS(samples) / sensitivity
	return math.Max(0, math.Min(1, level))
}

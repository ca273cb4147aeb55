// SPDX-License-Identifier: MIT
package analysis

import "gonum.org/v1/gonum/dsp/window"

// Hamming returns a tapered copy of samples, each sample i multiplied by
// 0.54 - 0.46*cos(2*pi*i/(N-1)). The input is left untouched. Frames shorter
// than two samples have no defined window and must be rejected by the caller.
func Hamming(samples []float64) []float64 {
	out := make([]float64, len(samples))
	copy(out, samples)
	return window.Hamming(out)
}

// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"guitartuner/pkg/bitint"
	"strings"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// CorrelationMethod selects how the autocorrelation profile is computed.
// Both methods produce the same profile up to floating point rounding.
type CorrelationMethod int

const (
	// CorrelationDirect evaluates the lag sums directly, O(N^2).
	CorrelationDirect CorrelationMethod = iota
	// CorrelationFFT uses the power spectrum of a zero padded frame, O(N log N).
	CorrelationFFT
)

// String returns the configuration name of the method.
func (m CorrelationMethod) String() string {
	switch m {
	case CorrelationDirect:
		return "direct"
	case CorrelationFFT:
		return "fft"
	default:
		return "unknown"
	}
}

// ParseCorrelationMethod converts a configuration name (case-insensitive) to a
// CorrelationMethod. Unknown names return CorrelationDirect and an error.
func ParseCorrelationMethod(name string) (CorrelationMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "direct":
		return CorrelationDirect, nil
	case "fft":
		return CorrelationFFT, nil
	default:
		return CorrelationDirect, fmt.Errorf("unknown correlation method: '%s'", name)
	}
}

// Autocorrelate computes the profile with the given method.
func Autocorrelate(x []float64, method CorrelationMethod) []float64 {
	if method == CorrelationFFT {
		return AutocorrelateFFT(x)
	}
	return AutocorrelateDirect(x)
}

// AutocorrelateDirect returns profile[lag] = sum(x[i]*x[i+lag]) / (N-lag) for
// every lag in [0, N).
func AutocorrelateDirect(x []float64) []float64 {
	n := len(x)
	profile := make([]float64, n)
	for lag := range n {
		profile[lag] = floats.Dot(x[:n-lag], x[lag:]) / float64(n-lag)
	}
	return profile
}

// AutocorrelateFFT computes the same profile as AutocorrelateDirect through the
// Wiener-Khinchin theorem. The frame is zero padded to at least 2N so that the
// circular correlation equals the linear one for every lag below N.
func AutocorrelateFFT(x []float64) []float64 {
	n := len(x)
	profile := make([]float64, n)
	if n == 0 {
		return profile
	}

	size := bitint.NextPowerOfTwo(2 * n)
	padded := make([]float64, size)
	copy(padded, x)

	fft := fourier.NewFFT(size)
	coeffs := fft.Coefficients(nil, padded)
	for i, c := range coeffs {
		power := real(c)*real(c) + imag(c)*imag(c)
		coeffs[i] = complex(power, 0)
	}

	// gonum's inverse transform is unnormalized.
	sums := fft.Sequence(nil, coeffs)
	scale := 1 / float64(size)
	for lag := range n {
		profile[lag] = sums[lag] * scale / float64(n-lag)
	}
	return profile
}

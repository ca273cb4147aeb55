// SPDX-License-Identifier: MIT
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Peak is a local maximum of the autocorrelation profile.
type Peak struct {
	Lag       int     // Lag index in samples.
	Frequency float64 // sampleRate / Lag.
	Strength  float64 // Profile value normalized by the in-range maximum, in [0,1].
}

// ExtractPeaks scans profile for local maxima inside the detection lag range
// and returns them sorted by descending strength.
//
// The profile is normalized by its maximum over [start, end). A lag is a peak
// when its normalized value exceeds the peak threshold and is strictly greater
// than both neighbours.
func ExtractPeaks(profile []float64, sampleRate float64, p Params) []Peak {
	start, end := p.LagRange(sampleRate)
	// Every candidate needs a right neighbour.
	end = min(end, len(profile)-1)
	if start >= end {
		return nil
	}

	maxVal := floats.Max(profile[start:end])
	if maxVal <= 0 {
		return nil
	}

	var peaks []Peak
	for i := start; i < end; i++ {
		v := profile[i]
		if v/maxVal > p.PeakThreshold && v > profile[i-1] && v > profile[i+1] {
			peaks = append(peaks, Peak{
				Lag:       i,
				Frequency: sampleRate / float64(i),
				Strength:  v / maxVal,
			})
		}
	}

	sort.SliceStable(peaks, func(a, b int) bool {
		return peaks[a].Strength > peaks[b].Strength
	})
	return peaks
}

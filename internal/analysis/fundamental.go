// SPDX-License-Identifier: MIT
package analysis

import (
	"guitartuner/internal/notes"
	"math"
)

// Candidate is a peak together with the breakdown of its score.
type Candidate struct {
	Peak
	Base      float64 // Strength times the strength weight.
	NearOpen  bool    // Within tolerance of an open string.
	LowBias   float64 // Preference for lower frequencies.
	Harmonic  bool    // A strong sub-multiple exists, so this is likely an overtone.
	LowString bool    // Earned the low string bonus.
	Score     float64
}

// ScorePeaks scores every peak as a fundamental candidate. The returned slice
// is parallel to peaks.
//
// The weights are heuristic. A true fundamental can still be flagged as a
// harmonic when it coincides with an overtone of a lower parasitic resonance.
func ScorePeaks(peaks []Peak, p Params, tuning notes.Tuning) []Candidate {
	candidates := make([]Candidate, len(peaks))
	for i, peak := range peaks {
		c := Candidate{Peak: peak}

		c.Base = peak.Strength * p.StrengthWeight
		c.Score = c.Base

		if tuning.NearString(peak.Frequency, p.StringTolerance) {
			c.NearOpen = true
			c.Score += p.StringBonus
		}

		c.LowBias = (p.MaxFrequency - peak.Frequency) / p.MaxFrequency
		c.Score += c.LowBias

		c.Harmonic = isLikelyHarmonic(i, peaks, p)
		if c.Harmonic {
			c.Score -= p.HarmonicPenalty
		} else if peak.Frequency >= p.LowStringBand[0] && peak.Frequency <= p.LowStringBand[1] {
			c.LowString = true
			c.Score += p.LowStringBonus
		}

		candidates[i] = c
	}
	return candidates
}

// isLikelyHarmonic reports whether another peak sits near a sub-multiple of
// peaks[idx] with enough strength to be its fundamental.
func isLikelyHarmonic(idx int, peaks []Peak, p Params) bool {
	peak := peaks[idx]
	for _, divisor := range p.HarmonicDivisors {
		fundamental := peak.Frequency / float64(divisor)
		if fundamental < p.MinFrequency {
			continue
		}
		for j, other := range peaks {
			if j == idx {
				continue
			}
			near := math.Abs(other.Frequency-fundamental)/fundamental < p.StringTolerance
			if near && other.Strength >= p.HarmonicStrengthRatio*peak.Strength {
				return true
			}
		}
	}
	return false
}

// SelectFundamental picks the highest scoring candidate and returns its
// frequency. It reports false when there are no peaks. Ties keep the stronger
// peak, which comes first in the input.
func SelectFundamental(peaks []Peak, p Params, tuning notes.Tuning) (float64, bool) {
	if len(peaks) == 0 {
		return 0, false
	}
	candidates := ScorePeaks(peaks, p, tuning)
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[best].Score {
			best = i
		}
	}
	return candidates[best].Frequency, true
}

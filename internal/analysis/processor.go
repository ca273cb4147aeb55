// SPDX-License-Identifier: MIT
package analysis

// Frame is one chunk of normalized samples in [-1, 1] and the rate it was
// captured at. Frames are consumed by a single Detect call and not retained.
type Frame struct {
	Samples    []float64
	SampleRate float64
}

// PitchDetector defines the interface for components that estimate the
// fundamental of a frame. Implementations must be pure: the same frame always
// yields the same Result, and no state leaks between calls, so one detector
// may serve many sessions in parallel.
type PitchDetector interface {
	Detect(frame Frame) Result
}

// Outcome classifies why a detection did or did not produce a frequency.
// None of the non-detected outcomes are errors.
type Outcome int

const (
	Detected           Outcome = iota // A fundamental inside the range was found.
	InsufficientSignal                // Frame level below the signal threshold, or frame too short.
	NoPeaks                           // No autocorrelation peak passed the threshold.
	OutOfRange                        // The selected fundamental fell outside the detection range.
)

// String returns the outcome name used in logs and snapshots.
func (o Outcome) String() string {
	switch o {
	case Detected:
		return "detected"
	case InsufficientSignal:
		return "insufficient_signal"
	case NoPeaks:
		return "no_peaks"
	case OutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// Result is the product of one Detect call.
type Result struct {
	Outcome   Outcome
	Frequency float64 // Selected fundamental (Hz), only meaningful when Outcome == Detected.
	Level     float64 // Scaled signal level in [0,1].
	Peaks     int     // Number of candidate peaks considered.
}

// Found reports whether the result carries a usable frequency.
func (r Result) Found() bool {
	return r.Outcome == Detected
}

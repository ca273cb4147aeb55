// SPDX-License-Identifier: MIT
/*
Package notes maps frequencies onto musical note names and the open strings
of a standard-tuned six string guitar.

All lookups are pure functions of their inputs. The open-string table is a
value type, so every caller holds its own copy and nothing in this package
can be mutated after process start.
*/
package notes

import (
	"math"
	"strconv"
	"strings"
)

const (
	// ReferenceA4 is the concert pitch every chromatic conversion is relative to.
	ReferenceA4 = 440.0

	// lowEWindowHz is how close (in Hz) a reading must be to low E before the
	// low E preference kicks in.
	lowEWindowHz = 12.0

	// lowEMargin is how many times closer a competing string must be to beat
	// low E inside its window.
	lowEMargin = 1.5
)

// chromatic lists the 12 pitch classes starting at C.
var chromatic = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ChromaticScale returns the 12 note names in ascending order starting at C.
func ChromaticScale() [12]string {
	return chromatic
}

// GuitarString is one open string: its identifier (letter plus octave) and
// reference frequency.
type GuitarString struct {
	Name      string  // e.g. "E2"
	Frequency float64 // Hz
}

// Letter returns the string's note without the octave digits, e.g. "E" for "E2".
func (s GuitarString) Letter() string {
	return strings.TrimRight(s.Name, "0123456789")
}

// Tuning is the ordered open-string table, lowest string first.
type Tuning [6]GuitarString

// StandardTuning returns the E A D G B E reference table.
func StandardTuning() Tuning {
	return Tuning{
		{Name: "E2", Frequency: 82.41},
		{Name: "A2", Frequency: 110.00},
		{Name: "D3", Frequency: 146.83},
		{Name: "G3", Frequency: 196.00},
		{Name: "B3", Frequency: 246.94},
		{Name: "E4", Frequency: 329.63},
	}
}

// LowE returns the lowest string of the tuning.
func (t Tuning) LowE() GuitarString {
	return t[0]
}

// NearString reports whether f lies within tolerance (relative, e.g. 0.05 for
// 5%) of any open string.
func (t Tuning) NearString(f, tolerance float64) bool {
	for _, s := range t {
		if math.Abs(f-s.Frequency)/s.Frequency < tolerance {
			return true
		}
	}
	return false
}

// ClosestNote returns the letter of the open string nearest to f.
//
// Strings are ranked by absolute distance in cents. Low E gets a preference
// window: when f is within 12 Hz of it, low E wins unless the closer string is
// more than 1.5 times closer in Hz. Fundamental estimates for low E tend to
// wander more than the other strings.
func (t Tuning) ClosestNote(f float64) string {
	best := 0
	bestCents := math.Inf(1)
	for i, s := range t {
		cents := math.Abs(1200 * math.Log2(f/s.Frequency))
		if cents < bestCents {
			best = i
			bestCents = cents
		}
	}

	lowE := t.LowE()
	lowEDiff := math.Abs(f - lowE.Frequency)
	if best != 0 && lowEDiff <= lowEWindowHz {
		bestDiff := math.Abs(f - t[best].Frequency)
		if lowEDiff <= bestDiff*lowEMargin {
			best = 0
		}
	}

	return t[best].Letter()
}

// TargetFrequency returns the frequency of the first open string whose
// identifier starts with note. Unknown notes fall back to low E.
func (t Tuning) TargetFrequency(note string) float64 {
	if note != "" {
		for _, s := range t {
			if strings.HasPrefix(s.Name, note) {
				return s.Frequency
			}
		}
	}
	return t.LowE().Frequency
}

// FrequencyToNote converts f to the nearest chromatic note with octave,
// e.g. 440 -> "A4", 82.41 -> "E2".
func FrequencyToNote(f float64) string {
	halfSteps := int(math.Round(12 * math.Log2(f/ReferenceA4)))
	// Shift so that index 0 is C.
	fromC := halfSteps + 9
	index := ((fromC % 12) + 12) % 12
	octave := 4 + int(math.Floor(float64(fromC)/12))
	return chromatic[index] + strconv.Itoa(octave)
}

// CentsDeviation is the interval from target to detected, rounded to whole
// cents. Negative means flat, positive means sharp.
func CentsDeviation(detected, target float64) int {
	return int(math.Round(1200 * math.Log2(detected/target)))
}

// IsNoteName reports whether s is a bare letter A-G with an optional '#' or
// 'b' accidental, as accepted for tuning targets.
func IsNoteName(s string) bool {
	switch len(s) {
	case 1:
		return s[0] >= 'A' && s[0] <= 'G'
	case 2:
		return s[0] >= 'A' && s[0] <= 'G' && (s[1] == '#' || s[1] == 'b')
	default:
		return false
	}
}

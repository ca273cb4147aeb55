// SPDX-License-Identifier: MIT
package tuner

import (
	"fmt"
	"math"
	"strings"
)

const (
	// inTuneCents is the deviation below which a reading counts as in tune.
	inTuneCents = 5
	// centsPerMarker is how many cents each arrow in the indicator stands for.
	centsPerMarker = 10
	maxMarkers     = 5

	commandHint = `Say "tune to <note>", "tuner mode" or "exit tuner"`
)

// FormatDisplay renders s as plain multi-line text. It has no side effects;
// identical states produce identical output.
func FormatDisplay(s State) string {
	var b strings.Builder

	mode := "chord mode"
	if s.Active {
		mode = "tuner mode"
	}
	fmt.Fprintf(&b, "Target: %s (%s)\n", s.Target, mode)

	if s.Reading == nil {
		b.WriteString("No pitch - play a note\n")
		b.WriteString("Targets: E A D G B\n")
		b.WriteString(commandHint)
		return b.String()
	}

	r := s.Reading
	fmt.Fprintf(&b, "Detected: %s (%s) %.1f Hz %+d cents\n", r.Note, r.Pitch, r.Frequency, r.Cents)
	b.WriteString(Indicator(r.Cents))
	b.WriteString("\n")
	b.WriteString(commandHint)
	return b.String()
}

// Indicator returns the one-line tuning direction for a deviation in cents.
// Flat readings point right (tune up), sharp readings point left (tune down).
func Indicator(cents int) string {
	if abs(cents) < inTuneCents {
		return "== IN TUNE =="
	}
	arrows := MarkerCount(cents)
	if cents < 0 {
		return strings.Repeat(">", arrows) + " tune up"
	}
	return "tune down " + strings.Repeat("<", arrows)
}

// MarkerCount is min(ceil(|cents|/10), 5).
func MarkerCount(cents int) int {
	n := int(math.Ceil(float64(abs(cents)) / centsPerMarker))
	return min(n, maxMarkers)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

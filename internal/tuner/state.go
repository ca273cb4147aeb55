// SPDX-License-Identifier: MIT
/*
Package tuner turns pitch detections and transcribed voice commands into a
tuner state suitable for display.

Every transition is a pure function (State, input) -> State. A State is a
value; the Reading it points to is never modified after it is created, so a
State can be copied, compared and handed to another goroutine freely. The
Session type is the only place that holds a State across calls.
*/
package tuner

// DefaultTarget is the target note of a fresh session.
const DefaultTarget = "E"

// Reading is the smoothed detection currently shown to the user.
type Reading struct {
	Note      string  `json:"note"`      // Closest open string, e.g. "E".
	Pitch     string  `json:"pitch"`     // Chromatic note with octave, e.g. "E2".
	Frequency float64 `json:"frequency"` // Smoothed Hz, always in the detection range.
	Cents     int     `json:"cents"`     // Deviation from the target string.
}

// State is the complete tuner state of one session.
type State struct {
	Active  bool     `json:"active"`
	Target  string   `json:"target"`
	Reading *Reading `json:"reading,omitempty"`
}

// NewState returns an inactive state aimed at DefaultTarget.
func NewState() State {
	return State{Target: DefaultTarget}
}

// HasReading reports whether a pitch has been detected since the session began.
func (s State) HasReading() bool {
	return s.Reading != nil
}

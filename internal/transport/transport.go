// SPDX-License-Identifier: MIT
/*
Package transport publishes tuner snapshots to remote clients and feeds
their command text back into the session.
*/
package transport

import (
	"errors"
	"guitartuner/internal/tuner"
)

// Transport defines a generic interface for sending snapshots or events.
// Implementations should be thread-safe.
type Transport interface {
	Send(data any) error
	Close() error
}

// Controller is the part of a tuner session remote clients can drive.
// *tuner.Session implements it.
type Controller interface {
	HandleCommand(text string) tuner.Command
	Snapshot() tuner.State
}

// Snapshot is the JSON document broadcast after every command and display tick.
type Snapshot struct {
	Type string `json:"type"`
	tuner.State
	Display string `json:"display"`
}

// NewSnapshot wraps s for publishing.
func NewSnapshot(s tuner.State) Snapshot {
	return Snapshot{
		Type:    "state",
		State:   s,
		Display: tuner.FormatDisplay(s),
	}
}

// Multi sends to every transport it holds.
type Multi []Transport

// Send forwards data to all transports and joins their errors.
func (m Multi) Send(data any) error {
	var errs []error
	for _, t := range m {
		if err := t.Send(data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes all transports and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, t := range m {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Transport = Multi(nil)

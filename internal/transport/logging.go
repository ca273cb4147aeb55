// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	applog "guitartuner/internal/log"
)

// LoggingTransport implements the Transport interface by logging data at DEBUG.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	applog.Infof("Transport: Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs the JSON form of data, or its Go form if it does not marshal.
func (lt *LoggingTransport) Send(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		applog.Debugf("Transport: %T %+v (marshal error: %v)", data, data, err)
		return nil
	}
	applog.Debugf("Transport: %s", jsonData)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	applog.Debugf("Transport: LoggingTransport closed")
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)

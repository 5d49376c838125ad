// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import "errors"

var (
	// ErrShortInput indicates a decode input smaller than the fixed
	// encoded size.
	ErrShortInput = &metricError{
		metric:  "short_input",
		message: "input shorter than encoded record",
	}

	// ErrEncoding indicates a record could not be encoded.
	ErrEncoding = &metricError{
		metric:  "encoding_error",
		message: "encoding failed",
	}

	// ErrBufferFull indicates the producer's local buffer is at capacity.
	// This is the backpressure signal; the caller decides retry or drop.
	ErrBufferFull = &metricError{
		metric:  "buffer_full",
		message: "buffer full",
	}

	// ErrBroker indicates the broker rejected or failed a message.
	ErrBroker = &metricError{
		metric:  "broker_error",
		message: "broker error",
	}

	// ErrTimeout indicates a deadline elapsed before completion.
	ErrTimeout = &metricError{
		metric:  "timeout",
		message: "timeout",
	}

	// ErrValidation indicates configuration or input validation failed.
	ErrValidation = &metricError{
		metric:  "validation_error",
		message: "validation error",
	}

	// ErrNotStarted indicates the publisher has not been started.
	ErrNotStarted = &metricError{
		metric:  "not_started",
		message: "publisher not started",
	}

	// ErrAlreadyStarted indicates the publisher has already been started.
	ErrAlreadyStarted = &metricError{
		metric:  "already_started",
		message: "publisher already started",
	}
)

// metricError wraps errors with a type classification for metrics and
// observability. The metric field provides a stable string label for
// grouping errors in metrics systems.
type metricError struct {
	metric  string
	message string
}

// Error implements the error interface.
func (e *metricError) Error() string {
	return e.message
}

func (e *metricError) Metric() string {
	return e.metric
}

func (e *metricError) Is(target error) bool {
	if t, ok := target.(*metricError); ok {
		return e.message == t.message
	}
	return false
}

// errorType extracts the error type string for metrics classification.
// Walks the error chain to find metricError types.
func errorType(err error) string {
	if err == nil {
		return ""
	}

	var me *metricError
	if errors.As(err, &me) {
		return me.Metric()
	}

	return "unknown"
}

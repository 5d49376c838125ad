// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import "time"

// Outcome represents the result of a Publish() call. Publish reports only
// local queueing; terminal delivery results arrive later as DeliveryEvents.
type Outcome int

const (
	// Queued indicates the message was locally buffered but NOT yet
	// confirmed by the broker. A DeliveryEvent follows once the message
	// reaches a terminal state.
	Queued Outcome = iota

	// Dropped indicates the message was rejected because the local buffer
	// is at capacity. No DeliveryEvent follows; the rejection was already
	// reported to the caller.
	Dropped

	// Failed indicates Publish failed before the message was buffered
	// (not started, invalid input, canceled context).
	Failed
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case Queued:
		return "Queued"
	case Dropped:
		return "Dropped"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// DeliveryEvent reports the terminal state of one previously queued message.
// Events arrive asynchronously, on the client's I/O goroutines, and out of
// order relative to Publish calls. Exactly one event is dispatched per queued
// message.
type DeliveryEvent struct {
	// Topic is the Kafka topic the message was published to.
	Topic string

	// Key is the partition key the message was published under.
	Key string

	// Partition is the partition the message landed on. Only meaningful
	// when Error is nil.
	Partition int32

	// Offset is the broker-assigned offset. Only meaningful when Error
	// is nil.
	Offset int64

	// Error is the delivery failure, nil on success.
	Error error

	// ErrorType is the error classification (empty on success).
	// Values: "broker_error", "timeout", etc.
	ErrorType string

	// Duration is the time from Publish() to the terminal state.
	Duration time.Duration
}

// Delivered reports whether the message reached the broker.
func (e *DeliveryEvent) Delivered() bool {
	return e.Error == nil
}

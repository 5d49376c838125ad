// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
)

// kafkaClient is an interface for the franz-go Kafka client methods we need.
// This allows us to mock the client for testing while using the real
// kgo.Client in production.
type kafkaClient interface {
	// TryProduce attempts to produce a record without blocking if the
	// buffer is full. The promise is invoked with kgo.ErrMaxBuffered,
	// before TryProduce returns, when the record was rejected.
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))

	// Flush flushes all buffered records and waits for them to be sent,
	// or for ctx to expire.
	Flush(ctx context.Context) error

	// Close closes the Kafka client and releases resources.
	Close()

	// BufferedProduceRecords returns the current number of buffered records.
	BufferedProduceRecords() int64

	// BufferedProduceBytes returns the current number of buffered bytes.
	BufferedProduceBytes() int64
}

// Verify that *kgo.Client implements kafkaClient interface at compile time.
var _ kafkaClient = (*kgo.Client)(nil)

// clientFactory is a function that creates a Kafka client from options.
// This allows dependency injection for testing.
type clientFactory func(opts ...kgo.Opt) (kafkaClient, error)

// defaultClientFactory is the production client factory that uses franz-go.
func defaultClientFactory(opts ...kgo.Opt) (kafkaClient, error) {
	return kgo.NewClient(opts...)
}

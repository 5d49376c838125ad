// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the transport contract the pipeline depends on. Any client
// offering asynchronous publish with terminal delivery notification and a
// bounded flush is substitutable; *Publisher is the Kafka implementation.
type Producer interface {
	// Publish queues payload under the given partition key without
	// blocking on network I/O.
	Publish(ctx context.Context, topic, key string, payload []byte) (Outcome, error)

	// Flush blocks until queued messages reach a terminal state or ctx
	// expires, returning the count still outstanding.
	Flush(ctx context.Context) int

	// AddDeliveryListener registers a listener for terminal delivery
	// outcomes and returns a function that removes it.
	AddDeliveryListener(fn func(*DeliveryEvent)) func()
}

// Verify that *Publisher satisfies the pipeline's transport contract.
var _ Producer = (*Publisher)(nil)

// Pipeline drives a bounded sequence of records through
// generate -> encode -> publish and accumulates throughput statistics.
//
// The pipeline itself is sequential; all I/O concurrency lives behind the
// Producer. Individual publish and delivery failures are counted and logged
// but never abort the run: the pipeline always completes the configured
// number of attempts and always returns statistics.
type Pipeline struct {
	// Producer is the transport to publish through. Required.
	Producer Producer

	// Topic is the destination topic. Required.
	Topic string

	// MessageKey is the stream identifier stamped on every record.
	MessageKey int32

	// Count is the number of records to send, with sequence numbers
	// 0..Count-1. Required, must be positive.
	Count int

	// Pace is an advisory delay between records. Zero disables pacing.
	Pace time.Duration

	// FlushTimeout bounds the final flush. Zero or negative means wait
	// indefinitely (or until ctx is canceled).
	FlushTimeout time.Duration

	// Generator supplies the records. Optional; defaults to the shared
	// process-wide generator.
	Generator *Generator

	// Logger is optional. If nil, a no-op logger is used.
	Logger kgo.Logger
}

// Run executes the pipeline and returns aggregate statistics. Statistics are
// returned even on early exit from context cancellation, and always include
// the failure counts. The partition key of each record is the decimal string
// of its sequence number.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	if p.Producer == nil {
		return stats, errors.Join(ErrValidation, fmt.Errorf("producer is required"))
	}
	if p.Topic == "" {
		return stats, errors.Join(ErrValidation, fmt.Errorf("topic is required"))
	}
	if p.Count <= 0 {
		return stats, errors.Join(ErrValidation, fmt.Errorf("record count %d must be positive", p.Count))
	}

	logger := p.Logger
	if logger == nil {
		logger = &nopLogger{}
	}
	gen := p.Generator
	if gen == nil {
		gen = DefaultGenerator()
	}

	// Drain terminal outcomes into counters. Registered before the first
	// publish so no outcome can be missed; removed only after the final
	// flush below has resolved everything it is going to resolve.
	var delivered, failed atomic.Int64
	remove := p.Producer.AddDeliveryListener(func(e *DeliveryEvent) {
		if e.Delivered() {
			delivered.Add(1)
			logger.Log(kgo.LogLevelDebug, "record delivered",
				"key", e.Key, "partition", e.Partition, "offset", e.Offset)
			return
		}
		failed.Add(1)
		logger.Log(kgo.LogLevelWarn, "record delivery failed",
			"key", e.Key, "error", e.Error.Error())
	})
	defer remove()

	start := time.Now()

	for seq := 0; seq < p.Count; seq++ {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(start)
			stats.Delivered = int(delivered.Load())
			stats.Failed = int(failed.Load())
			return stats, err
		}

		stats.Records++
		record := gen.Generate(p.MessageKey, int32(seq))
		payload, err := Encode(record)
		if err != nil {
			failed.Add(1)
			logger.Log(kgo.LogLevelWarn, "encode failed", "seq", seq, "error", err.Error())
			continue
		}
		stats.TotalBytes += int64(len(payload))

		key := strconv.Itoa(seq)
		if _, err := p.Producer.Publish(ctx, p.Topic, key, payload); err != nil {
			failed.Add(1)
			logger.Log(kgo.LogLevelWarn, "publish rejected", "seq", seq, "error", err.Error())
		} else {
			logger.Log(kgo.LogLevelDebug, "record queued", "seq", seq, "bytes", len(payload))
		}

		if p.Pace > 0 && seq < p.Count-1 {
			pause(ctx, p.Pace)
		}
	}

	flushCtx := ctx
	if p.FlushTimeout > 0 {
		var cancel context.CancelFunc
		flushCtx, cancel = context.WithTimeout(ctx, p.FlushTimeout)
		defer cancel()
	}
	stats.Outstanding = p.Producer.Flush(flushCtx)
	if stats.Outstanding > 0 {
		logger.Log(kgo.LogLevelWarn, "flush timed out", "outstanding", stats.Outstanding)
	}

	stats.Elapsed = time.Since(start)
	stats.Delivered = int(delivered.Load())
	stats.Failed = int(failed.Load())

	logger.Log(kgo.LogLevelInfo, "pipeline complete",
		"records", stats.Records,
		"delivered", stats.Delivered,
		"failed", stats.Failed,
		"outstanding", stats.Outstanding,
		"bytes", stats.TotalBytes,
		"elapsed", stats.Elapsed.String())

	return stats, nil
}

// pause sleeps for d or until ctx is canceled.
func pause(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProducer is an in-memory Producer that resolves every queued message
// to a terminal state synchronously. It stands in for any transport
// satisfying the pipeline's contract.
type fakeProducer struct {
	mu             sync.Mutex
	listeners      map[int]func(*DeliveryEvent)
	nextListenerID int
	publishedKeys  []string
	rejectKeys     map[string]bool // Publish returns ErrBufferFull
	failKeys       map[string]bool // delivery terminally fails
	flushRemaining int
	flushCalls     int
}

func (f *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rejectKeys[key] {
		return Dropped, ErrBufferFull
	}

	f.publishedKeys = append(f.publishedKeys, key)
	event := &DeliveryEvent{
		Topic:     topic,
		Key:       key,
		Partition: 0,
		Offset:    int64(len(f.publishedKeys)),
	}
	if f.failKeys[key] {
		event.Error = errors.Join(ErrBroker, errors.New("fake broker failure"))
		event.ErrorType = errorType(event.Error)
	}
	for _, listener := range f.listeners {
		listener(event)
	}
	return Queued, nil
}

func (f *fakeProducer) Flush(ctx context.Context) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCalls++
	return f.flushRemaining
}

func (f *fakeProducer) AddDeliveryListener(fn func(*DeliveryEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listeners == nil {
		f.listeners = make(map[int]func(*DeliveryEvent))
	}
	id := f.nextListenerID
	f.nextListenerID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// TestPipelineRun tests the full generate-encode-publish loop.
func TestPipelineRun(t *testing.T) {
	t.Parallel()
	t.Run("ten records against an always-succeeding producer", func(t *testing.T) {
		t.Parallel()
		producer := &fakeProducer{}
		pipeline := &Pipeline{
			Producer:     producer,
			Topic:        "automation-data",
			MessageKey:   12345,
			Count:        10,
			Pace:         time.Millisecond,
			FlushTimeout: time.Second,
			Generator:    NewGenerator(1),
		}

		stats, err := pipeline.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 10, stats.Records)
		assert.Equal(t, 10, stats.Delivered)
		assert.Zero(t, stats.Failed)
		assert.Zero(t, stats.Outstanding)
		assert.Equal(t, int64(10*EncodedSize), stats.TotalBytes)
		assert.Equal(t, int64(EncodedSize), stats.AvgRecordBytes())
		assert.Equal(t, 1, producer.flushCalls)

		// Partition keys are the decimal sequence numbers, in order.
		assert.Equal(t,
			[]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
			producer.publishedKeys)
	})

	t.Run("queue full on one record does not abort the run", func(t *testing.T) {
		t.Parallel()
		producer := &fakeProducer{rejectKeys: map[string]bool{"5": true}}
		pipeline := &Pipeline{
			Producer:   producer,
			Topic:      "automation-data",
			MessageKey: 12345,
			Count:      10,
			Generator:  NewGenerator(2),
		}

		stats, err := pipeline.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 10, stats.Records)
		assert.Equal(t, 1, stats.Failed)
		assert.Equal(t, 9, stats.Delivered)
		// Encoding happened for every attempt, rejected or not.
		assert.Equal(t, int64(10*EncodedSize), stats.TotalBytes)
		assert.NotContains(t, producer.publishedKeys, "5")
	})

	t.Run("asynchronous delivery failure is counted once", func(t *testing.T) {
		t.Parallel()
		producer := &fakeProducer{failKeys: map[string]bool{"3": true}}
		pipeline := &Pipeline{
			Producer:   producer,
			Topic:      "automation-data",
			MessageKey: 1,
			Count:      5,
			Generator:  NewGenerator(3),
		}

		stats, err := pipeline.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 5, stats.Records)
		assert.Equal(t, 4, stats.Delivered)
		assert.Equal(t, 1, stats.Failed)
	})

	t.Run("flush timeout surfaces as outstanding count", func(t *testing.T) {
		t.Parallel()
		producer := &fakeProducer{flushRemaining: 2}
		pipeline := &Pipeline{
			Producer:     producer,
			Topic:        "automation-data",
			MessageKey:   1,
			Count:        3,
			FlushTimeout: time.Millisecond,
			Generator:    NewGenerator(4),
		}

		stats, err := pipeline.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Outstanding)
	})

	t.Run("canceled context stops the run with partial stats", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pipeline := &Pipeline{
			Producer:   &fakeProducer{},
			Topic:      "automation-data",
			MessageKey: 1,
			Count:      3,
			Generator:  NewGenerator(5),
		}

		stats, err := pipeline.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, stats.Records)
	})
}

// TestPipelineValidation tests pre-flight configuration checks.
func TestPipelineValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		pipeline *Pipeline
	}{
		{
			name:     "missing producer",
			pipeline: &Pipeline{Topic: "t", Count: 1},
		},
		{
			name:     "missing topic",
			pipeline: &Pipeline{Producer: &fakeProducer{}, Count: 1},
		},
		{
			name:     "zero count",
			pipeline: &Pipeline{Producer: &fakeProducer{}, Topic: "t"},
		},
		{
			name:     "negative count",
			pipeline: &Pipeline{Producer: &fakeProducer{}, Topic: "t", Count: -1},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.pipeline.Run(context.Background())
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

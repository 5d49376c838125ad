// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Element counts of the two value sequences carried by every Record.
// The fixed binary layout in codec.go depends on these never changing;
// if the shape ever becomes variable, the codec must move to a
// length-prefixed layout.
const (
	NormalizedLen   = 780_000
	UnnormalizedLen = 780_000
)

// Record is a single telemetry record: a small fixed header followed by two
// fixed-length float32 sequences. Fields are set once at construction and
// must not be mutated afterwards.
type Record struct {
	// MessageKey identifies the logical stream this record belongs to.
	// Constant across a stream.
	MessageKey int32

	// SequenceNumber is the caller-assigned index of this record within
	// its stream. The model does not validate gaps or duplicates.
	SequenceNumber int32

	// Timestamp is the wall-clock Unix time in seconds, captured once at
	// construction.
	Timestamp uint64

	// Normalized holds exactly NormalizedLen values, each in [0.0, 1.0).
	Normalized []float32

	// Unnormalized holds exactly UnnormalizedLen values, each in
	// [-1000.0, 1000.0).
	Unnormalized []float32
}

// Summary returns a short human-readable digest of the record.
func (r *Record) Summary() string {
	return fmt.Sprintf("record key=%d seq=%d ts=%d floats=%d encoded=%d bytes (%.2f MB)",
		r.MessageKey, r.SequenceNumber, r.Timestamp,
		len(r.Normalized)+len(r.Unnormalized),
		EncodedSize, float64(EncodedSize)/(1024.0*1024.0))
}

// Generator produces Records filled with uniformly distributed random values.
//
// A Generator is safe for concurrent use; each Generate call holds the
// generator's source exclusively for the duration of its draws.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded from the given value.
// Two Generators with the same seed produce identical draw sequences,
// which tests rely on.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(int64(seed)))}
}

var (
	defaultGenOnce sync.Once
	defaultGen     *Generator
)

// DefaultGenerator returns the process-wide shared Generator, seeding it from
// the wall clock exactly once per process. The first caller wins; all later
// callers observe the same generator state.
func DefaultGenerator() *Generator {
	defaultGenOnce.Do(func() {
		defaultGen = NewGenerator(uint64(time.Now().UnixNano()))
	})
	return defaultGen
}

// Generate creates a Record with the given key and sequence number and fills
// both value sequences with independent uniform draws: Normalized from
// [0.0, 1.0) and Unnormalized from [-1000.0, 1000.0). The timestamp is
// captured during construction. Allocation failure panics (Go runtime
// behavior for heap exhaustion).
func (g *Generator) Generate(messageKey, sequenceNumber int32) *Record {
	r := &Record{
		MessageKey:     messageKey,
		SequenceNumber: sequenceNumber,
		Normalized:     make([]float32, NormalizedLen),
		Unnormalized:   make([]float32, UnnormalizedLen),
	}

	g.mu.Lock()
	for i := range r.Normalized {
		r.Normalized[i] = g.rng.Float32()
	}
	for i := range r.Unnormalized {
		r.Unnormalized[i] = g.rng.Float32()*2000.0 - 1000.0
	}
	g.mu.Unlock()

	r.Timestamp = uint64(time.Now().Unix())
	return r
}

// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestStatsThroughput tests the zero-elapsed guard.
func TestStatsThroughput(t *testing.T) {
	t.Parallel()
	t.Run("zero elapsed is undefined", func(t *testing.T) {
		t.Parallel()
		s := Stats{TotalBytes: EncodedSize}
		mbps, ok := s.Throughput()
		assert.False(t, ok)
		assert.Zero(t, mbps)
	})

	t.Run("computes megabytes per second", func(t *testing.T) {
		t.Parallel()
		s := Stats{TotalBytes: 20 << 20, Elapsed: 2 * time.Second}
		mbps, ok := s.Throughput()
		assert.True(t, ok)
		assert.InDelta(t, 10.0, mbps, 0.001)
	})
}

func TestStatsAvgRecordBytes(t *testing.T) {
	t.Parallel()
	assert.Zero(t, Stats{}.AvgRecordBytes())
	assert.Equal(t, int64(EncodedSize),
		Stats{Records: 10, TotalBytes: 10 * EncodedSize}.AvgRecordBytes())
}

func TestStatsString(t *testing.T) {
	t.Parallel()
	t.Run("with throughput", func(t *testing.T) {
		t.Parallel()
		s := Stats{
			Records:    10,
			Delivered:  9,
			Failed:     1,
			TotalBytes: 10 * EncodedSize,
			Elapsed:    2 * time.Second,
		}
		out := s.String()
		assert.Contains(t, out, "records attempted : 10")
		assert.Contains(t, out, "delivered         : 9")
		assert.Contains(t, out, "failed            : 1")
		assert.Contains(t, out, "MB/s")
	})

	t.Run("degenerate elapsed reports n/a", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, Stats{}.String(), "throughput        : n/a")
	})
}

// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodedSize pins the wire size the broker contract depends on.
func TestEncodedSize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 6_240_032, EncodedSize)
}

// TestEncode tests the fixed layout.
func TestEncode(t *testing.T) {
	t.Parallel()
	t.Run("produces exactly the fixed size", func(t *testing.T) {
		t.Parallel()
		buf, err := Encode(NewGenerator(1).Generate(1, 2))
		require.NoError(t, err)
		assert.Len(t, buf, EncodedSize)
	})

	t.Run("header layout is little-endian at fixed offsets", func(t *testing.T) {
		t.Parallel()
		r := NewGenerator(1).Generate(-5, 3)
		r.Timestamp = 0x0102030405060708

		buf, err := Encode(r)
		require.NoError(t, err)

		assert.Equal(t, int32(-5), int32(binary.LittleEndian.Uint32(buf[0:4])))
		assert.Equal(t, int32(3), int32(binary.LittleEndian.Uint32(buf[4:8])))
		assert.Equal(t, uint64(0x0102030405060708), binary.LittleEndian.Uint64(buf[8:16]))
		assert.Equal(t, r.Normalized[0], math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])))
		assert.Equal(t, r.Unnormalized[0], math.Float32frombits(binary.LittleEndian.Uint32(buf[3_120_016:3_120_020])))
	})

	t.Run("rejects malformed shape", func(t *testing.T) {
		t.Parallel()
		r := &Record{
			Normalized:   make([]float32, 3),
			Unnormalized: make([]float32, UnnormalizedLen),
		}
		_, err := Encode(r)
		assert.ErrorIs(t, err, ErrEncoding)
	})
}

// TestDecode tests the permissive decode path.
func TestDecode(t *testing.T) {
	t.Parallel()
	t.Run("short inputs fail without allocating a record", func(t *testing.T) {
		t.Parallel()
		for _, n := range []int{0, 1, 16, EncodedSize - 1} {
			r, err := Decode(make([]byte, n))
			assert.ErrorIs(t, err, ErrShortInput, "len=%d", n)
			assert.Nil(t, r, "len=%d", n)
		}
	})

	t.Run("trailing bytes are ignored", func(t *testing.T) {
		t.Parallel()
		orig := NewGenerator(2).Generate(8, 9)
		buf, err := Encode(orig)
		require.NoError(t, err)

		buf = append(buf, 0xde, 0xad, 0xbe, 0xef)
		r, err := Decode(buf)
		require.NoError(t, err)
		assert.Equal(t, orig, r)
	})

	t.Run("accepts NaN and infinity bit patterns", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, EncodedSize)
		binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(float32(math.NaN())))
		binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(float32(math.Inf(1))))

		r, err := Decode(buf)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(float64(r.Normalized[0])))
		assert.True(t, math.IsInf(float64(r.Normalized[1]), 1))
	})
}

// TestRoundTrip tests the round-trip law on generated records.
func TestRoundTrip(t *testing.T) {
	t.Parallel()
	gen := NewGenerator(7)

	tests := []struct {
		name       string
		messageKey int32
		seq        int32
	}{
		{name: "reference scenario", messageKey: 12345, seq: 1},
		{name: "zero values", messageKey: 0, seq: 0},
		{name: "negative key", messageKey: -1, seq: 2_147_483_647},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := gen.Generate(tt.messageKey, tt.seq)

			buf, err := Encode(orig)
			require.NoError(t, err)
			require.Len(t, buf, EncodedSize)

			decoded, err := Decode(buf)
			require.NoError(t, err)

			assert.Equal(t, tt.messageKey, decoded.MessageKey)
			assert.Equal(t, tt.seq, decoded.SequenceNumber)
			assert.Equal(t, orig.Timestamp, decoded.Timestamp)
			assert.Equal(t, orig.Normalized, decoded.Normalized)
			assert.Equal(t, orig.Unnormalized, decoded.Unnormalized)
		})
	}
}

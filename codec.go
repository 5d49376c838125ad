// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Fixed binary layout, little-endian:
//
//	offset 0        message_key          int32
//	offset 4        sequence_number      int32
//	offset 8        timestamp            uint64
//	offset 16       normalized values    780000 x float32
//	offset 3120016  unnormalized values  780000 x float32
//
// Total EncodedSize bytes, no length prefixes, no compression. Compression,
// if any, is applied by the broker client as a batch codec and is invisible
// to this layout.
const (
	headerSize = 4 + 4 + 8

	// EncodedSize is the exact byte length of every encoded Record:
	// 6,240,032 bytes.
	EncodedSize = headerSize + 4*NormalizedLen + 4*UnnormalizedLen
)

// Encode serializes r into a freshly allocated buffer of exactly EncodedSize
// bytes. It returns ErrEncoding if r does not have the fixed element counts
// (a Record built by Generate or Decode always does). Encode does not retain
// r; the caller owns the returned buffer.
func Encode(r *Record) ([]byte, error) {
	if len(r.Normalized) != NormalizedLen || len(r.Unnormalized) != UnnormalizedLen {
		return nil, errors.Join(ErrEncoding,
			fmt.Errorf("record shape %d/%d, want %d/%d",
				len(r.Normalized), len(r.Unnormalized), NormalizedLen, UnnormalizedLen))
	}

	buf := make([]byte, EncodedSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(r.MessageKey))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(r.SequenceNumber))
	binary.LittleEndian.PutUint64(buf[8:16], r.Timestamp)

	off := headerSize
	for _, v := range r.Normalized {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	for _, v := range r.Unnormalized {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	return buf, nil
}

// Decode reconstructs a Record from b. It fails with ErrShortInput if b is
// shorter than EncodedSize; bytes beyond EncodedSize are ignored. The float
// regions are reinterpreted bit-for-bit with no range validation, so NaN and
// infinity patterns decode without error. Decode copies out of b and does not
// retain it.
func Decode(b []byte) (*Record, error) {
	if len(b) < EncodedSize {
		return nil, errors.Join(ErrShortInput,
			fmt.Errorf("input is %d bytes, need %d", len(b), EncodedSize))
	}

	r := &Record{
		MessageKey:     int32(binary.LittleEndian.Uint32(b[0:4])),
		SequenceNumber: int32(binary.LittleEndian.Uint32(b[4:8])),
		Timestamp:      binary.LittleEndian.Uint64(b[8:16]),
		Normalized:     make([]float32, NormalizedLen),
		Unnormalized:   make([]float32, UnnormalizedLen),
	}

	off := headerSize
	for i := range r.Normalized {
		r.Normalized[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
		off += 4
	}
	for i := range r.Unnormalized {
		r.Unnormalized[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
		off += 4
	}
	return r, nil
}

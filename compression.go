// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Compression specifies the batch compression codec. Compression is applied
// by the broker client to produce batches; the encoded record payload itself
// is never compressed.
type Compression string

const (
	// CompressionSnappy uses Snappy compression (good balance).
	CompressionSnappy Compression = "snappy"

	// CompressionGzip uses Gzip compression.
	CompressionGzip Compression = "gzip"

	// CompressionLz4 uses LZ4 compression (the original deployment default
	// for these large float payloads).
	CompressionLz4 Compression = "lz4"

	// CompressionZstd uses Zstandard compression.
	CompressionZstd Compression = "zstd"

	// CompressionNone disables compression.
	CompressionNone Compression = "none"
)

// validate checks the Compression enum value. Empty is allowed and means
// CompressionNone.
func (c Compression) validate() error {
	switch c {
	case CompressionSnappy, CompressionGzip, CompressionLz4, CompressionZstd, CompressionNone, "":
		return nil
	}
	return errors.Join(ErrValidation,
		fmt.Errorf("compression codec %q is invalid: must be 'snappy', 'gzip', 'lz4', 'zstd', 'none' or empty", c))
}

// codec maps the enum to the franz-go compression codec.
func (c Compression) codec() kgo.CompressionCodec {
	switch c {
	case CompressionSnappy:
		return kgo.SnappyCompression()
	case CompressionGzip:
		return kgo.GzipCompression()
	case CompressionLz4:
		return kgo.Lz4Compression()
	case CompressionZstd:
		return kgo.ZstdCompression()
	}
	return kgo.NoCompression()
}

// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Codykilpatrick/webway"
)

// Example demonstrates streaming a bounded run of records to Kafka.
func Example() {
	pub := &webway.Publisher{
		Brokers:            []string{"localhost:19092"},
		Compression:        webway.CompressionLz4,
		MaxMessageBytes:    10 << 20,
		MaxBufferedRecords: 16,
		Linger:             10 * time.Millisecond,
	}

	if err := pub.Start(); err != nil {
		log.Fatal(err)
	}
	defer pub.Stop(context.Background())

	pipeline := &webway.Pipeline{
		Producer:     pub,
		Topic:        "automation-data",
		MessageKey:   12345,
		Count:        10,
		Pace:         100 * time.Millisecond,
		FlushTimeout: 5 * time.Second,
	}

	stats, err := pipeline.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(stats)
}

// ExampleDecode demonstrates the round-trip guarantee of the fixed layout.
func ExampleDecode() {
	record := webway.NewGenerator(42).Generate(12345, 1)

	encoded, err := webway.Encode(record)
	if err != nil {
		log.Fatal(err)
	}

	decoded, err := webway.Decode(encoded)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(len(encoded) == webway.EncodedSize)
	fmt.Println(decoded.MessageKey, decoded.SequenceNumber)
	// Output:
	// true
	// 12345 1
}

// ExamplePublisher_AddDeliveryListener demonstrates observing terminal
// delivery outcomes.
func ExamplePublisher_AddDeliveryListener() {
	pub := &webway.Publisher{
		Brokers: []string{"localhost:19092"},
	}

	remove := pub.AddDeliveryListener(func(e *webway.DeliveryEvent) {
		if e.Error != nil {
			log.Printf("delivery failed: key=%s type=%s", e.Key, e.ErrorType)
			return
		}
		log.Printf("delivered: key=%s partition=%d offset=%d", e.Key, e.Partition, e.Offset)
	})
	defer remove()

	if err := pub.Start(); err != nil {
		log.Fatal(err)
	}
	defer pub.Stop(context.Background())
}

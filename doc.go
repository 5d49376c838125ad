// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

// Package webway generates large fixed-shape telemetry records and streams
// them to Apache Kafka under throughput and delivery guarantees.
//
// # Overview
//
// A Record carries a small fixed header (stream key, sequence number,
// timestamp) and two fixed-length sequences of 780,000 float32 values.
// Encode serializes it to an exact 6,240,032-byte little-endian frame that
// Decode reproduces field-for-field. Publisher queues encoded frames for
// asynchronous, acknowledged delivery over franz-go, with bounded buffering
// as the backpressure mechanism and a bounded Flush. Pipeline drives
// generate -> encode -> publish for a configured number of records and
// reports aggregate statistics.
//
// # Quick Start
//
// Create a Publisher by setting fields directly:
//
//	pub := &webway.Publisher{
//	    Brokers:         []string{"localhost:19092"},
//	    Compression:     webway.CompressionLz4,
//	    MaxMessageBytes: 10 << 20,
//	    Linger:          10 * time.Millisecond,
//	}
//	if err := pub.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer pub.Stop(context.Background())
//
//	pipeline := &webway.Pipeline{
//	    Producer:     pub,
//	    Topic:        "automation-data",
//	    MessageKey:   12345,
//	    Count:        10,
//	    Pace:         100 * time.Millisecond,
//	    FlushTimeout: 5 * time.Second,
//	}
//	stats, err := pipeline.Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(stats)
//
// # Delivery Semantics
//
// Publish reports only local queueing and never blocks on the network. Every
// queued message later reaches exactly one terminal state, reported as a
// DeliveryEvent to registered listeners on the client's I/O goroutines.
// Buffer-full rejections are synchronous (ErrBufferFull) and produce no
// event; retry or drop is the caller's decision. Flush waits for terminal
// states without canceling anything and returns the count still outstanding.
//
// # Observability
//
// Delivery listeners are framework-agnostic; wiring them to Prometheus is a
// few lines:
//
//	pub.InitialDeliveryListeners = []func(*webway.DeliveryEvent){
//	    func(e *webway.DeliveryEvent) {
//	        if e.Error != nil {
//	            failedCounter.WithLabelValues(e.Topic, e.ErrorType).Inc()
//	            return
//	        }
//	        deliveredCounter.WithLabelValues(e.Topic).Inc()
//	        latencyHistogram.WithLabelValues(e.Topic).Observe(e.Duration.Seconds())
//	    },
//	}
//
// Logging uses franz-go's kgo.Logger interface throughout; SlogLogger adapts
// a *slog.Logger to it.
//
// # Thread Safety
//
// Publisher and Generator are safe for concurrent use. Pipeline runs its
// record loop on the calling goroutine; all I/O concurrency lives inside the
// Kafka client.
package webway

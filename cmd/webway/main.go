// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

// Webway streams large fixed-shape telemetry records to Kafka and reports
// throughput. Each record is two sequences of 780,000 random floats behind a
// small header, encoded to an exact 6,240,032-byte frame and published with
// its sequence number as the partition key.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"

	"github.com/Codykilpatrick/webway"
)

var (
	projectName  = "webway"
	buildVersion = "dev"
	buildTime    string
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, version, err := loadConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if version {
		fmt.Printf("%s %s %s %s\n", projectName, buildVersion, buildTime, runtime.Version())
		return 0
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", cfg.LogLevel)
		return 1
	}
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger := &webway.SlogLogger{Logger: slogger}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "webway-" + uuid.NewString()[:8]
	}

	pub := &webway.Publisher{
		Brokers:                cfg.Brokers,
		ClientID:               clientID,
		MaxBufferedRecords:     cfg.MaxBufferedRecords,
		MaxBufferedBytes:       cfg.MaxBufferedBytes,
		MaxMessageBytes:        cfg.MaxMessageBytes,
		Linger:                 cfg.Linger(),
		Compression:            webway.Compression(cfg.Compression),
		Acks:                   webway.Acks(cfg.Acks),
		RequestTimeout:         cfg.RequestTimeout(),
		CleanupTimeout:         cfg.CleanupTimeout(),
		AllowAutoTopicCreation: cfg.AutoCreateTopic,
		Logger:                 logger,
	}

	m := newMetrics()
	pub.InitialDeliveryListeners = []func(*webway.DeliveryEvent){m.listener()}
	if cfg.ExporterPort > 0 {
		m.serve(cfg.ExporterPort)
		slogger.Info("exporter listening", "port", cfg.ExporterPort)
	}

	if err := pub.Start(); err != nil {
		slogger.Error("starting publisher", "error", err)
		return 1
	}
	defer pub.Stop(context.Background())

	pipeline := &webway.Pipeline{
		Producer:     pub,
		Topic:        cfg.Topic,
		MessageKey:   int32(cfg.MessageKey),
		Count:        cfg.Count,
		Pace:         cfg.Pace(),
		FlushTimeout: cfg.FlushTimeout(),
		Logger:       logger,
	}

	slogger.Info("starting run",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
		"count", cfg.Count,
		"client_id", clientID)

	stats, err := pipeline.Run(ctx)

	// The summary is the program's output; print it even on early exit.
	fmt.Println("SUMMARY STATISTICS")
	fmt.Println(stats)

	if err != nil {
		slogger.Error("run aborted", "error", err)
		return 1
	}
	if stats.Failed > 0 || stats.Outstanding > 0 {
		return 1
	}
	return 0
}

// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the producer run. Durations are plain
// milliseconds so the YAML file and the flags agree. Defaults reproduce the
// original deployment: 10 records of key 12345 to automation-data at a
// 100ms pace, lz4 batches, 10 MiB max message, 10ms linger, 5s flush.
type Config struct {
	Brokers            []string `yaml:"brokers"`
	Topic              string   `yaml:"topic"`
	MessageKey         int      `yaml:"message_key"`
	Count              int      `yaml:"count"`
	PaceMS             int      `yaml:"pace_ms"`
	FlushTimeoutMS     int      `yaml:"flush_timeout_ms"`
	Compression        string   `yaml:"compression"`
	Acks               string   `yaml:"acks"`
	LingerMS           int      `yaml:"linger_ms"`
	MaxMessageBytes    int      `yaml:"max_message_bytes"`
	MaxBufferedRecords int      `yaml:"max_buffered_records"`
	MaxBufferedBytes   int      `yaml:"max_buffered_bytes"`
	RequestTimeoutMS   int      `yaml:"request_timeout_ms"`
	CleanupTimeoutMS   int      `yaml:"cleanup_timeout_ms"`
	AutoCreateTopic    bool     `yaml:"auto_create_topic"`
	ClientID           string   `yaml:"client_id"`
	LogLevel           string   `yaml:"log_level"`
	ExporterPort       int      `yaml:"exporter_port"`
}

func (c *Config) Pace() time.Duration           { return time.Duration(c.PaceMS) * time.Millisecond }
func (c *Config) FlushTimeout() time.Duration   { return time.Duration(c.FlushTimeoutMS) * time.Millisecond }
func (c *Config) Linger() time.Duration         { return time.Duration(c.LingerMS) * time.Millisecond }
func (c *Config) RequestTimeout() time.Duration { return time.Duration(c.RequestTimeoutMS) * time.Millisecond }
func (c *Config) CleanupTimeout() time.Duration { return time.Duration(c.CleanupTimeoutMS) * time.Millisecond }

func defaultConfig() *Config {
	return &Config{
		Brokers:            []string{"localhost:19092"},
		Topic:              "automation-data",
		MessageKey:         12345,
		Count:              10,
		PaceMS:             100,
		FlushTimeoutMS:     5000,
		Compression:        "lz4",
		Acks:               "leader",
		LingerMS:           10,
		MaxMessageBytes:    10 << 20,
		MaxBufferedRecords: 16,
		AutoCreateTopic:    true,
		LogLevel:           "info",
	}
}

// loadConfig resolves the run configuration: defaults, then the YAML file
// named by -config (if any), then explicitly set flags on top.
func loadConfig(args []string) (*Config, bool, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("webway", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	version := fs.Bool("version", false, "Print version and exit")
	brokers := fs.String("brokers", strings.Join(cfg.Brokers, ","), "Comma-separated Kafka broker addresses")
	topic := fs.String("topic", cfg.Topic, "Destination topic")
	messageKey := fs.Int("key", cfg.MessageKey, "Stream message key")
	count := fs.Int("count", cfg.Count, "Number of records to send")
	paceMS := fs.Int("pace-ms", cfg.PaceMS, "Delay between records in milliseconds")
	flushTimeoutMS := fs.Int("flush-timeout-ms", cfg.FlushTimeoutMS, "Final flush timeout in milliseconds")
	compression := fs.String("compression", cfg.Compression, "Batch compression (snappy, gzip, lz4, zstd, none)")
	acks := fs.String("acks", cfg.Acks, "Broker acks (all, leader, none)")
	lingerMS := fs.Int("linger-ms", cfg.LingerMS, "Producer linger in milliseconds")
	maxMessageBytes := fs.Int("max-message-bytes", cfg.MaxMessageBytes, "Max produce batch bytes")
	maxBufferedRecords := fs.Int("max-buffered-records", cfg.MaxBufferedRecords, "Local buffer bound in records (0 = unlimited)")
	maxBufferedBytes := fs.Int("max-buffered-bytes", cfg.MaxBufferedBytes, "Local buffer bound in bytes (0 = unlimited)")
	requestTimeoutMS := fs.Int("request-timeout-ms", cfg.RequestTimeoutMS, "Broker request timeout in milliseconds (0 = none)")
	cleanupTimeoutMS := fs.Int("cleanup-timeout-ms", cfg.CleanupTimeoutMS, "Shutdown flush timeout in milliseconds (0 = none)")
	autoCreate := fs.Bool("auto-create-topic", cfg.AutoCreateTopic, "Allow automatic topic creation")
	clientID := fs.String("client-id", cfg.ClientID, "Kafka client id (default: generated)")
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	exporterPort := fs.Int("exporter-port", cfg.ExporterPort, "Prometheus exporter port (0 = disabled)")

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}

	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, false, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, false, fmt.Errorf("parsing config file %s: %w", *configPath, err)
		}
	}

	// Explicit flags win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "brokers":
			cfg.Brokers = strings.Split(*brokers, ",")
		case "topic":
			cfg.Topic = *topic
		case "key":
			cfg.MessageKey = *messageKey
		case "count":
			cfg.Count = *count
		case "pace-ms":
			cfg.PaceMS = *paceMS
		case "flush-timeout-ms":
			cfg.FlushTimeoutMS = *flushTimeoutMS
		case "compression":
			cfg.Compression = *compression
		case "acks":
			cfg.Acks = *acks
		case "linger-ms":
			cfg.LingerMS = *lingerMS
		case "max-message-bytes":
			cfg.MaxMessageBytes = *maxMessageBytes
		case "max-buffered-records":
			cfg.MaxBufferedRecords = *maxBufferedRecords
		case "max-buffered-bytes":
			cfg.MaxBufferedBytes = *maxBufferedBytes
		case "request-timeout-ms":
			cfg.RequestTimeoutMS = *requestTimeoutMS
		case "cleanup-timeout-ms":
			cfg.CleanupTimeoutMS = *cleanupTimeoutMS
		case "auto-create-topic":
			cfg.AutoCreateTopic = *autoCreate
		case "client-id":
			cfg.ClientID = *clientID
		case "log-level":
			cfg.LogLevel = *logLevel
		case "exporter-port":
			cfg.ExporterPort = *exporterPort
		}
	})

	return cfg, *version, nil
}

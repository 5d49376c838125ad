// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/xmidt-org/eventor"
)

// Publisher publishes encoded records to Kafka asynchronously.
//
// Publish never blocks on network I/O: it either queues the payload locally
// or rejects it with ErrBufferFull when the bounded buffer is at capacity.
// Terminal results arrive later, on the client's I/O goroutines, as
// DeliveryEvents dispatched to registered listeners.
//
// Thread Safety: all methods are safe for concurrent use by multiple
// goroutines without external synchronization.
type Publisher struct {
	// --- STATIC CONFIGURATION (set before Start, immutable after) ---

	// Brokers is the list of Kafka broker addresses.
	// Required. Each address must be in "host:port" format.
	Brokers []string

	// ClientID is the client identifier sent to the brokers.
	// Optional. If empty, the franz-go default is used.
	ClientID string

	// SASL configures SASL authentication.
	// Optional. If nil, no authentication is used.
	SASL sasl.Mechanism

	// TLS configures TLS encryption.
	// Optional. If nil, plaintext connections are used.
	TLS *tls.Config

	// MaxBufferedRecords sets the maximum number of records to buffer
	// locally. Publish fails with ErrBufferFull once the limit is reached.
	// Zero or negative values disable this limit.
	// Default: 0 (no limit on record count).
	MaxBufferedRecords int

	// MaxBufferedBytes sets the maximum bytes of records to buffer locally.
	// Zero or negative values disable this limit.
	// Default: 0 (no limit on bytes).
	MaxBufferedBytes int

	// MaxMessageBytes sets the maximum size of a produce batch, and so the
	// largest record the client accepts. Must be large enough for one
	// encoded record plus batch overhead.
	// Zero or negative values keep the franz-go default (about 1 MB, too
	// small for webway records).
	MaxMessageBytes int

	// Linger sets how long the client waits to fill a batch before
	// sending. Zero means send as soon as possible.
	Linger time.Duration

	// Compression selects the produce batch compression codec.
	// Default: CompressionNone.
	Compression Compression

	// Acks selects the broker acknowledgment requirement.
	// Default: AcksAll.
	Acks Acks

	// RequestTimeout sets the maximum time to wait for broker responses.
	// Zero or negative values mean no timeout.
	// Default: 0 (no timeout).
	RequestTimeout time.Duration

	// CleanupTimeout sets the maximum time Stop waits for buffered
	// messages to flush. Zero or negative values mean no timeout.
	// Default: 0 (no timeout).
	CleanupTimeout time.Duration

	// MaxRetries controls retry behavior on broker failures.
	// <=0: No retries, fail immediately (default).
	// >0: Retry up to this many times.
	MaxRetries int

	// AllowAutoTopicCreation enables automatic topic creation when
	// publishing to non-existent topics.
	// Default: false.
	AllowAutoTopicCreation bool

	// Logger is the logger instance (same interface as franz-go).
	// Optional. If nil, a no-op logger will be used.
	Logger kgo.Logger

	// InitialDeliveryListeners are listeners registered when Start() is
	// called. Each receives one DeliveryEvent per queued message that
	// reached a terminal state. For dynamic listener management, use
	// AddDeliveryListener(). Optional.
	InitialDeliveryListeners []func(*DeliveryEvent)

	// --- INTERNAL FIELDS (not for user configuration) ---

	// logger is the actively used logger instance (never nil after Start).
	logger kgo.Logger

	// clientFactory creates Kafka clients, overridden for mocking in tests.
	clientFactory clientFactory

	// clientMu protects the client field during Start/Stop operations.
	clientMu sync.Mutex

	// client is the Kafka client instance, initialized in Start() and
	// closed in Stop().
	client kafkaClient

	// deliveryListeners is the event broadcaster for DeliveryEvents.
	deliveryListeners eventor.Eventor[func(*DeliveryEvent)]

	// registerInitialListenersOnce ensures InitialDeliveryListeners are
	// registered exactly once.
	registerInitialListenersOnce sync.Once
}

// AddDeliveryListener adds a listener invoked once per queued message when it
// reaches a terminal state (delivered or permanently failed). Listeners are
// called from the client's internal goroutines, out of order relative to
// Publish calls, and must be thread-safe. The returned function removes the
// listener.
func (p *Publisher) AddDeliveryListener(fn func(*DeliveryEvent)) func() {
	return p.deliveryListeners.Add(fn)
}

// Start connects to Kafka and begins operation.
// Must be called before Publish().
//
// Returns an error if:
//   - Configuration is invalid (missing brokers, bad enum values)
//   - The client cannot be constructed
//   - Already started
func (p *Publisher) Start() error {
	p.clientMu.Lock()
	defer p.clientMu.Unlock()

	if p.client != nil {
		return ErrAlreadyStarted
	}

	if p.clientFactory == nil {
		p.clientFactory = defaultClientFactory
	}

	logger := p.Logger
	if logger == nil {
		logger = &nopLogger{}
	}
	p.logger = logger

	p.registerInitialListenersOnce.Do(func() {
		for _, listener := range p.InitialDeliveryListeners {
			p.deliveryListeners.Add(listener)
		}
	})

	if err := p.validate(); err != nil {
		return err
	}

	client, err := p.clientFactory(p.toKgoOpts()...)
	if err != nil {
		return fmt.Errorf("failed to create Kafka client: %w", err)
	}

	p.client = client
	p.logger.Log(kgo.LogLevelInfo, "publisher started", "brokers", p.Brokers)

	return nil
}

// Stop gracefully shuts down, flushing buffered messages first. Blocks until
// messages are sent or CleanupTimeout (or the context deadline) elapses.
// Safe to call multiple times.
func (p *Publisher) Stop(ctx context.Context) {
	p.clientMu.Lock()
	defer p.clientMu.Unlock()

	if p.client == nil {
		return // Already stopped or never started
	}

	p.logger.Log(kgo.LogLevelInfo, "stopping publisher, flushing buffered messages")

	// Apply CleanupTimeout only if the context doesn't already have a
	// deadline, so caller-provided timeouts are respected.
	if p.CleanupTimeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.CleanupTimeout)
			defer cancel()
		}
	}

	if err := p.client.Flush(ctx); err != nil {
		p.logger.Log(kgo.LogLevelWarn, "flush incomplete during shutdown", "error", err.Error())
	}

	p.client.Close()
	p.client = nil

	p.logger.Log(kgo.LogLevelInfo, "publisher stopped")
}

// Publish queues payload for asynchronous delivery to topic under the given
// partition key. It returns as soon as the client has buffered the message
// locally and never waits for broker acknowledgment.
//
// Returns:
//   - (Queued, nil) once the message is buffered; a DeliveryEvent follows.
//   - (Dropped, ErrBufferFull) when the bounded buffer is at capacity.
//     No DeliveryEvent follows; the caller owns the retry/drop decision.
//   - (Failed, err) for pre-flight failures (not started, invalid input,
//     canceled context). No DeliveryEvent follows.
//
// Connection failures after queueing do not surface here; they arrive later
// as a DeliveryEvent with a non-nil Error.
func (p *Publisher) Publish(ctx context.Context, topic, key string, payload []byte) (Outcome, error) {
	if ctx.Err() != nil {
		return Failed, ctx.Err()
	}
	if topic == "" {
		return Failed, errors.Join(ErrValidation, fmt.Errorf("topic is required"))
	}
	if len(payload) == 0 {
		return Failed, errors.Join(ErrValidation, fmt.Errorf("payload is empty"))
	}

	// Get client reference while holding lock (brief hold)
	p.clientMu.Lock()
	client := p.client
	p.clientMu.Unlock()

	if client == nil {
		return Failed, ErrNotStarted
	}

	startTime := time.Now()
	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	}

	// TryProduce invokes the promise synchronously, before returning, when
	// the buffer is at capacity. That case is reported to the caller as
	// backpressure rather than dispatched as a delivery event.
	var bufferFull atomic.Bool
	client.TryProduce(ctx, record, func(r *kgo.Record, err error) {
		if errors.Is(err, kgo.ErrMaxBuffered) {
			bufferFull.Store(true)
			return
		}

		event := DeliveryEvent{
			Topic: r.Topic,
			Key:   string(r.Key),
		}
		if err == nil {
			event.Partition = r.Partition
			event.Offset = r.Offset
		}
		p.dispatchEvent(&event, startTime, classifyDeliveryError(err))
	})

	if bufferFull.Load() {
		return Dropped, ErrBufferFull
	}
	return Queued, nil
}

// Flush blocks until every previously queued message reaches a terminal
// state or ctx expires, and returns the number of messages still buffered
// (0 means fully flushed). Flush only waits; it never cancels outstanding
// messages.
func (p *Publisher) Flush(ctx context.Context) int {
	p.clientMu.Lock()
	client := p.client
	p.clientMu.Unlock()

	if client == nil {
		return 0
	}

	if err := client.Flush(ctx); err != nil {
		p.logger.Log(kgo.LogLevelWarn, "flush incomplete", "error", err.Error())
	}

	return int(client.BufferedProduceRecords())
}

// BufferedRecords returns the number of records and bytes currently buffered.
// Returns zeros if the client is not started.
func (p *Publisher) BufferedRecords() (records int64, bytes int64) {
	p.clientMu.Lock()
	client := p.client
	p.clientMu.Unlock()

	if client == nil {
		return 0, 0
	}
	return client.BufferedProduceRecords(), client.BufferedProduceBytes()
}

// classifyDeliveryError wraps a delivery error with its taxonomy entry.
func classifyDeliveryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errors.Join(ErrTimeout, err)
	default:
		return errors.Join(ErrBroker, err)
	}
}

// dispatchEvent dispatches a DeliveryEvent to all registered listeners.
func (p *Publisher) dispatchEvent(event *DeliveryEvent, since time.Time, err error) {
	if err != nil {
		event.Error = err
		event.ErrorType = errorType(err)
	}
	event.Duration = time.Since(since)

	p.deliveryListeners.Visit(func(listener func(*DeliveryEvent)) {
		listener(event)
	})
}

// validate validates the Publisher's configuration.
func (p *Publisher) validate() error {
	if len(p.Brokers) == 0 {
		return errors.Join(ErrValidation, fmt.Errorf("brokers list is required"))
	}
	for i, broker := range p.Brokers {
		if broker == "" {
			return errors.Join(ErrValidation, fmt.Errorf("broker %d is empty", i))
		}
	}

	if err := p.Compression.validate(); err != nil {
		return err
	}
	if err := p.Acks.validate(); err != nil {
		return err
	}

	if p.MaxMessageBytes > 0 && p.MaxMessageBytes < EncodedSize {
		return errors.Join(ErrValidation,
			fmt.Errorf("max message bytes %d is smaller than one encoded record (%d)",
				p.MaxMessageBytes, EncodedSize))
	}

	return nil
}

// toKgoOpts converts the Publisher's configuration to franz-go client options.
func (p *Publisher) toKgoOpts() []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(p.Brokers...),
	}

	if p.logger != nil {
		opts = append(opts, kgo.WithLogger(p.logger))
	}

	if p.ClientID != "" {
		opts = append(opts, kgo.ClientID(p.ClientID))
	}

	if p.AllowAutoTopicCreation {
		opts = append(opts, kgo.AllowAutoTopicCreation())
	}

	if p.SASL != nil {
		opts = append(opts, kgo.SASL(p.SASL))
	}

	if p.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(p.TLS))
	}

	// Both buffer limits are independent.
	if p.MaxBufferedRecords > 0 {
		opts = append(opts, kgo.MaxBufferedRecords(p.MaxBufferedRecords))
	}
	if p.MaxBufferedBytes > 0 {
		opts = append(opts, kgo.MaxBufferedBytes(p.MaxBufferedBytes))
	}

	if p.MaxMessageBytes > 0 {
		opts = append(opts, kgo.ProducerBatchMaxBytes(int32(p.MaxMessageBytes)))
	}

	if p.RequestTimeout > 0 {
		opts = append(opts, kgo.RequestTimeoutOverhead(p.RequestTimeout))
	}

	if p.MaxRetries > 0 {
		opts = append(opts, kgo.RequestRetries(p.MaxRetries))
	}

	if p.Linger > 0 {
		opts = append(opts, kgo.ProducerLinger(p.Linger))
	}

	opts = append(opts, kgo.RequiredAcks(p.Acks.kgoAcks()))
	if p.Acks == AcksLeader || p.Acks == AcksNone {
		// franz-go requires idempotency off for anything below acks=all.
		opts = append(opts, kgo.DisableIdempotentWrite())
	}

	opts = append(opts, kgo.ProducerBatchCompression(p.Compression.codec()))

	return opts
}

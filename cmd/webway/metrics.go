// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Codykilpatrick/webway"
)

// metrics exposes delivery outcomes as Prometheus series.
type metrics struct {
	registry  *prometheus.Registry
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &metrics{
		registry: reg,
		delivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webway_records_delivered_total",
			Help: "Records confirmed by the broker.",
		}, []string{"topic"}),
		failed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webway_records_failed_total",
			Help: "Records whose delivery terminally failed.",
		}, []string{"topic", "reason"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webway_delivery_seconds",
			Help:    "Time from publish to terminal delivery state.",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"}),
	}
}

// listener returns a delivery listener feeding the counters.
func (m *metrics) listener() func(*webway.DeliveryEvent) {
	return func(e *webway.DeliveryEvent) {
		if e.Error != nil {
			m.failed.WithLabelValues(e.Topic, e.ErrorType).Inc()
			return
		}
		m.delivered.WithLabelValues(e.Topic).Inc()
		m.latency.WithLabelValues(e.Topic).Observe(e.Duration.Seconds())
	}
}

// serve starts the exporter endpoint in the background.
func (m *metrics) serve(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go server.ListenAndServe() //nolint:errcheck // best-effort exporter
}

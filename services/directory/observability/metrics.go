// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides metrics and instrumentation for the
// directory service.
//
// # Description
//
// Prometheus metrics covering the aggregation pipeline:
//   - Directory load counters (by listing source and outcome)
//   - Enrichment outcome counters (enriched, missing, failed)
//   - Load duration histograms
//   - Connection operation counters (by operation and outcome)
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "alumninet"

// Subsystem for directory aggregation metrics
const directorySubsystem = "directory"

// DirectoryMetrics holds all Prometheus metrics for the directory service.
// Initialize once at startup via InitMetrics().
type DirectoryMetrics struct {
	// LoadsTotal counts directory loads by listing source and outcome.
	// Labels: source (for-alumni, general, legacy, none), outcome
	// (ok, degraded, cancelled)
	LoadsTotal *prometheus.CounterVec

	// LoadDurationSeconds measures full load duration (resolve + enrich).
	// Labels: outcome (ok, degraded, cancelled)
	LoadDurationSeconds *prometheus.HistogramVec

	// EnrichmentsTotal counts per-record enrichment outcomes.
	// Labels: outcome (enriched, missing, failed)
	EnrichmentsTotal *prometheus.CounterVec

	// SnapshotProfiles tracks the size of the current snapshot.
	SnapshotProfiles prometheus.Gauge

	// ConnectionOpsTotal counts connection operations by kind and outcome.
	// Labels: op (status, submit, count), outcome (ok, rejected, degraded,
	// error)
	ConnectionOpsTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of DirectoryMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *DirectoryMetrics

// InitMetrics creates and registers all Prometheus metrics. Call once at
// application startup; calling twice panics on duplicate registration.
func InitMetrics() *DirectoryMetrics {
	DefaultMetrics = &DirectoryMetrics{
		LoadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: directorySubsystem,
				Name:      "loads_total",
				Help:      "Total directory loads by listing source and outcome",
			},
			[]string{"source", "outcome"},
		),

		LoadDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: directorySubsystem,
				Name:      "load_duration_seconds",
				Help:      "Full directory load duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"outcome"},
		),

		EnrichmentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: directorySubsystem,
				Name:      "enrichments_total",
				Help:      "Per-record enrichment outcomes",
			},
			[]string{"outcome"},
		),

		SnapshotProfiles: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: directorySubsystem,
				Name:      "snapshot_profiles",
				Help:      "Number of profiles in the current snapshot",
			},
		),

		ConnectionOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: directorySubsystem,
				Name:      "connection_ops_total",
				Help:      "Connection operations by kind and outcome",
			},
			[]string{"op", "outcome"},
		),
	}

	return DefaultMetrics
}

// RecordLoad records a completed directory load.
func (m *DirectoryMetrics) RecordLoad(source, outcome string, seconds float64) {
	m.LoadsTotal.WithLabelValues(source, outcome).Inc()
	m.LoadDurationSeconds.WithLabelValues(outcome).Observe(seconds)
}

// RecordEnrichments records the outcome counts of one enrichment pass.
func (m *DirectoryMetrics) RecordEnrichments(enriched, missing, failed int) {
	m.EnrichmentsTotal.WithLabelValues("enriched").Add(float64(enriched))
	m.EnrichmentsTotal.WithLabelValues("missing").Add(float64(missing))
	m.EnrichmentsTotal.WithLabelValues("failed").Add(float64(failed))
}

// RecordConnectionOp records one connection operation.
func (m *DirectoryMetrics) RecordConnectionOp(op, outcome string) {
	m.ConnectionOpsTotal.WithLabelValues(op, outcome).Inc()
}

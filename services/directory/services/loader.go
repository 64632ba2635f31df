// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package services contains the business logic of the directory service.
//
// Loader runs the aggregation pipeline (resolve listing -> enrich profiles)
// and publishes the result as an immutable snapshot. Loads are numbered by a
// monotonic generation counter; publication is last-load-wins, so a slow
// load that finishes after a newer one is discarded rather than clobbering
// it. Loads from different callers run independently; only the caller's own
// context cancels a load.
package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/stjoseph-coe/alumninet/pkg/extensions"
	"github.com/stjoseph-coe/alumninet/services/directory/enricher"
	"github.com/stjoseph-coe/alumninet/services/directory/observability"
	"github.com/stjoseph-coe/alumninet/services/directory/resolver"
	"github.com/stjoseph-coe/alumninet/services/directory/search"
)

// Loader runs directory loads and owns the current snapshot.
//
// Thread Safety: Safe for concurrent use.
type Loader struct {
	resolver *resolver.Resolver
	enricher *enricher.Enricher
	metrics  *observability.DirectoryMetrics
	log      *slog.Logger

	generation atomic.Uint64

	mu      sync.Mutex
	current *search.Snapshot
}

// NewLoader builds a Loader. Metrics may be nil (not recorded); a nil
// logger defaults to slog.Default().
func NewLoader(res *resolver.Resolver, enr *enricher.Enricher, metrics *observability.DirectoryMetrics, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		resolver: res,
		enricher: enr,
		metrics:  metrics,
		log:      log,
	}
}

// Load runs one full aggregation pass for the caller and publishes the
// resulting snapshot if no newer load has published first.
//
// Concurrent loads never interfere: each caller's load runs to completion
// under its own context, and a stale result loses publication to any newer
// generation instead of being cancelled. Load returns the snapshot it built
// even when a newer generation won publication, so the caller that requested
// it still gets a coherent answer. The only error condition is cancellation
// of the caller's own context, which abandons the load and discards its
// partial result.
func (l *Loader) Load(ctx context.Context, caller *extensions.AuthInfo) (*search.Snapshot, error) {
	gen := l.generation.Add(1)
	loadID := uuid.NewString()
	start := time.Now()

	log := l.log.With("load_id", loadID, "generation", gen)
	log.Info("directory load started")

	resolved, err := l.resolver.Resolve(ctx, caller)
	if err != nil {
		l.recordLoad("none", "cancelled", start)
		return nil, err
	}

	profiles, stats := l.enricher.Enrich(ctx, resolved.Records)
	if err := ctx.Err(); err != nil {
		// The caller abandoned the load; discard the partial result.
		l.recordLoad(string(resolved.Source), "cancelled", start)
		return nil, err
	}

	snap := &search.Snapshot{
		Generation: gen,
		LoadedAt:   time.Now(),
		Degraded:   resolved.Degraded,
		Profiles:   profiles,
	}
	published := l.publish(snap)

	outcome := "ok"
	if snap.Degraded {
		outcome = "degraded"
	}
	l.recordLoad(string(resolved.Source), outcome, start)
	if l.metrics != nil {
		l.metrics.RecordEnrichments(stats.Enriched, stats.Missing, stats.Failed)
	}

	log.Info("directory load finished",
		"source", string(resolved.Source),
		"profiles", len(profiles),
		"enriched", stats.Enriched,
		"missing", stats.Missing,
		"failed", stats.Failed,
		"degraded", snap.Degraded,
		"published", published,
		"duration", time.Since(start).String())
	return snap, nil
}

// Current returns the most recently published snapshot, or nil before the
// first successful load.
func (l *Loader) Current() *search.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// publish installs snap as the current snapshot unless a newer generation
// already published. Returns whether snap won.
func (l *Loader) publish(snap *search.Snapshot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil && l.current.Generation > snap.Generation {
		return false
	}
	l.current = snap
	if l.metrics != nil {
		l.metrics.SnapshotProfiles.Set(float64(len(snap.Profiles)))
	}
	return true
}

func (l *Loader) recordLoad(source, outcome string, start time.Time) {
	if l.metrics == nil {
		return
	}
	l.metrics.RecordLoad(source, outcome, time.Since(start).Seconds())
}

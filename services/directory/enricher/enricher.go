// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package enricher merges listing records with their optional complete
// profiles under bounded concurrency.
//
// # Description
//
// Enrich deduplicates a listing batch by id, fans one complete-profile fetch
// out per distinct record through a counting semaphore, and merges each
// result under basic-wins-if-non-empty precedence. Failures degrade per
// record: a record whose fetch fails or times out is carried through with
// listing data only, never dropped and never retried. Exactly one fetch is
// attempted per distinct id per load.
//
// # Thread Safety
//
// Enricher is safe for concurrent use; each Enrich call owns its own
// bookkeeping.
package enricher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
	"github.com/stjoseph-coe/alumninet/services/directory/upstream"
)

const (
	// DefaultWorkers bounds concurrent complete-profile fetches per load.
	DefaultWorkers = 8

	// DefaultPerCallTimeout bounds each individual profile fetch.
	DefaultPerCallTimeout = 10 * time.Second
)

// ProfileClient is the subset of the platform client the enricher needs.
type ProfileClient interface {
	CompleteProfile(ctx context.Context, id string) (*datatypes.CompleteProfileRecord, error)
}

// Config tunes an Enricher.
type Config struct {
	// Workers is the fetch concurrency cap. Zero means DefaultWorkers.
	Workers int

	// PerCallTimeout bounds each profile fetch. Zero means
	// DefaultPerCallTimeout.
	PerCallTimeout time.Duration
}

// Stats summarizes one enrichment pass, for logging and metrics.
type Stats struct {
	// Input is the raw batch size before deduplication.
	Input int

	// Distinct is the number of records after deduplication by id.
	Distinct int

	// Enriched is the number of records whose profile fetch succeeded.
	Enriched int

	// Missing is the number of records with no complete profile (404).
	Missing int

	// Failed is the number of records whose fetch failed for any other
	// reason and degraded to listing data.
	Failed int
}

// Enricher fans complete-profile fetches out over a listing batch.
type Enricher struct {
	client  ProfileClient
	sem     *Semaphore
	timeout time.Duration
	log     *slog.Logger
}

// New builds an Enricher. A nil logger defaults to slog.Default().
func New(client ProfileClient, cfg Config, log *slog.Logger) *Enricher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	timeout := cfg.PerCallTimeout
	if timeout <= 0 {
		timeout = DefaultPerCallTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{
		client:  client,
		sem:     NewSemaphore(workers),
		timeout: timeout,
		log:     log,
	}
}

// Enrich merges every record in the batch with its complete profile.
//
// Output order follows input order of first occurrence; duplicates by id are
// collapsed before fan-out so each id is fetched at most once. Cardinality
// is otherwise preserved: every distinct input record yields exactly one
// output profile, enriched or not. Cancelling ctx abandons pending fetches;
// records not yet fetched degrade to listing data.
func (e *Enricher) Enrich(ctx context.Context, records []datatypes.BasicAlumniRecord) ([]datatypes.EnrichedAlumniProfile, Stats) {
	stats := Stats{Input: len(records)}

	distinct := dedupeByID(records)
	stats.Distinct = len(distinct)

	profiles := make([]datatypes.EnrichedAlumniProfile, len(distinct))
	outcomes := make([]outcome, len(distinct))

	var wg sync.WaitGroup
	for i, rec := range distinct {
		wg.Add(1)
		go func(i int, rec datatypes.BasicAlumniRecord) {
			defer wg.Done()
			profiles[i], outcomes[i] = e.enrichOne(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	for _, o := range outcomes {
		switch o {
		case outcomeEnriched:
			stats.Enriched++
		case outcomeMissing:
			stats.Missing++
		default:
			stats.Failed++
		}
	}
	return profiles, stats
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeEnriched
	outcomeMissing
)

func (e *Enricher) enrichOne(ctx context.Context, rec datatypes.BasicAlumniRecord) (datatypes.EnrichedAlumniProfile, outcome) {
	if err := e.sem.Acquire(ctx); err != nil {
		return Merge(rec, nil), outcomeFailed
	}
	defer e.sem.Release()

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	complete, err := e.client.CompleteProfile(callCtx, rec.ID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return Merge(rec, nil), outcomeMissing
		}
		e.log.Debug("profile enrichment degraded to listing data",
			"alumni_id", rec.ID, "error", err)
		return Merge(rec, nil), outcomeFailed
	}

	merged := Merge(rec, complete)
	merged.Enriched = true
	return merged, outcomeEnriched
}

// dedupeByID collapses duplicate ids, keeping the first occurrence.
func dedupeByID(records []datatypes.BasicAlumniRecord) []datatypes.BasicAlumniRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]datatypes.BasicAlumniRecord, 0, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

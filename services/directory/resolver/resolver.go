// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package resolver selects the listing source for a directory load and
// normalizes its output.
//
// # Description
//
// Source selection is role-aware. Alumni callers use the directory endpoint
// that excludes their own record server-side; everyone else uses the general
// directory endpoint. When the primary source fails for any reason the
// resolver falls back to the legacy users endpoint, which performs no caller
// exclusion, so for alumni callers the normalize stage removes the caller by
// id or email match before the batch leaves this package.
//
// The pipeline is explicitly two-stage (fetch, then normalize) so each stage
// is independently testable. Fetch never normalizes; normalize never does
// I/O.
//
// # Thread Safety
//
// Resolver is stateless apart from its injected client and logger and is
// safe for concurrent use.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stjoseph-coe/alumninet/pkg/extensions"
	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
	"github.com/stjoseph-coe/alumninet/services/directory/upstream"
)

// Source identifies which listing endpoint produced a batch.
type Source string

const (
	// SourceForAlumni is the role-excluding directory endpoint.
	SourceForAlumni Source = "for-alumni"

	// SourceGeneral is the general verified-alumni directory endpoint.
	SourceGeneral Source = "general"

	// SourceLegacy is the legacy users endpoint used as fallback.
	SourceLegacy Source = "legacy"

	// SourceNone means every source failed and the batch is empty.
	SourceNone Source = "none"
)

// ListingClient is the subset of the platform client the resolver needs.
type ListingClient interface {
	ListAlumniForAlumni(ctx context.Context) ([]datatypes.BasicAlumniRecord, error)
	ListAlumni(ctx context.Context) ([]datatypes.BasicAlumniRecord, error)
	ListAlumniLegacy(ctx context.Context) ([]datatypes.BasicAlumniRecord, error)
}

// Result is a resolved listing batch.
type Result struct {
	// Records is the normalized batch. Never nil.
	Records []datatypes.BasicAlumniRecord

	// Source names the endpoint that produced Records.
	Source Source

	// Degraded is true when every source failed and Records is empty for
	// that reason rather than because the directory is genuinely empty.
	// Degradation is a reportable condition, not an error.
	Degraded bool
}

// Resolver resolves listing batches for directory loads.
type Resolver struct {
	client ListingClient
	log    *slog.Logger
}

// New builds a Resolver. A nil logger defaults to slog.Default().
func New(client ListingClient, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{client: client, log: log}
}

// Resolve fetches and normalizes one listing batch for the given caller.
//
// A primary-source failure of any kind triggers the legacy fallback; a 404
// from the final source is a valid empty directory; any other final-source
// failure yields an empty, degraded batch. Resolve returns an error only on
// context cancellation, never on upstream failure.
func (r *Resolver) Resolve(ctx context.Context, caller *extensions.AuthInfo) (*Result, error) {
	records, source, err := r.fetch(ctx, caller)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, upstream.ErrNotFound) {
			return &Result{Records: []datatypes.BasicAlumniRecord{}, Source: source}, nil
		}
		r.log.Warn("all listing sources failed, serving empty directory",
			"source", string(source), "error", err)
		return &Result{Records: []datatypes.BasicAlumniRecord{}, Source: SourceNone, Degraded: true}, nil
	}
	return &Result{
		Records: normalize(records, source, caller),
		Source:  source,
	}, nil
}

// fetch runs the source plan: primary by role, then the legacy fallback.
// The returned Source always names the last endpoint attempted.
func (r *Resolver) fetch(ctx context.Context, caller *extensions.AuthInfo) ([]datatypes.BasicAlumniRecord, Source, error) {
	primary := SourceGeneral
	list := r.client.ListAlumni
	if caller != nil && caller.IsAlumni() {
		primary = SourceForAlumni
		list = r.client.ListAlumniForAlumni
	}

	records, err := list(ctx)
	if err == nil {
		return records, primary, nil
	}
	if ctx.Err() != nil {
		return nil, primary, err
	}
	r.log.Warn("primary listing source failed, trying legacy fallback",
		"source", string(primary), "error", err)

	records, err = r.client.ListAlumniLegacy(ctx)
	if err != nil {
		return nil, SourceLegacy, err
	}
	return records, SourceLegacy, nil
}

// normalize applies client-side cleanup to a fetched batch: records without
// an id are dropped, and for the legacy source an alumni caller's own record
// is excluded by id or email match. Non-alumni callers are never listed, so
// no exclusion applies to them.
func normalize(records []datatypes.BasicAlumniRecord, source Source, caller *extensions.AuthInfo) []datatypes.BasicAlumniRecord {
	out := make([]datatypes.BasicAlumniRecord, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if source == SourceLegacy && isSelf(rec, caller) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func isSelf(rec datatypes.BasicAlumniRecord, caller *extensions.AuthInfo) bool {
	if caller == nil || !caller.IsAlumni() {
		return false
	}
	if caller.UserID != "" && rec.ID == caller.UserID {
		return true
	}
	return caller.Email != "" && rec.Email == caller.Email
}

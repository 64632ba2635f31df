// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package search filters immutable directory snapshots.
//
// Filtering is pure and deterministic: the same query over the same snapshot
// always yields the same result, applying a filter twice equals applying it
// once, and no filter ever mutates the snapshot it reads. Snapshots carry a
// monotonic load generation so a slow, stale load can never clobber a newer
// one.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/stjoseph-coe/alumninet/pkg/validation"
	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
)

// Snapshot is one immutable directory load result.
type Snapshot struct {
	// Generation is the monotonic load counter this snapshot came from.
	Generation uint64

	// LoadedAt is when the load completed.
	LoadedAt time.Time

	// Degraded is true when the listing stage served an empty batch because
	// every source failed, or when enrichment failed wholesale.
	Degraded bool

	// Profiles is the enriched batch. Never nil. Treated as immutable by
	// every reader.
	Profiles []datatypes.EnrichedAlumniProfile
}

// Query is a directory filter. Zero-valued fields are inactive.
type Query struct {
	// Search is matched case-insensitively as a substring against name,
	// email, department, current company, placed company and current
	// position.
	Search string

	// Department must match exactly when non-empty.
	Department string

	// GraduationYear must match exactly when non-empty.
	GraduationYear string
}

// IsZero reports whether no filter field is active.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" && q.Department == "" && q.GraduationYear == ""
}

// Apply filters the snapshot's profiles by the query.
//
// Conditions combine with AND; an empty query returns every profile. The
// result is a fresh slice, never nil, sharing the snapshot's (immutable)
// profile values.
func Apply(snap *Snapshot, q Query) []datatypes.EnrichedAlumniProfile {
	out := make([]datatypes.EnrichedAlumniProfile, 0, len(snap.Profiles))
	term := validation.SanitizeSearchTerm(q.Search)
	for _, p := range snap.Profiles {
		if term != "" && !matchesTerm(&p, term) {
			continue
		}
		if q.Department != "" && p.Department != q.Department {
			continue
		}
		if q.GraduationYear != "" && p.GraduationYear != q.GraduationYear {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesTerm(p *datatypes.EnrichedAlumniProfile, term string) bool {
	for _, field := range []string{
		p.Name, p.Email, p.Department, p.CurrentCompany, p.PlacedCompany, p.CurrentPosition,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Departments returns the distinct non-empty departments of the snapshot,
// sorted ascending.
func Departments(snap *Snapshot) []string {
	return distinct(snap, func(p *datatypes.EnrichedAlumniProfile) string { return p.Department })
}

// GraduationYears returns the distinct non-empty graduation years of the
// snapshot, newest first.
func GraduationYears(snap *Snapshot) []string {
	years := distinct(snap, func(p *datatypes.EnrichedAlumniProfile) string { return p.GraduationYear })
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

func distinct(snap *Snapshot, key func(*datatypes.EnrichedAlumniProfile) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range snap.Profiles {
		v := key(&snap.Profiles[i])
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

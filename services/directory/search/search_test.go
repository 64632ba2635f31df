// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

import (
	"reflect"
	"testing"

	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Generation: 1,
		Profiles: []datatypes.EnrichedAlumniProfile{
			{ID: "u1", Name: "Priya Raman", Email: "priya@x.in", Department: "CSE", GraduationYear: "2019", CurrentCompany: "Zoho", CurrentPosition: "SDE II"},
			{ID: "u2", Name: "Arun Kumar", Email: "arun@x.in", Department: "ECE", GraduationYear: "2020", PlacedCompany: "Qualcomm"},
			{ID: "u3", Name: "Meena S", Email: "meena@x.in", Department: "CSE", GraduationYear: "2020", CurrentPosition: "Data Engineer"},
			{ID: "u4", Name: "Vikram", Email: "vikram@x.in", Department: "", GraduationYear: ""},
		},
	}
}

func ids(profiles []datatypes.EnrichedAlumniProfile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty query returns everything", Query{}, []string{"u1", "u2", "u3", "u4"}},
		{"free text matches name case-insensitively", Query{Search: "PRIYA"}, []string{"u1"}},
		{"free text matches company", Query{Search: "qualcomm"}, []string{"u2"}},
		{"free text matches position", Query{Search: "engineer"}, []string{"u3"}},
		{"department exact match", Query{Department: "CSE"}, []string{"u1", "u3"}},
		{"graduation year exact match", Query{GraduationYear: "2020"}, []string{"u2", "u3"}},
		{"conditions combine with AND", Query{Department: "CSE", GraduationYear: "2020"}, []string{"u3"}},
		{"no match yields empty not nil", Query{Search: "nonexistent"}, []string{}},
		{"whitespace-only search is inactive", Query{Search: "   "}, []string{"u1", "u2", "u3", "u4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(snap, tt.q)
			if got == nil {
				t.Fatal("Apply returned nil, want slice")
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("Apply = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestApplyIsIdempotentAndNonMutating(t *testing.T) {
	snap := testSnapshot()
	before := make([]datatypes.EnrichedAlumniProfile, len(snap.Profiles))
	copy(before, snap.Profiles)

	q := Query{Department: "CSE"}
	once := Apply(snap, q)
	twice := Apply(&Snapshot{Generation: snap.Generation, Profiles: once}, q)

	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("filter not idempotent: once=%v twice=%v", ids(once), ids(twice))
	}
	if !reflect.DeepEqual(snap.Profiles, before) {
		t.Error("Apply mutated the snapshot")
	}
}

func TestFacets(t *testing.T) {
	snap := testSnapshot()

	deps := Departments(snap)
	if !reflect.DeepEqual(deps, []string{"CSE", "ECE"}) {
		t.Errorf("Departments = %v, want sorted deduped non-empty", deps)
	}

	years := GraduationYears(snap)
	if !reflect.DeepEqual(years, []string{"2020", "2019"}) {
		t.Errorf("GraduationYears = %v, want newest first, deduped, non-empty", years)
	}
}

// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package enricher

import (
	"reflect"
	"testing"

	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
)

func TestMergePrecedence(t *testing.T) {
	t.Run("basic wins when both sources have a value", func(t *testing.T) {
		basic := datatypes.BasicAlumniRecord{
			ID:         "u1",
			Name:       "Priya Raman",
			Department: "CSE",
			Location:   "Chennai",
		}
		complete := &datatypes.CompleteProfileRecord{
			Name:       "P. Raman",
			Department: "Computer Science",
			Location:   "Bengaluru",
		}

		got := Merge(basic, complete)
		if got.Name != "Priya Raman" {
			t.Errorf("Name = %q, want basic value", got.Name)
		}
		if got.Department != "CSE" {
			t.Errorf("Department = %q, want basic value", got.Department)
		}
		if got.Location != "Chennai" {
			t.Errorf("Location = %q, want basic value", got.Location)
		}
	})

	t.Run("complete fills fields the listing left empty", func(t *testing.T) {
		basic := datatypes.BasicAlumniRecord{ID: "u1", Name: "Priya"}
		complete := &datatypes.CompleteProfileRecord{
			Location: "Bengaluru",
			Bio:      "Systems engineer",
			Skills:   []string{"go", "k8s"},
		}

		got := Merge(basic, complete)
		if got.Location != "Bengaluru" {
			t.Errorf("Location = %q, want complete value", got.Location)
		}
		if got.Bio != "Systems engineer" {
			t.Errorf("Bio = %q, want complete value", got.Bio)
		}
		if !reflect.DeepEqual(got.Skills, []string{"go", "k8s"}) {
			t.Errorf("Skills = %v, want complete value", got.Skills)
		}
	})

	t.Run("company cross-fallback within the listing record", func(t *testing.T) {
		basic := datatypes.BasicAlumniRecord{ID: "u1", PlacedCompany: "Zoho"}
		got := Merge(basic, nil)
		if got.CurrentCompany != "Zoho" {
			t.Errorf("CurrentCompany = %q, want placed-company fallback", got.CurrentCompany)
		}
		if got.PlacedCompany != "Zoho" {
			t.Errorf("PlacedCompany = %q, want Zoho", got.PlacedCompany)
		}
	})

	t.Run("legacy aliases feed position, company and bio", func(t *testing.T) {
		basic := datatypes.BasicAlumniRecord{ID: "u1"}
		complete := &datatypes.CompleteProfileRecord{
			CurrentJob: "Staff Engineer",
			Company:    "Freshworks",
			AboutMe:    "Alumni mentor since 2021",
		}

		got := Merge(basic, complete)
		if got.CurrentPosition != "Staff Engineer" {
			t.Errorf("CurrentPosition = %q, want currentJob alias", got.CurrentPosition)
		}
		if got.CurrentCompany != "Freshworks" {
			t.Errorf("CurrentCompany = %q, want company alias", got.CurrentCompany)
		}
		if got.Bio != "Alumni mentor since 2021" {
			t.Errorf("Bio = %q, want aboutMe fallback", got.Bio)
		}
		if got.AboutMe != "Alumni mentor since 2021" {
			t.Errorf("AboutMe = %q, want aboutMe value", got.AboutMe)
		}
	})

	t.Run("mentorship flags OR across all sources", func(t *testing.T) {
		basic := datatypes.BasicAlumniRecord{ID: "u1"}
		complete := &datatypes.CompleteProfileRecord{AvailableForMentorship: true}

		got := Merge(basic, complete)
		if !got.IsAvailableForMentorship || !got.MentorshipAvailable {
			t.Errorf("mentorship flags = %v/%v, want true/true from legacy alias",
				got.IsAvailableForMentorship, got.MentorshipAvailable)
		}
	})

	t.Run("nil complete profile yields non-nil slices", func(t *testing.T) {
		got := Merge(datatypes.BasicAlumniRecord{ID: "u1"}, nil)
		for name, s := range map[string][]string{
			"Skills":          got.Skills,
			"TechnicalSkills": got.TechnicalSkills,
			"SoftSkills":      got.SoftSkills,
			"Languages":       got.Languages,
			"Achievements":    got.Achievements,
			"Certifications":  got.Certifications,
			"Projects":        got.Projects,
		} {
			if s == nil {
				t.Errorf("%s is nil, want empty slice", name)
			}
		}
		if got.Enriched {
			t.Error("Merge must not set the Enriched flag itself")
		}
	})
}

func TestParseExperienceYears(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5 years", 5},
		{"12+ yrs", 12},
		{"3", 3},
		{"  7 ", 7},
		{"none", 0},
		{"", 0},
		{"about five years", 0},
	}

	for _, tt := range tests {
		if got := parseExperienceYears(tt.in); got != tt.want {
			t.Errorf("parseExperienceYears(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWorkExperienceFallback(t *testing.T) {
	basic := datatypes.BasicAlumniRecord{ID: "u1"}
	complete := &datatypes.CompleteProfileRecord{Experience: "9 years"}
	if got := Merge(basic, complete).WorkExperience; got != 9 {
		t.Errorf("WorkExperience = %d, want 9 parsed from legacy string", got)
	}

	complete.WorkExperience = 4
	if got := Merge(basic, complete).WorkExperience; got != 4 {
		t.Errorf("WorkExperience = %d, want 4 from numeric field", got)
	}

	basic.WorkExperience = 6
	if got := Merge(basic, complete).WorkExperience; got != 6 {
		t.Errorf("WorkExperience = %d, want 6 from listing record", got)
	}
}

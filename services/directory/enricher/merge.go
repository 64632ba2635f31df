// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package enricher

import (
	"strconv"
	"strings"

	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
)

// Merge combines a listing record with its optional complete profile into
// the display-ready entity.
//
// Precedence is basic-wins-if-non-empty per field: the listing source is the
// authority on identity and recent placement, the complete profile fills in
// narrative depth. A nil complete profile yields a basic-only entity with
// every slice field non-nil. Merge is pure and side-effect free.
func Merge(basic datatypes.BasicAlumniRecord, complete *datatypes.CompleteProfileRecord) datatypes.EnrichedAlumniProfile {
	if complete == nil {
		complete = &datatypes.CompleteProfileRecord{}
	}

	return datatypes.EnrichedAlumniProfile{
		ID:              basic.ID,
		Name:            firstNonEmpty(basic.Name, complete.Name),
		Email:           firstNonEmpty(basic.Email, complete.Email),
		Department:      firstNonEmpty(basic.Department, complete.Department),
		PhoneNumber:     firstNonEmpty(basic.PhoneNumber, complete.PhoneNumber),
		GraduationYear:  firstNonEmpty(basic.GraduationYear, complete.GraduationYear),
		Batch:           firstNonEmpty(basic.Batch, complete.Batch),
		PlacedCompany:   firstNonEmpty(basic.PlacedCompany, basic.CurrentCompany, complete.PlacedCompany),
		CurrentPosition: firstNonEmpty(basic.CurrentPosition, complete.CurrentPosition, complete.CurrentJob),
		CurrentCompany:  firstNonEmpty(basic.CurrentCompany, basic.PlacedCompany, complete.CurrentCompany, complete.Company),
		Location:        firstNonEmpty(basic.Location, complete.Location),
		Bio:             firstNonEmpty(basic.Bio, complete.Bio, complete.AboutMe),
		AboutMe:         firstNonEmpty(complete.AboutMe, basic.Bio),
		Skills:          firstNonEmptySlice(basic.Skills, complete.Skills, complete.TechnicalSkills),
		TechnicalSkills: orEmptySlice(complete.TechnicalSkills),
		SoftSkills:      orEmptySlice(complete.SoftSkills),
		Languages:       orEmptySlice(complete.Languages),
		WorkExperience: firstNonZero(basic.WorkExperience, complete.WorkExperience,
			parseExperienceYears(complete.Experience)),
		Achievements:             firstNonEmptySlice(basic.Achievements, complete.Achievements),
		LinkedinURL:              firstNonEmpty(basic.LinkedinURL, complete.LinkedinURL),
		GithubURL:                firstNonEmpty(basic.GithubURL, complete.GithubURL),
		PortfolioURL:             firstNonEmpty(basic.PortfolioURL, complete.PortfolioURL),
		PersonalWebsite:          complete.PersonalWebsite,
		Industry:                 firstNonEmpty(basic.Industry, complete.Industry),
		Specialization:           firstNonEmpty(basic.Specialization, complete.Specialization),
		Certifications:           firstNonEmptySlice(basic.Certifications, complete.Certifications),
		Projects:                 firstNonEmptySlice(basic.Projects, complete.Projects),
		IsAvailableForMentorship: basic.IsAvailableForMentorship || complete.IsAvailableForMentorship || complete.AvailableForMentorship,
		MentorshipAvailable:      basic.MentorshipAvailable || complete.MentorshipAvailable || complete.AvailableForMentorship,
		ProfilePicture:           firstNonEmpty(basic.ProfilePicture, complete.ProfilePicture),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonEmptySlice(slices ...[]string) []string {
	for _, s := range slices {
		if len(s) > 0 {
			return s
		}
	}
	return []string{}
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// parseExperienceYears extracts a year count from the legacy free-text
// experience field ("5 years", "5+ yrs", "5"). Returns 0 when no leading
// number is present.
func parseExperienceYears(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

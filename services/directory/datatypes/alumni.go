// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the wire and domain types shared across the
// directory service.
//
// Three alumni shapes exist on purpose:
//
//   - BasicAlumniRecord: what the listing sources return. Identity-bearing,
//     immutable once fetched.
//   - CompleteProfileRecord: the richer optional record from the
//     alumni-profiles collection, keyed by the same id. May be absent.
//   - EnrichedAlumniProfile: the merged, display-ready entity derived from
//     the two. Never stored; rebuilt on every directory load.
package datatypes

// BasicAlumniRecord is a single entry returned by a listing source.
//
// The id is an opaque platform identifier and is the join key for
// enrichment. All other fields are optional upstream and may be empty.
type BasicAlumniRecord struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Email                    string   `json:"email"`
	Department               string   `json:"department"`
	PhoneNumber              string   `json:"phoneNumber,omitempty"`
	GraduationYear           string   `json:"graduationYear,omitempty"`
	Batch                    string   `json:"batch,omitempty"`
	PlacedCompany            string   `json:"placedCompany,omitempty"`
	CurrentPosition          string   `json:"currentPosition,omitempty"`
	CurrentCompany           string   `json:"currentCompany,omitempty"`
	Location                 string   `json:"location,omitempty"`
	Bio                      string   `json:"bio,omitempty"`
	Skills                   []string `json:"skills,omitempty"`
	WorkExperience           int      `json:"workExperience,omitempty"`
	Achievements             []string `json:"achievements,omitempty"`
	LinkedinURL              string   `json:"linkedinUrl,omitempty"`
	GithubURL                string   `json:"githubUrl,omitempty"`
	PortfolioURL             string   `json:"portfolioUrl,omitempty"`
	Industry                 string   `json:"industry,omitempty"`
	Specialization           string   `json:"specialization,omitempty"`
	Certifications           []string `json:"certifications,omitempty"`
	Projects                 []string `json:"projects,omitempty"`
	IsAvailableForMentorship bool     `json:"isAvailableForMentorship,omitempty"`
	MentorshipAvailable      bool     `json:"mentorshipAvailable,omitempty"`
	ProfilePicture           string   `json:"profilePicture,omitempty"`
}

// CompleteProfileRecord is the richer profile from the alumni-profiles
// collection. It is a superset of the narrative and professional fields and
// carries several legacy aliases (currentJob/company/experience,
// availableForMentorship) that older profile documents still use.
type CompleteProfileRecord struct {
	Name                     string   `json:"name,omitempty"`
	Email                    string   `json:"email,omitempty"`
	Department               string   `json:"department,omitempty"`
	PhoneNumber              string   `json:"phoneNumber,omitempty"`
	GraduationYear           string   `json:"graduationYear,omitempty"`
	Batch                    string   `json:"batch,omitempty"`
	PlacedCompany            string   `json:"placedCompany,omitempty"`
	CurrentPosition          string   `json:"currentPosition,omitempty"`
	CurrentJob               string   `json:"currentJob,omitempty"`
	CurrentCompany           string   `json:"currentCompany,omitempty"`
	Company                  string   `json:"company,omitempty"`
	Location                 string   `json:"location,omitempty"`
	Bio                      string   `json:"bio,omitempty"`
	AboutMe                  string   `json:"aboutMe,omitempty"`
	Skills                   []string `json:"skills,omitempty"`
	TechnicalSkills          []string `json:"technicalSkills,omitempty"`
	SoftSkills               []string `json:"softSkills,omitempty"`
	Languages                []string `json:"languages,omitempty"`
	WorkExperience           int      `json:"workExperience,omitempty"`
	Experience               string   `json:"experience,omitempty"`
	Achievements             []string `json:"achievements,omitempty"`
	LinkedinURL              string   `json:"linkedinUrl,omitempty"`
	GithubURL                string   `json:"githubUrl,omitempty"`
	PortfolioURL             string   `json:"portfolioUrl,omitempty"`
	PersonalWebsite          string   `json:"personalWebsite,omitempty"`
	Industry                 string   `json:"industry,omitempty"`
	Specialization           string   `json:"specialization,omitempty"`
	Certifications           []string `json:"certifications,omitempty"`
	Projects                 []string `json:"projects,omitempty"`
	IsAvailableForMentorship bool     `json:"isAvailableForMentorship,omitempty"`
	AvailableForMentorship   bool     `json:"availableForMentorship,omitempty"`
	MentorshipAvailable      bool     `json:"mentorshipAvailable,omitempty"`
	ProfilePicture           string   `json:"profilePicture,omitempty"`
}

// EnrichedAlumniProfile is the merged, display-ready entity.
//
// Merge precedence: for every field present in both sources the basic value
// wins if non-empty, otherwise the complete-profile value is used, otherwise
// a type-appropriate default. Exactly one profile exists per distinct id in
// a batch. The slice fields are never nil so they serialize as [].
type EnrichedAlumniProfile struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Email                    string   `json:"email"`
	Department               string   `json:"department"`
	PhoneNumber              string   `json:"phoneNumber"`
	GraduationYear           string   `json:"graduationYear"`
	Batch                    string   `json:"batch"`
	PlacedCompany            string   `json:"placedCompany"`
	CurrentPosition          string   `json:"currentPosition"`
	CurrentCompany           string   `json:"currentCompany"`
	Location                 string   `json:"location"`
	Bio                      string   `json:"bio"`
	AboutMe                  string   `json:"aboutMe"`
	Skills                   []string `json:"skills"`
	TechnicalSkills          []string `json:"technicalSkills"`
	SoftSkills               []string `json:"softSkills"`
	Languages                []string `json:"languages"`
	WorkExperience           int      `json:"workExperience"`
	Achievements             []string `json:"achievements"`
	LinkedinURL              string   `json:"linkedinUrl"`
	GithubURL                string   `json:"githubUrl"`
	PortfolioURL             string   `json:"portfolioUrl"`
	PersonalWebsite          string   `json:"personalWebsite"`
	Industry                 string   `json:"industry"`
	Specialization           string   `json:"specialization"`
	Certifications           []string `json:"certifications"`
	Projects                 []string `json:"projects"`
	IsAvailableForMentorship bool     `json:"isAvailableForMentorship"`
	MentorshipAvailable      bool     `json:"mentorshipAvailable"`
	ProfilePicture           string   `json:"profilePicture"`

	// Enriched reports whether the complete-profile fetch for this record
	// succeeded. False means the profile degraded to listing-source data.
	Enriched bool `json:"enriched"`
}

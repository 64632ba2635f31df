// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that are
// interpolated into upstream API paths or query strings. Using these
// validators prevents path traversal and query injection against the
// platform API.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// userIDPattern matches valid platform user identifiers.
// The platform issues opaque ids made of hex chars and hyphens
// (Mongo ObjectIDs and UUIDs both fit). Max length: 64.
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-]{0,63}$`)

// graduationYearPattern matches a four-digit year.
var graduationYearPattern = regexp.MustCompile(`^\d{4}$`)

// ValidateUserID validates a platform user id before it is placed in an
// upstream URL path.
//
// Valid ids:
//   - 1-64 characters
//   - letters A-Z, a-z and digits
//   - hyphens (-) for UUID-style ids, not in first position
//
// Returns an error if the id is invalid.
//
// Example:
//
//	if err := validation.ValidateUserID(targetID); err != nil {
//	    return nil, fmt.Errorf("invalid user id: %w", err)
//	}
//	// Safe to use in a request path
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	if !userIDPattern.MatchString(id) {
		return fmt.Errorf("invalid user id format: %q (must be 1-64 alphanumeric chars or hyphens)", id)
	}

	return nil
}

// ValidateGraduationYear validates a graduation-year filter value.
// An empty string is valid and means "no year filter".
func ValidateGraduationYear(year string) error {
	if year == "" {
		return nil
	}

	if !graduationYearPattern.MatchString(year) {
		return fmt.Errorf("invalid graduation year: %q (must be a four-digit year)", year)
	}

	return nil
}

// SanitizeSearchTerm normalizes a free-text search term.
// Returns the trimmed, lowercased term. Search terms are never placed in
// upstream URLs (filtering is client-side), so no character restrictions
// apply beyond a length cap.
func SanitizeSearchTerm(term string) string {
	term = strings.TrimSpace(strings.ToLower(term))
	if len(term) > 200 {
		term = term[:200]
	}
	return term
}

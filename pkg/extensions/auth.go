// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines the integration points between the directory
// service and the campus identity infrastructure.
//
// Authentication and session management are owned by the platform's identity
// provider, not by this repository. The interfaces here let deployments plug
// in their real providers while the defaults keep local development working
// with zero infrastructure.
package extensions

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when authentication or authorization fails.
// Provider implementations should wrap this error with additional context.
//
// Example:
//
//	if !validToken {
//	    return nil, fmt.Errorf("invalid token format: %w", extensions.ErrUnauthorized)
//	}
var ErrUnauthorized = errors.New("unauthorized")

// Campus roles as issued by the identity provider.
//
// The directory treats RoleAlumni as the "self-excluding" caller kind: alumni
// browsing the directory must never see their own card.
const (
	RoleStudent    = "STUDENT"
	RoleProfessor  = "PROFESSOR"
	RoleAlumni     = "ALUMNI"
	RoleManagement = "MANAGEMENT"
)

// AuthInfo contains identity information returned after successful
// authentication.
//
// Required fields (always populated):
//   - UserID: Unique identifier for the user
//
// Optional fields (may be empty):
//   - Email: User's email address
//   - Role: Campus role (see the Role* constants)
type AuthInfo struct {
	// UserID is the unique identifier for the authenticated user.
	// This is the only required field and must never be empty.
	UserID string

	// Email is the user's institutional email address.
	// May be empty if not provided by the identity provider.
	Email string

	// Role is the user's campus role, one of the Role* constants.
	// An empty role is treated as the least-privileged caller.
	Role string
}

// IsAlumni reports whether the user is of the alumni kind.
//
// This drives listing-source selection: alumni callers use the
// self-excluding directory endpoint.
func (a *AuthInfo) IsAlumni() bool {
	return a.Role == RoleAlumni
}

// AuthProvider validates authentication tokens and returns user identity.
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// The default StaticAuthProvider decodes nothing: it returns a fixed
// identity for any token, which lets the service run against a mock
// platform API without the campus identity provider.
//
// Production deployments validate the bearer token against the platform's
// JWT issuer and populate AuthInfo from the claims.
type AuthProvider interface {
	// Validate checks if the token is valid and returns the user's identity.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - token: The bearer token presented by the caller
	//
	// Returns:
	//   - *AuthInfo: User identity information if valid
	//   - error: ErrUnauthorized (or wrapped) if invalid, other errors for failures
	Validate(ctx context.Context, token string) (*AuthInfo, error)
}

// TokenSource supplies the bearer credential attached to every outbound
// platform API call.
//
// Credential refresh and expiry are owned by the session collaborator; this
// core treats an auth failure on an upstream call as a generic fetch failure.
//
// Implementations must be safe for concurrent use.
type TokenSource interface {
	// Token returns the current bearer token, or an error if none is
	// available. An empty token with a nil error means the call is sent
	// unauthenticated.
	Token(ctx context.Context) (string, error)
}

// StaticAuthProvider authenticates every request as a fixed user.
//
// This is the local-development default. Any token (including empty string)
// authenticates as the configured identity.
//
// Thread-safe: the struct is immutable after construction.
type StaticAuthProvider struct {
	Info AuthInfo
}

// Validate returns the configured identity regardless of token.
func (p *StaticAuthProvider) Validate(_ context.Context, _ string) (*AuthInfo, error) {
	info := p.Info
	if info.UserID == "" {
		info.UserID = "local-user"
	}
	return &info, nil
}

// StaticTokenSource returns a fixed bearer token on every call.
//
// Thread-safe: the struct is immutable after construction.
type StaticTokenSource struct {
	Value string
}

// Token returns the configured token.
func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	return s.Value, nil
}

// Compile-time interface compliance checks.
var (
	_ AuthProvider = (*StaticAuthProvider)(nil)
	_ TokenSource  = (*StaticTokenSource)(nil)
)

// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package upstream

import (
	"errors"
	"fmt"
)

// Sentinel errors for the upstream package. These are the error taxonomy the
// rest of the service branches on.
var (
	// ErrSourceUnavailable indicates a network failure or 5xx from a
	// platform endpoint. Callers recover via fallback or degradation.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNotFound indicates a 404-class "no data" response. This is a valid
	// empty result, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrValidationRejected indicates the platform rejected a mutation
	// (e.g. duplicate connection request). Authoritative and final; never
	// retried.
	ErrValidationRejected = errors.New("validation rejected")
)

// StatusError carries an unexpected HTTP status from the platform API.
// It does not unwrap to any taxonomy sentinel: unknown failures surface to
// the caller as-is, with no automatic retry anywhere in this service.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("platform API %s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// SubmissionError is a connection-request rejection from the platform.
// Reason holds the platform's own error string ("already pending",
// "already connected", ...), surfaced verbatim to the caller.
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("connection request rejected: %s", e.Reason)
}

// Unwrap maps every submission rejection to ErrValidationRejected.
func (e *SubmissionError) Unwrap() error {
	return ErrValidationRejected
}

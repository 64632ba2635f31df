// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package connections tracks the caller's mentorship connection state per
// target user.
//
// # Description
//
// The platform owns the authoritative state machine (NONE -> PENDING ->
// ACCEPTED | REJECTED, one active request per pair). This package mirrors
// it per target for the caller's session:
//
//   - Status asks the platform on every call; concurrent lookups for the
//     same target collapse into one upstream request. A failed lookup
//     degrades to the last known local state, or NONE when nothing is
//     known, and the degraded answer is never cached.
//   - SubmitRequest is preconditioned on NONE and transitions the local
//     mirror to PENDING optimistically on success. A remote rejection is
//     authoritative: "already pending" and "already connected" rejections
//     correct the local mirror instead of being retried.
//
// # Thread Safety
//
// Manager is safe for concurrent use.
package connections

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/stjoseph-coe/alumninet/pkg/validation"
	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
	"github.com/stjoseph-coe/alumninet/services/directory/upstream"
)

// ErrAlreadyActive means a request or accepted connection already exists
// for the pair, so no new request may be submitted.
var ErrAlreadyActive = errors.New("connection already active")

// ConnectionClient is the subset of the platform client the manager needs.
type ConnectionClient interface {
	ConnectionStatus(ctx context.Context, targetID string) (datatypes.ConnectionStatus, error)
	SendConnectionRequest(ctx context.Context, recipientID, message string) (*datatypes.ConnectionRecord, error)
	ConnectionCount(ctx context.Context) (int, error)
}

// Manager mirrors the caller's per-target connection state.
type Manager struct {
	client ConnectionClient
	group  singleflight.Group
	log    *slog.Logger

	mu    sync.RWMutex
	local map[string]datatypes.ConnectionStatus
}

// NewManager builds a Manager. A nil logger defaults to slog.Default().
func NewManager(client ConnectionClient, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		client: client,
		log:    log,
		local:  make(map[string]datatypes.ConnectionStatus),
	}
}

// Status returns the connection status between the caller and targetID.
//
// The platform's answer is authoritative and refreshes the local mirror.
// On lookup failure the last known local state is returned, or
// ConnectionNone when the target was never seen; the failure itself is not
// an error to the caller and nothing is cached from it.
func (m *Manager) Status(ctx context.Context, targetID string) (datatypes.ConnectionStatus, error) {
	if err := validation.ValidateUserID(targetID); err != nil {
		return datatypes.ConnectionNone, fmt.Errorf("connection status: %w", err)
	}

	v, err, _ := m.group.Do(targetID, func() (any, error) {
		return m.client.ConnectionStatus(ctx, targetID)
	})
	if err != nil {
		if ctx.Err() != nil {
			return datatypes.ConnectionNone, ctx.Err()
		}
		m.log.Warn("connection status lookup failed, degrading to local state",
			"target_id", targetID, "error", err)
		return m.localStatus(targetID), nil
	}

	status := v.(datatypes.ConnectionStatus)
	m.setLocal(targetID, status)
	return status, nil
}

// SubmitRequest submits a mentorship connection request to targetID.
//
// The submission is preconditioned on status NONE: a known PENDING or
// CONNECTED pair fails fast with ErrAlreadyActive before any upstream call.
// On success the local mirror transitions to PENDING. On a remote
// "already pending" or "already connected" rejection the mirror is corrected
// to the platform's state and ErrAlreadyActive is returned; the rejection
// is final and never retried. Any other failure leaves the mirror unchanged.
func (m *Manager) SubmitRequest(ctx context.Context, targetID, message string) (*datatypes.ConnectionRecord, error) {
	req := datatypes.ConnectionRequest{RecipientID: targetID, Message: message}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("submit connection request: %w", err)
	}
	if err := validation.ValidateUserID(targetID); err != nil {
		return nil, fmt.Errorf("submit connection request: %w", err)
	}

	current, err := m.Status(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if current != datatypes.ConnectionNone {
		return nil, fmt.Errorf("target %s is %s: %w", targetID, current, ErrAlreadyActive)
	}

	record, err := m.client.SendConnectionRequest(ctx, targetID, message)
	if err != nil {
		var rejection *upstream.SubmissionError
		if errors.As(err, &rejection) {
			if corrected, ok := statusFromRejection(rejection.Reason); ok {
				m.setLocal(targetID, corrected)
				return nil, fmt.Errorf("%s: %w", rejection.Reason, ErrAlreadyActive)
			}
		}
		return nil, err
	}

	m.setLocal(targetID, datatypes.ConnectionPending)
	return record, nil
}

// Count returns the caller's accepted-connection count from the platform.
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.client.ConnectionCount(ctx)
}

// statusFromRejection maps a platform rejection reason onto the state it
// implies for the pair.
func statusFromRejection(reason string) (datatypes.ConnectionStatus, bool) {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "pending"):
		return datatypes.ConnectionPending, true
	case strings.Contains(lower, "connected"), strings.Contains(lower, "accepted"):
		return datatypes.ConnectionConnected, true
	default:
		return datatypes.ConnectionNone, false
	}
}

func (m *Manager) localStatus(targetID string) datatypes.ConnectionStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if status, ok := m.local[targetID]; ok {
		return status
	}
	return datatypes.ConnectionNone
}

func (m *Manager) setLocal(targetID string, status datatypes.ConnectionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.local[targetID] = status
}

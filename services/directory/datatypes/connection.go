// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"fmt"
	"strings"
	"time"
)

// ConnectionStatus is the pairwise relationship state between the caller
// and a target user, as reported by the connection status source.
//
// The platform reports lowercase values; accepted requests surface as
// "connected" rather than the stored ACCEPTED state.
type ConnectionStatus string

const (
	// ConnectionNone means no active request exists for the pair.
	ConnectionNone ConnectionStatus = "none"

	// ConnectionPending means a request was submitted and awaits response.
	ConnectionPending ConnectionStatus = "pending"

	// ConnectionConnected means the pair has an accepted connection.
	ConnectionConnected ConnectionStatus = "connected"
)

// ParseConnectionStatus normalizes a status string from the platform API.
// Unknown or empty values map to ConnectionNone: a failed or garbled status
// lookup must never block rendering, it degrades to "no connection".
func ParseConnectionStatus(s string) ConnectionStatus {
	switch ConnectionStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ConnectionPending:
		return ConnectionPending
	case ConnectionConnected:
		return ConnectionConnected
	case ConnectionStatus("accepted"):
		// Some platform builds return the stored state name.
		return ConnectionConnected
	default:
		return ConnectionNone
	}
}

// ConnectionRecord is a mentorship connection request between two users.
//
// The pair is unordered for lookups (either side sees the same status) but
// ordered for audit: SenderID initiated the request. Status is one of
// PENDING, ACCEPTED, REJECTED as stored by the platform; at most one active
// record exists per pair, enforced by the platform, not by this service.
type ConnectionRecord struct {
	ID            string     `json:"id"`
	SenderID      string     `json:"senderId"`
	RecipientID   string     `json:"recipientId"`
	Message       string     `json:"message"`
	Status        string     `json:"status"`
	RequestedAt   time.Time  `json:"requestedAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	SenderName    string     `json:"senderName,omitempty"`
	RecipientName string     `json:"recipientName,omitempty"`
}

// ConnectionRequest is the submission payload accepted by the service.
type ConnectionRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Message     string `json:"message" binding:"required,notblank,max=1000"`
}

// Validate applies checks that gin binding tags cannot express.
func (r *ConnectionRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("message cannot be blank")
	}
	return nil
}

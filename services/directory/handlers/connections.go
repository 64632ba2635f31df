// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stjoseph-coe/alumninet/services/directory/connections"
	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
	"github.com/stjoseph-coe/alumninet/services/directory/observability"
	"github.com/stjoseph-coe/alumninet/services/directory/upstream"
)

// GetConnectionStatus reports the caller's connection status with the
// target user. A failed upstream lookup degrades to "none" inside the
// manager, so this handler only fails on an invalid target id.
func GetConnectionStatus(mgr *connections.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("userId")

		status, err := mgr.Status(c.Request.Context(), targetID)
		if err != nil {
			recordConnectionOp("status", "error")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		recordConnectionOp("status", "ok")
		c.JSON(http.StatusOK, gin.H{
			"userId": targetID,
			"status": status,
		})
	}
}

// SubmitConnectionRequest submits a mentorship connection request for the
// caller. Duplicate or already-connected pairs map to 409; an unreachable
// platform maps to 503.
func SubmitConnectionRequest(mgr *connections.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ConnectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		record, err := mgr.SubmitRequest(c.Request.Context(), req.RecipientID, req.Message)
		if err != nil {
			switch {
			case errors.Is(err, connections.ErrAlreadyActive):
				recordConnectionOp("submit", "rejected")
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			case errors.Is(err, upstream.ErrValidationRejected):
				recordConnectionOp("submit", "rejected")
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, upstream.ErrSourceUnavailable):
				recordConnectionOp("submit", "degraded")
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "connection service unavailable"})
			default:
				recordConnectionOp("submit", "error")
				slog.Error("connection request failed", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "connection request failed"})
			}
			return
		}

		recordConnectionOp("submit", "ok")
		c.JSON(http.StatusCreated, record)
	}
}

// GetConnectionCount passes the caller's accepted-connection count through
// from the platform.
func GetConnectionCount(mgr *connections.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := mgr.Count(c.Request.Context())
		if err != nil {
			recordConnectionOp("count", "degraded")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "connection service unavailable"})
			return
		}

		recordConnectionOp("count", "ok")
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

func recordConnectionOp(op, outcome string) {
	if observability.DefaultMetrics != nil {
		observability.DefaultMetrics.RecordConnectionOp(op, outcome)
	}
}

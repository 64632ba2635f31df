// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stjoseph-coe/alumninet/pkg/validation"
	"github.com/stjoseph-coe/alumninet/services/directory/middleware"
	"github.com/stjoseph-coe/alumninet/services/directory/search"
	"github.com/stjoseph-coe/alumninet/services/directory/services"
)

// GetDirectory loads the directory for the caller and applies the optional
// search/department/graduation_year filters from the query string.
func GetDirectory(loader *services.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := search.Query{
			Search:         c.Query("search"),
			Department:     c.Query("department"),
			GraduationYear: c.Query("graduation_year"),
		}
		if err := validation.ValidateGraduationYear(query.GraduationYear); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "graduation_year must be a 4-digit year"})
			return
		}

		snap, err := loader.Load(c.Request.Context(), middleware.GetAuthInfo(c))
		if err != nil {
			slog.Error("directory load failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "directory load failed"})
			return
		}

		filtered := search.Apply(snap, query)
		c.JSON(http.StatusOK, gin.H{
			"profiles":   filtered,
			"total":      len(snap.Profiles),
			"filtered":   len(filtered),
			"degraded":   snap.Degraded,
			"generation": snap.Generation,
			"loadedAt":   snap.LoadedAt,
		})
	}
}

// GetDirectoryFacets returns the distinct departments and graduation years
// of the current snapshot, loading one first when none exists yet.
func GetDirectoryFacets(loader *services.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := loader.Current()
		if snap == nil {
			loaded, err := loader.Load(c.Request.Context(), middleware.GetAuthInfo(c))
			if err != nil {
				slog.Error("directory load failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "directory load failed"})
				return
			}
			snap = loaded
		}

		c.JSON(http.StatusOK, gin.H{
			"departments":     search.Departments(snap),
			"graduationYears": search.GraduationYears(snap),
		})
	}
}

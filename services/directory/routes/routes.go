// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stjoseph-coe/alumninet/pkg/extensions"
	"github.com/stjoseph-coe/alumninet/services/directory/connections"
	"github.com/stjoseph-coe/alumninet/services/directory/handlers"
	"github.com/stjoseph-coe/alumninet/services/directory/middleware"
	"github.com/stjoseph-coe/alumninet/services/directory/services"
)

// SetupRoutes registers every route of the directory service.
func SetupRoutes(router *gin.Engine, loader *services.Loader, mgr *connections.Manager,
	provider extensions.AuthProvider) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(provider))
	{
		directory := v1.Group("/directory")
		{
			directory.GET("", handlers.GetDirectory(loader))
			directory.GET("/facets", handlers.GetDirectoryFacets(loader))
		}
		conns := v1.Group("/connections")
		{
			conns.GET("/status/:userId", handlers.GetConnectionStatus(mgr))
			conns.POST("/requests", handlers.SubmitConnectionRequest(mgr))
			conns.GET("/count", handlers.GetConnectionCount(mgr))
		}
	}
}

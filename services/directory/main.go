// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/credentials/insecure"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"

	"github.com/stjoseph-coe/alumninet/pkg/extensions"
	"github.com/stjoseph-coe/alumninet/pkg/logging"
	"github.com/stjoseph-coe/alumninet/services/directory/config"
	"github.com/stjoseph-coe/alumninet/services/directory/connections"
	"github.com/stjoseph-coe/alumninet/services/directory/enricher"
	"github.com/stjoseph-coe/alumninet/services/directory/observability"
	"github.com/stjoseph-coe/alumninet/services/directory/resolver"
	"github.com/stjoseph-coe/alumninet/services/directory/routes"
	"github.com/stjoseph-coe/alumninet/services/directory/services"
	"github.com/stjoseph-coe/alumninet/services/directory/upstream"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "alumninet-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("directory-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: could not load configuration: %v", err)
	}

	appLog := logging.New(logging.Config{
		Level:   logging.LevelInfo,
		LogDir:  cfg.LogDir,
		Service: "directory",
		JSON:    true,
	})
	defer appLog.Close()
	logger := appLog.Slog()
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	observability.InitMetrics()

	platform := upstream.NewClient(upstream.Config{
		BaseURL:           cfg.PlatformURL,
		Tokens:            &extensions.StaticTokenSource{Value: cfg.PlatformToken},
		RequestsPerSecond: cfg.Tuning.UpstreamRequestsPerSecond,
		Burst:             cfg.Tuning.UpstreamBurst,
	})

	res := resolver.New(platform, logger)
	enr := enricher.New(platform, enricher.Config{
		Workers:        cfg.Tuning.EnrichWorkers,
		PerCallTimeout: cfg.Tuning.EnrichTimeout(),
	}, logger)
	loader := services.NewLoader(res, enr, observability.DefaultMetrics, logger)
	mgr := connections.NewManager(platform, logger)

	provider := &extensions.StaticAuthProvider{
		Info: extensions.AuthInfo{
			UserID: cfg.LocalUserID,
			Email:  cfg.LocalUserEmail,
			Role:   cfg.LocalUserRole,
		},
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("directory-service"))

	routes.SetupRoutes(router, loader, mgr, provider)

	log.Println("Starting the directory server on port ", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

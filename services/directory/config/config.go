// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the directory service configuration.
//
// Configuration comes from two layers: an optional YAML tuning file for the
// pipeline knobs, then environment variables, which win when set. Everything
// has a default so the service starts with no configuration at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvPort           = "DIRECTORY_PORT"
	EnvPlatformURL    = "PLATFORM_API_URL"
	EnvPlatformToken  = "PLATFORM_API_TOKEN"
	EnvTuningFile     = "DIRECTORY_TUNING_FILE"
	EnvLogDir         = "DIRECTORY_LOG_DIR"
	EnvWorkers        = "DIRECTORY_ENRICH_WORKERS"
	EnvLocalUserID    = "DIRECTORY_LOCAL_USER_ID"
	EnvLocalUserEmail = "DIRECTORY_LOCAL_USER_EMAIL"
	EnvLocalUserRole  = "DIRECTORY_LOCAL_USER_ROLE"
)

// Tuning holds the pipeline knobs read from the optional YAML file.
type Tuning struct {
	// EnrichWorkers caps concurrent profile fetches per load.
	EnrichWorkers int `yaml:"enrich_workers"`

	// EnrichTimeoutSeconds bounds each individual profile fetch.
	EnrichTimeoutSeconds int `yaml:"enrich_timeout_seconds"`

	// UpstreamRequestsPerSecond caps the outbound platform call rate.
	UpstreamRequestsPerSecond float64 `yaml:"upstream_requests_per_second"`

	// UpstreamBurst is the rate limiter burst size.
	UpstreamBurst int `yaml:"upstream_burst"`
}

// Config is the fully resolved service configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// PlatformURL is the campus platform API root.
	PlatformURL string

	// PlatformToken is the bearer credential for upstream calls. May be
	// empty for unauthenticated local setups.
	PlatformToken string

	// LogDir enables daily file logging when non-empty.
	LogDir string

	// LocalUserID, LocalUserEmail and LocalUserRole describe the static
	// identity the service authenticates requests as when no real identity
	// provider is wired in.
	LocalUserID    string
	LocalUserEmail string
	LocalUserRole  string

	Tuning Tuning
}

// Load resolves the configuration from the tuning file (when present) and
// the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           envOr(EnvPort, "12310"),
		PlatformURL:    envOr(EnvPlatformURL, "http://localhost:8080"),
		PlatformToken:  os.Getenv(EnvPlatformToken),
		LogDir:         os.Getenv(EnvLogDir),
		LocalUserID:    envOr(EnvLocalUserID, "local-user"),
		LocalUserEmail: os.Getenv(EnvLocalUserEmail),
		LocalUserRole:  envOr(EnvLocalUserRole, "ALUMNI"),
	}

	if path := os.Getenv(EnvTuningFile); path != "" {
		tuning, err := loadTuning(path)
		if err != nil {
			return nil, err
		}
		cfg.Tuning = *tuning
	}

	if raw := os.Getenv(EnvWorkers); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil || workers <= 0 {
			return nil, fmt.Errorf("invalid %s value %q", EnvWorkers, raw)
		}
		cfg.Tuning.EnrichWorkers = workers
	}

	return cfg, nil
}

// EnrichTimeout returns the per-fetch timeout, or zero when unset so the
// enricher applies its own default.
func (t Tuning) EnrichTimeout() time.Duration {
	return time.Duration(t.EnrichTimeoutSeconds) * time.Second
}

func loadTuning(path string) (*Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning file %s: %w", path, err)
	}
	var tuning Tuning
	if err := yaml.Unmarshal(raw, &tuning); err != nil {
		return nil, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return &tuning, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

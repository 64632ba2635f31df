// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stjoseph-coe/alumninet/pkg/extensions"
	"github.com/stjoseph-coe/alumninet/pkg/logging"
	"github.com/stjoseph-coe/alumninet/services/directory/config"
	"github.com/stjoseph-coe/alumninet/services/directory/connections"
	"github.com/stjoseph-coe/alumninet/services/directory/enricher"
	"github.com/stjoseph-coe/alumninet/services/directory/resolver"
	"github.com/stjoseph-coe/alumninet/services/directory/search"
	"github.com/stjoseph-coe/alumninet/services/directory/services"
	"github.com/stjoseph-coe/alumninet/services/directory/upstream"
)

var (
	rootCmd = &cobra.Command{
		Use:   "alumnidir",
		Short: "A CLI for the St. Joseph alumni directory",
		Long: `alumnidir drives the alumni directory aggregation engine from the
terminal: load and filter the directory, inspect facets, and manage
mentorship connection requests against the campus platform API.`,
	}

	searchTerm     string
	department     string
	graduationYear string

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Load the directory and print matching alumni",
		Long:  `Runs a full aggregation pass (listing + enrichment) and prints the profiles matching the given filters.`,
		RunE:  runListCommand,
	}

	facetsCmd = &cobra.Command{
		Use:   "facets",
		Short: "Print the distinct departments and graduation years",
		RunE:  runFacetsCommand,
	}

	connectionCmd = &cobra.Command{
		Use:   "connection",
		Short: "Manage mentorship connection requests",
	}
	statusCmd = &cobra.Command{
		Use:   "status [user-id]",
		Short: "Show the connection status with a target user",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatusCommand,
	}
	requestMessage string
	requestCmd     = &cobra.Command{
		Use:   "request [user-id]",
		Short: "Send a mentorship connection request",
		Args:  cobra.ExactArgs(1),
		RunE:  runRequestCommand,
	}
	countCmd = &cobra.Command{
		Use:   "count",
		Short: "Show the caller's accepted-connection count",
		RunE:  runCountCommand,
	}
)

func init() {
	listCmd.Flags().StringVar(&searchTerm, "search", "", "free-text filter across name, email, department and company")
	listCmd.Flags().StringVar(&department, "department", "", "exact department filter")
	listCmd.Flags().StringVar(&graduationYear, "year", "", "exact graduation year filter")
	requestCmd.Flags().StringVarP(&requestMessage, "message", "m", "", "message sent with the request (required)")
	_ = requestCmd.MarkFlagRequired("message")

	connectionCmd.AddCommand(statusCmd, requestCmd, countCmd)
	rootCmd.AddCommand(listCmd, facetsCmd, connectionCmd)
}

// buildEngine wires the aggregation engine against the configured platform.
func buildEngine() (*services.Loader, *connections.Manager, *extensions.AuthInfo, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log := logging.New(logging.Config{
		Level:   logging.LevelWarn,
		Service: "alumnidir",
	}).Slog()

	platform := upstream.NewClient(upstream.Config{
		BaseURL:           cfg.PlatformURL,
		Tokens:            &extensions.StaticTokenSource{Value: cfg.PlatformToken},
		RequestsPerSecond: cfg.Tuning.UpstreamRequestsPerSecond,
		Burst:             cfg.Tuning.UpstreamBurst,
	})
	loader := services.NewLoader(
		resolver.New(platform, log),
		enricher.New(platform, enricher.Config{
			Workers:        cfg.Tuning.EnrichWorkers,
			PerCallTimeout: cfg.Tuning.EnrichTimeout(),
		}, log),
		nil, log)
	mgr := connections.NewManager(platform, log)
	caller := &extensions.AuthInfo{
		UserID: cfg.LocalUserID,
		Email:  cfg.LocalUserEmail,
		Role:   cfg.LocalUserRole,
	}
	return loader, mgr, caller, nil
}

func runListCommand(cmd *cobra.Command, args []string) error {
	loader, _, caller, err := buildEngine()
	if err != nil {
		return err
	}

	snap, err := loader.Load(context.Background(), caller)
	if err != nil {
		return fmt.Errorf("load directory: %w", err)
	}
	if snap.Degraded {
		fmt.Fprintln(os.Stderr, "warning: directory sources unavailable, results may be empty")
	}

	profiles := search.Apply(snap, search.Query{
		Search:         searchTerm,
		Department:     department,
		GraduationYear: graduationYear,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDEPT\tYEAR\tCOMPANY\tENRICHED")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			p.ID, p.Name, p.Department, p.GraduationYear, p.CurrentCompany, p.Enriched)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d of %d profiles\n", len(profiles), len(snap.Profiles))
	return nil
}

func runFacetsCommand(cmd *cobra.Command, args []string) error {
	loader, _, caller, err := buildEngine()
	if err != nil {
		return err
	}

	snap, err := loader.Load(context.Background(), caller)
	if err != nil {
		return fmt.Errorf("load directory: %w", err)
	}

	fmt.Println("Departments:")
	for _, d := range search.Departments(snap) {
		fmt.Printf("  %s\n", d)
	}
	fmt.Println("Graduation years:")
	for _, y := range search.GraduationYears(snap) {
		fmt.Printf("  %s\n", y)
	}
	return nil
}

func runStatusCommand(cmd *cobra.Command, args []string) error {
	_, mgr, _, err := buildEngine()
	if err != nil {
		return err
	}

	status, err := mgr.Status(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("connection with %s: %s\n", args[0], status)
	return nil
}

func runRequestCommand(cmd *cobra.Command, args []string) error {
	_, mgr, _, err := buildEngine()
	if err != nil {
		return err
	}

	record, err := mgr.SubmitRequest(context.Background(), args[0], requestMessage)
	if err != nil {
		if errors.Is(err, connections.ErrAlreadyActive) {
			return fmt.Errorf("a request or connection already exists with %s", args[0])
		}
		return err
	}
	fmt.Printf("request %s sent to %s (status %s)\n", record.ID, args[0], record.Status)
	return nil
}

func runCountCommand(cmd *cobra.Command, args []string) error {
	_, mgr, _, err := buildEngine()
	if err != nil {
		return err
	}

	count, err := mgr.Count(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("accepted connections: %d\n", count)
	return nil
}

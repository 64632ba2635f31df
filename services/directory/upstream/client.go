// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package upstream implements the HTTP client for the campus platform API.
//
// The platform API owns all persistence and enforces all authoritative
// invariants (verified-alumni visibility, one active connection per pair).
// This client's job is faithful transport plus error classification into the
// taxonomy the aggregation engine branches on:
//
//   - ErrSourceUnavailable: network error or 5xx (callers fall back / degrade)
//   - ErrNotFound: 404-class "no data" (a valid empty result)
//   - ErrValidationRejected: mutation rejected by the platform (final)
//   - anything else: surfaced as-is, never retried
//
// Every call carries a bearer credential from the configured TokenSource.
// Auth failures are not special-cased here; an expired token surfaces as a
// generic failed call, because credential refresh is owned by the session
// collaborator.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/stjoseph-coe/alumninet/pkg/extensions"
	"github.com/stjoseph-coe/alumninet/pkg/validation"
	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
)

// Platform API paths. Listing source A excludes the caller server-side;
// source C (legacy) does not, so resolver code must self-exclude after it.
const (
	pathListForAlumni = "/api/alumni-directory/for-alumni"
	pathListGeneral   = "/api/alumni-directory"
	pathListLegacy    = "/api/users/alumni"
	pathCompleteProf  = "/api/alumni-profiles/complete-profile/"
	pathConnStatus    = "/api/connections/status/"
	pathConnSend      = "/api/connections/send-request"
	pathConnCount     = "/api/connections/count"
)

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a platform API Client.
type Config struct {
	// BaseURL is the platform API root, e.g. "http://localhost:8080".
	BaseURL string

	// HTTPClient performs the requests. Default: http.Client with a 30s
	// overall timeout. Per-call deadlines come from the caller's context.
	HTTPClient HTTPClient

	// Tokens supplies the outbound bearer credential.
	// Default: empty StaticTokenSource (unauthenticated calls).
	Tokens extensions.TokenSource

	// RequestsPerSecond caps the outbound call rate across all endpoints.
	// Zero means the default of 20 rps with a burst of 40.
	RequestsPerSecond float64
	Burst             int
}

// Client is the platform API client. Safe for concurrent use.
type Client struct {
	baseURL string
	http    HTTPClient
	tokens  extensions.TokenSource
	limiter *rate.Limiter
}

// NewClient builds a Client from config, applying defaults for any unset
// field.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = &extensions.StaticTokenSource{}
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 20
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 40
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// ListAlumniForAlumni calls listing source A: the directory endpoint that
// excludes the caller's own record server-side. For alumni callers only.
func (c *Client) ListAlumniForAlumni(ctx context.Context) ([]datatypes.BasicAlumniRecord, error) {
	var records []datatypes.BasicAlumniRecord
	if err := c.getJSON(ctx, pathListForAlumni, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListAlumni calls listing source B: the general verified-alumni directory.
func (c *Client) ListAlumni(ctx context.Context) ([]datatypes.BasicAlumniRecord, error) {
	var records []datatypes.BasicAlumniRecord
	if err := c.getJSON(ctx, pathListGeneral, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListAlumniLegacy calls listing source C: the legacy users endpoint kept as
// a fallback. It performs no caller exclusion; the resolver compensates.
func (c *Client) ListAlumniLegacy(ctx context.Context) ([]datatypes.BasicAlumniRecord, error) {
	var records []datatypes.BasicAlumniRecord
	if err := c.getJSON(ctx, pathListLegacy, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CompleteProfile fetches the enrichment record for one alumni id.
// Returns ErrNotFound (wrapped) when no complete profile exists.
func (c *Client) CompleteProfile(ctx context.Context, id string) (*datatypes.CompleteProfileRecord, error) {
	if err := validation.ValidateUserID(id); err != nil {
		return nil, fmt.Errorf("complete profile: %w", err)
	}
	var profile datatypes.CompleteProfileRecord
	if err := c.getJSON(ctx, pathCompleteProf+id, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ConnectionStatus returns the caller's connection status with targetID.
func (c *Client) ConnectionStatus(ctx context.Context, targetID string) (datatypes.ConnectionStatus, error) {
	if err := validation.ValidateUserID(targetID); err != nil {
		return datatypes.ConnectionNone, fmt.Errorf("connection status: %w", err)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, pathConnStatus+targetID, &body); err != nil {
		return datatypes.ConnectionNone, err
	}
	return datatypes.ParseConnectionStatus(body.Status), nil
}

// SendConnectionRequest submits a mentorship connection request.
//
// A 4xx rejection from the platform (duplicate request, already connected)
// is returned as a *SubmissionError wrapping ErrValidationRejected; the
// platform's answer is authoritative and must not be retried.
func (c *Client) SendConnectionRequest(ctx context.Context, recipientID, message string) (*datatypes.ConnectionRecord, error) {
	if err := validation.ValidateUserID(recipientID); err != nil {
		return nil, fmt.Errorf("send connection request: %w", err)
	}

	payload := map[string]string{
		"recipientId": recipientID,
		"message":     message,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal connection request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, pathConnSend, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var record datatypes.ConnectionRecord
		if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
			return nil, fmt.Errorf("decode connection record: %w", err)
		}
		return &record, nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict:
		return nil, &SubmissionError{Reason: readErrorReason(resp.Body)}
	default:
		return nil, classifyStatus(pathConnSend, resp)
	}
}

// ConnectionCount returns the caller's accepted-connection count.
func (c *Client) ConnectionCount(ctx context.Context) (int, error) {
	var body struct {
		Count int `json:"count"`
	}
	if err := c.getJSON(ctx, pathConnCount, &body); err != nil {
		return 0, err
	}
	return body.Count, nil
}

// getJSON performs a GET and decodes a 2xx JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(path, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// do builds and executes one request with rate limiting and the bearer
// credential attached. Transport-level failures (DNS, refused connection,
// timeout) classify as ErrSourceUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain bearer token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %v: %w", path, err, ErrSourceUnavailable)
	}
	return resp, nil
}

// classifyStatus drains the body and maps a non-2xx status onto the error
// taxonomy.
func classifyStatus(path string, resp *http.Response) error {
	snippet := readBodySnippet(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s returned %d: %w", path, resp.StatusCode, ErrSourceUnavailable)
	default:
		return &StatusError{Endpoint: path, Code: resp.StatusCode, Body: snippet}
	}
}

// readErrorReason extracts the platform's error message from a rejection
// body, which arrives as {"error": "..."} or {"message": "..."}.
func readErrorReason(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "request rejected"
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

func readBodySnippet(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(raw))
}

// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stjoseph-coe/alumninet/pkg/extensions"
	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
	"github.com/stjoseph-coe/alumninet/services/directory/enricher"
	"github.com/stjoseph-coe/alumninet/services/directory/resolver"
	"github.com/stjoseph-coe/alumninet/services/directory/search"
	"github.com/stjoseph-coe/alumninet/services/directory/upstream"
)

type stubListing struct {
	mu      sync.Mutex
	records []datatypes.BasicAlumniRecord
	err     error
	delay   time.Duration
}

func (s *stubListing) list(ctx context.Context) ([]datatypes.BasicAlumniRecord, error) {
	s.mu.Lock()
	delay := s.delay
	records, err := s.records, s.err
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return records, err
}

func (s *stubListing) ListAlumniForAlumni(ctx context.Context) ([]datatypes.BasicAlumniRecord, error) {
	return s.list(ctx)
}
func (s *stubListing) ListAlumni(ctx context.Context) ([]datatypes.BasicAlumniRecord, error) {
	return s.list(ctx)
}
func (s *stubListing) ListAlumniLegacy(ctx context.Context) ([]datatypes.BasicAlumniRecord, error) {
	return s.list(ctx)
}

type stubProfiles struct{}

func (stubProfiles) CompleteProfile(ctx context.Context, id string) (*datatypes.CompleteProfileRecord, error) {
	return nil, fmt.Errorf("profile %s: %w", id, upstream.ErrNotFound)
}

func newTestLoader(listing *stubListing) *Loader {
	res := resolver.New(listing, nil)
	enr := enricher.New(stubProfiles{}, enricher.Config{}, nil)
	return NewLoader(res, enr, nil, nil)
}

func caller() *extensions.AuthInfo {
	return &extensions.AuthInfo{UserID: "s1", Role: extensions.RoleStudent}
}

func TestLoadPublishesSnapshot(t *testing.T) {
	listing := &stubListing{records: []datatypes.BasicAlumniRecord{
		{ID: "u1", Name: "Priya"},
		{ID: "u2", Name: "Arun"},
	}}
	loader := newTestLoader(listing)

	snap, err := loader.Load(context.Background(), caller())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Generation != 1 {
		t.Errorf("generation = %d, want 1", snap.Generation)
	}
	if len(snap.Profiles) != 2 {
		t.Errorf("profiles = %d, want 2", len(snap.Profiles))
	}
	if loader.Current() != snap {
		t.Error("Current() does not return the published snapshot")
	}
}

func TestLoadDegradedSnapshot(t *testing.T) {
	listing := &stubListing{err: fmt.Errorf("listing: %w", upstream.ErrSourceUnavailable)}
	loader := newTestLoader(listing)

	snap, err := loader.Load(context.Background(), caller())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !snap.Degraded {
		t.Error("snapshot not degraded after total source failure")
	}
	if len(snap.Profiles) != 0 {
		t.Errorf("profiles = %d, want 0", len(snap.Profiles))
	}
}

func TestLastLoadWins(t *testing.T) {
	loader := newTestLoader(&stubListing{})

	older := &search.Snapshot{Generation: 3, LoadedAt: time.Now()}
	newer := &search.Snapshot{Generation: 5, LoadedAt: time.Now()}

	if !loader.publish(newer) {
		t.Fatal("newer snapshot failed to publish")
	}
	if loader.publish(older) {
		t.Error("stale snapshot replaced a newer generation")
	}
	if loader.Current() != newer {
		t.Error("current snapshot is not the newest generation")
	}
}

func TestConcurrentCallersDoNotCancelEachOther(t *testing.T) {
	listing := &stubListing{
		delay:   200 * time.Millisecond,
		records: []datatypes.BasicAlumniRecord{{ID: "u1", Name: "Priya"}},
	}
	loader := newTestLoader(listing)

	errCh := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(), &extensions.AuthInfo{UserID: "s1", Role: extensions.RoleStudent})
		errCh <- err
	}()
	time.Sleep(50 * time.Millisecond)

	// A second caller starting a load while the first is still in flight
	// must not abort it.
	snap, err := loader.Load(context.Background(), &extensions.AuthInfo{UserID: "s2", Role: extensions.RoleStudent})
	if err != nil {
		t.Fatalf("second caller's Load: %v", err)
	}
	if len(snap.Profiles) != 1 {
		t.Errorf("second caller got %d profiles, want 1", len(snap.Profiles))
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("first caller's Load: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("first caller's load did not finish")
	}
	if got := loader.Current(); got == nil || got.Generation != 2 {
		t.Errorf("current snapshot = %v, want generation 2", got)
	}
}

func TestCallerCancellationAbandonsLoad(t *testing.T) {
	listing := &stubListing{
		delay:   2 * time.Second,
		records: []datatypes.BasicAlumniRecord{{ID: "u1"}},
	}
	loader := newTestLoader(listing)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if _, err := loader.Load(ctx, caller()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if loader.Current() != nil {
		t.Error("abandoned load published a snapshot")
	}
}

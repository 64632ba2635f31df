// Copyright (C) 2025 St. Joseph College of Engineering (platform@stjoseph.edu.in)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package connections

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stjoseph-coe/alumninet/services/directory/datatypes"
	"github.com/stjoseph-coe/alumninet/services/directory/upstream"
)

// mockConnections satisfies ConnectionClient.
type mockConnections struct {
	mu          sync.Mutex
	status      map[string]datatypes.ConnectionStatus
	statusErr   error
	statusCalls int32
	statusDelay time.Duration

	sendRecord *datatypes.ConnectionRecord
	sendErr    error
	sendCalls  int

	count    int
	countErr error
}

func (m *mockConnections) ConnectionStatus(ctx context.Context, targetID string) (datatypes.ConnectionStatus, error) {
	atomic.AddInt32(&m.statusCalls, 1)
	if m.statusDelay > 0 {
		time.Sleep(m.statusDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		return datatypes.ConnectionNone, m.statusErr
	}
	if s, ok := m.status[targetID]; ok {
		return s, nil
	}
	return datatypes.ConnectionNone, nil
}

func (m *mockConnections) SendConnectionRequest(ctx context.Context, recipientID, message string) (*datatypes.ConnectionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendCalls++
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	if m.sendRecord != nil {
		return m.sendRecord, nil
	}
	return &datatypes.ConnectionRecord{ID: "c1", RecipientID: recipientID, Message: message, Status: "PENDING"}, nil
}

func (m *mockConnections) ConnectionCount(ctx context.Context) (int, error) {
	return m.count, m.countErr
}

func TestStatus(t *testing.T) {
	t.Run("remote answer is authoritative and cached locally", func(t *testing.T) {
		client := &mockConnections{status: map[string]datatypes.ConnectionStatus{"u2": datatypes.ConnectionConnected}}
		mgr := NewManager(client, nil)

		status, err := mgr.Status(context.Background(), "u2")
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		if status != datatypes.ConnectionConnected {
			t.Errorf("status = %q, want connected", status)
		}
		if got := mgr.localStatus("u2"); got != datatypes.ConnectionConnected {
			t.Errorf("local mirror = %q, want connected", got)
		}
	})

	t.Run("lookup failure degrades to none for an unknown target", func(t *testing.T) {
		client := &mockConnections{statusErr: fmt.Errorf("status: %w", upstream.ErrSourceUnavailable)}
		mgr := NewManager(client, nil)

		status, err := mgr.Status(context.Background(), "u2")
		if err != nil {
			t.Fatalf("Status must not surface lookup failure: %v", err)
		}
		if status != datatypes.ConnectionNone {
			t.Errorf("status = %q, want degraded none", status)
		}
	})

	t.Run("lookup failure keeps the optimistic local state", func(t *testing.T) {
		client := &mockConnections{}
		mgr := NewManager(client, nil)
		if _, err := mgr.SubmitRequest(context.Background(), "u2", "hello"); err != nil {
			t.Fatalf("SubmitRequest: %v", err)
		}

		client.mu.Lock()
		client.statusErr = fmt.Errorf("status: %w", upstream.ErrSourceUnavailable)
		client.mu.Unlock()

		status, err := mgr.Status(context.Background(), "u2")
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		if status != datatypes.ConnectionPending {
			t.Errorf("status = %q, want pending kept from the local mirror", status)
		}
	})

	t.Run("degraded answer is not cached as a false negative", func(t *testing.T) {
		client := &mockConnections{statusErr: fmt.Errorf("status: %w", upstream.ErrSourceUnavailable)}
		mgr := NewManager(client, nil)

		if _, err := mgr.Status(context.Background(), "u2"); err != nil {
			t.Fatalf("Status: %v", err)
		}

		client.mu.Lock()
		client.statusErr = nil
		client.status = map[string]datatypes.ConnectionStatus{"u2": datatypes.ConnectionPending}
		client.mu.Unlock()

		status, err := mgr.Status(context.Background(), "u2")
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		if status != datatypes.ConnectionPending {
			t.Errorf("status = %q, want pending once the source recovers", status)
		}
	})

	t.Run("invalid target id is rejected", func(t *testing.T) {
		mgr := NewManager(&mockConnections{}, nil)
		if _, err := mgr.Status(context.Background(), "../etc"); err == nil {
			t.Error("Status accepted an unsafe target id")
		}
	})
}

func TestStatusSingleflight(t *testing.T) {
	client := &mockConnections{statusDelay: 50 * time.Millisecond}
	mgr := NewManager(client, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = mgr.Status(context.Background(), "u2")
		}()
	}
	wg.Wait()

	if calls := atomic.LoadInt32(&client.statusCalls); calls >= 10 {
		t.Errorf("upstream called %d times for 10 concurrent lookups, want collapsed", calls)
	}
}

func TestSubmitRequest(t *testing.T) {
	t.Run("success transitions the mirror to pending", func(t *testing.T) {
		client := &mockConnections{}
		mgr := NewManager(client, nil)

		record, err := mgr.SubmitRequest(context.Background(), "u2", "hello from a fellow alum")
		if err != nil {
			t.Fatalf("SubmitRequest: %v", err)
		}
		if record.ID != "c1" {
			t.Errorf("record = %+v, want platform record", record)
		}
		if got := mgr.localStatus("u2"); got != datatypes.ConnectionPending {
			t.Errorf("local mirror = %q, want pending", got)
		}
	})

	t.Run("known pending pair fails fast without an upstream send", func(t *testing.T) {
		client := &mockConnections{status: map[string]datatypes.ConnectionStatus{"u2": datatypes.ConnectionPending}}
		mgr := NewManager(client, nil)

		_, err := mgr.SubmitRequest(context.Background(), "u2", "hello")
		if !errors.Is(err, ErrAlreadyActive) {
			t.Fatalf("err = %v, want ErrAlreadyActive", err)
		}
		if client.sendCalls != 0 {
			t.Errorf("send called %d times, want 0", client.sendCalls)
		}
	})

	t.Run("remote already-pending rejection corrects the mirror", func(t *testing.T) {
		client := &mockConnections{sendErr: &upstream.SubmissionError{Reason: "Connection request already pending"}}
		mgr := NewManager(client, nil)

		_, err := mgr.SubmitRequest(context.Background(), "u2", "hello")
		if !errors.Is(err, ErrAlreadyActive) {
			t.Fatalf("err = %v, want ErrAlreadyActive", err)
		}
		if got := mgr.localStatus("u2"); got != datatypes.ConnectionPending {
			t.Errorf("local mirror = %q, want corrected to pending", got)
		}
	})

	t.Run("transport failure leaves the mirror unchanged", func(t *testing.T) {
		client := &mockConnections{sendErr: fmt.Errorf("send: %w", upstream.ErrSourceUnavailable)}
		mgr := NewManager(client, nil)

		_, err := mgr.SubmitRequest(context.Background(), "u2", "hello")
		if !errors.Is(err, upstream.ErrSourceUnavailable) {
			t.Fatalf("err = %v, want source unavailable", err)
		}
		if got := mgr.localStatus("u2"); got != datatypes.ConnectionNone {
			t.Errorf("local mirror = %q, want none after failed send", got)
		}
	})

	t.Run("blank message is rejected before any call", func(t *testing.T) {
		client := &mockConnections{}
		mgr := NewManager(client, nil)

		if _, err := mgr.SubmitRequest(context.Background(), "u2", "   "); err == nil {
			t.Fatal("blank message accepted")
		}
		if client.sendCalls != 0 || atomic.LoadInt32(&client.statusCalls) != 0 {
			t.Error("upstream contacted for an invalid request")
		}
	})
}

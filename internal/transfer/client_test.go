// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transfer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"omegasync/cli/internal/errors"
	"omegasync/cli/internal/record"
	"omegasync/cli/internal/tablespec"
)

func testSpec() tablespec.TableSpec {
	return tablespec.TableSpec{
		Name:       "products",
		RemoteName: "products",
		ClearPath:  "/api/clear/products",
		ChunkPath:  "/api/sync/products/chunk",
	}
}

func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		Delay:         2 * time.Second,
		ClearTimeout:  time.Minute,
		UploadTimeout: time.Minute,
	}
}

// newTestClient wires a client to the given server with a recording sleeper
// so tests never wait out real retry delays.
func newTestClient(url string, policy RetryPolicy) (*Client, *[]time.Duration) {
	c := New(url, "test-key", policy)
	var slept []time.Duration
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func TestClearSuccess(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, slept := newTestClient(srv.URL, testPolicy())
	if err := c.Clear(context.Background(), testSpec()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", gotMethod)
	}
	if gotPath != "/api/clear/products" {
		t.Errorf("path = %s, want /api/clear/products", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want Bearer test-key", gotAuth)
	}
	if len(*slept) != 0 {
		t.Errorf("slept %d times on immediate success, want 0", len(*slept))
	}
}

func TestClearExhaustsRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, slept := newTestClient(srv.URL, testPolicy())
	err := c.Clear(context.Background(), testSpec())
	if !errors.IsKind(err, errors.ClearFailed) {
		t.Errorf("Clear() error kind = %q, want %q", errors.KindOf(err), errors.ClearFailed)
	}
	if calls != 3 {
		t.Errorf("server saw %d attempts, want 3", calls)
	}
	// Sleeps happen between attempts, not after the last one.
	if len(*slept) != 2 {
		t.Errorf("slept %d times, want 2", len(*slept))
	}
	for _, d := range *slept {
		if d != 2*time.Second {
			t.Errorf("slept %v, want 2s", d)
		}
	}
}

func TestUploadTransientFailureRecovers(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := record.New("code")
	r.Set("code", "P1")

	c, _ := newTestClient(srv.URL, testPolicy())
	if err := c.Upload(context.Background(), testSpec(), 1, []record.Record{r}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("server saw %d attempts, want 3", calls)
	}
}

func TestUploadSendsJSONArrayBody(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r1 := record.New("code", "name")
	r1.Set("code", "P1")
	r1.Set("name", "First")
	r2 := record.New("code", "name")
	r2.Set("code", "P2")
	r2.Set("name", "Second")

	c, _ := newTestClient(srv.URL, testPolicy())
	if err := c.Upload(context.Background(), testSpec(), 1, []record.Record{r1, r2}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body is not a JSON array of objects: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("body has %d objects, want 2", len(decoded))
	}
	if decoded[1]["code"] != "P2" {
		t.Errorf("second object code = %v, want P2", decoded[1]["code"])
	}
}

func TestUploadExhaustionRetriesFullBody(t *testing.T) {
	var bodies [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, b)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := record.New("code")
	r.Set("code", "P1")

	c, _ := newTestClient(srv.URL, testPolicy())
	err := c.Upload(context.Background(), testSpec(), 2, []record.Record{r})
	if !errors.IsKind(err, errors.UploadFailed) {
		t.Errorf("Upload() error kind = %q, want %q", errors.KindOf(err), errors.UploadFailed)
	}
	if len(bodies) != 3 {
		t.Fatalf("server saw %d attempts, want 3", len(bodies))
	}
	// Every attempt must carry the whole chunk, not a drained reader.
	for i, b := range bodies {
		if string(b) != `[{"code":"P1"}]` {
			t.Errorf("attempt %d body = %s, want full chunk", i+1, b)
		}
	}
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := New(srv.URL, "test-key", testPolicy())
	c.sleep = func(time.Duration) { cancel() }

	err := c.Clear(ctx, testSpec())
	if err == nil {
		t.Fatal("Clear() succeeded after cancellation")
	}
	if calls != 1 {
		t.Errorf("server saw %d attempts after cancel, want 1", calls)
	}
}

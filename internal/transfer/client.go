// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package transfer performs the remote clear and upload operations against
// the web application's sync API, each wrapped in a bounded-retry policy.
//
// Both operations share the same contract: a 2xx response is success, any
// other response or a transport-level failure counts as one failed attempt,
// and exhausting attempts surfaces a typed error carrying the last observed
// status or cause. The retry delay and per-attempt timeouts come from the
// policy, not constants, so deployments can tune them.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"omegasync/cli/internal/errors"
	"omegasync/cli/internal/record"
	"omegasync/cli/internal/tablespec"
)

// RetryPolicy bounds the retry loop around each remote operation.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts per operation, including
	// the first.
	MaxAttempts int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
	// ClearTimeout bounds a single clear attempt.
	ClearTimeout time.Duration
	// UploadTimeout bounds a single upload attempt. Uploads carry up to a
	// full chunk of records, so they get more headroom than clears.
	UploadTimeout time.Duration
}

// DefaultRetryPolicy mirrors the deployment defaults: three attempts with a
// two-second pause, 60s per clear attempt, 180s per upload attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		Delay:         2 * time.Second,
		ClearTimeout:  60 * time.Second,
		UploadTimeout: 180 * time.Second,
	}
}

// Doer abstracts *http.Client so tests can substitute a fake transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues authenticated clear and upload requests to the sync API.
type Client struct {
	baseURL string
	key     string
	policy  RetryPolicy
	client  Doer
	// sleep is swapped for a recording fake in tests.
	sleep func(time.Duration)
}

// New creates a client for the given API base URL and bearer key.
// The per-attempt timeout is enforced through the request context, not the
// http.Client, because clears and uploads have different budgets.
func New(baseURL, key string, policy RetryPolicy) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		policy:  policy,
		client:  &http.Client{},
		sleep:   time.Sleep,
	}
}

// Clear deletes all existing remote rows for the table. A 2xx response is
// success; anything else is retried up to the policy limit, and exhaustion
// yields an errors.ClearFailed error with the last status or cause.
func (c *Client) Clear(ctx context.Context, spec tablespec.TableSpec) error {
	err := c.doWithRetry(ctx, c.policy.ClearTimeout, func() (*http.Request, error) {
		return http.NewRequest(http.MethodDelete, c.baseURL+spec.ClearPath, nil)
	})
	if err != nil {
		return errors.Wrap(errors.ClearFailed, fmt.Sprintf("could not clear remote table %s", spec.RemoteName), err)
	}
	return nil
}

// Upload serializes one chunk as a JSON array of objects and POSTs it to the
// table's chunk endpoint under the same retry policy as Clear. chunkIndex is
// 1-based and only used for error reporting. A failed upload leaves the
// remote table in an indeterminate state, so callers must not continue with
// later chunks of the same table.
func (c *Client) Upload(ctx context.Context, spec tablespec.TableSpec, chunkIndex int, records []record.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(errors.UploadFailed, fmt.Sprintf("could not encode chunk %d of table %s", chunkIndex, spec.RemoteName), err)
	}
	err = c.doWithRetry(ctx, c.policy.UploadTimeout, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.baseURL+spec.ChunkPath, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return errors.Wrap(errors.UploadFailed, fmt.Sprintf("could not upload chunk %d of table %s", chunkIndex, spec.RemoteName), err)
	}
	return nil
}

// Ping probes the API's version endpoint without authentication, verifying
// the server is reachable before a run commits to clearing anything.
func (c *Client) Ping(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.TransportFailed, "sync API is unreachable", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.New(errors.TransportFailed, fmt.Sprintf("sync API returned status %d", resp.StatusCode))
	}
	return nil
}

// doWithRetry runs one operation under the bounded-retry policy. build
// produces a fresh request per attempt because request bodies are consumed
// on use. The last observed failure is returned after exhaustion.
func (c *Client) doWithRetry(ctx context.Context, timeout time.Duration, build func() (*http.Request, error)) error {
	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = c.attempt(ctx, timeout, build)
		if lastErr == nil {
			return nil
		}
		if attempt < c.policy.MaxAttempts {
			c.sleep(c.policy.Delay)
		}
	}
	return lastErr
}

// attempt performs a single request with its own timeout and classifies the
// outcome: nil for any 2xx, a TransportFailed error otherwise.
func (c *Client) attempt(ctx context.Context, timeout time.Duration, build func() (*http.Request, error)) error {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := build()
	if err != nil {
		return err
	}
	req = req.WithContext(reqCtx)
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.TransportFailed, "request failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(errors.TransportFailed, fmt.Sprintf("server returned status %d", resp.StatusCode))
	}
	return nil
}

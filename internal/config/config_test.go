// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"omegasync/cli/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	p := writeConfig(t, `{
		"database": {"dsn": "postgres://u:p@localhost:5432/db"},
		"api": {"url": "https://app.example.com", "key": "k"}
	}`)

	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want 500", c.ChunkSize)
	}
	pol := c.RetryPolicy()
	if pol.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", pol.MaxAttempts)
	}
	if pol.Delay != 2*time.Second {
		t.Errorf("Delay = %v, want 2s", pol.Delay)
	}
	if pol.ClearTimeout != 60*time.Second || pol.UploadTimeout != 180*time.Second {
		t.Errorf("timeouts = %v/%v, want 60s/180s", pol.ClearTimeout, pol.UploadTimeout)
	}
	if c.SkipClearWhenEmpty {
		t.Error("SkipClearWhenEmpty defaulted to true")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing api url",
			body: `{"api": {"key": "k"}}`,
		},
		{
			name: "malformed api url",
			body: `{"api": {"url": "not a url", "key": "k"}}`,
		},
		{
			name: "invalid json",
			body: `{"api":`,
		},
		{
			name: "negative chunk size",
			body: `{"api": {"url": "https://x.example", "key": "k"}, "chunk_size": -5}`,
		},
		{
			name: "negative retry attempts",
			body: `{"api": {"url": "https://x.example", "key": "k", "retry": {"max_attempts": -1}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.IsKind(err, errors.ConfigInvalid) {
				t.Errorf("Load() error = %v, want kind %q", err, errors.ConfigInvalid)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.IsKind(err, errors.ConfigInvalid) {
		t.Errorf("Load() error = %v, want kind %q", err, errors.ConfigInvalid)
	}
}

func TestResolvePrecedence(t *testing.T) {
	if got, _ := Resolve("/explicit/config.json"); got != "/explicit/config.json" {
		t.Errorf("Resolve(explicit) = %q", got)
	}

	t.Setenv("OMEGASYNC_CONFIG", "/from/env.json")
	if got, _ := Resolve(""); got != "/from/env.json" {
		t.Errorf("Resolve() with env = %q, want /from/env.json", got)
	}

	t.Setenv("OMEGASYNC_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if got, _ := Resolve(""); got != FileName {
		t.Errorf("Resolve() without any source = %q, want %q", got, FileName)
	}
}

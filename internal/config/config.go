// Package config loads and validates the sync tool configuration.
// Configuration lives in a config.json resolved from an explicit path, the
// OMEGASYNC_CONFIG environment variable, the XDG config dir, or the working
// directory, in that order. Only non-secret settings belong here; the DSN
// and API key may instead come from the environment or the OS keychain.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"omegasync/cli/internal/chunk"
	"omegasync/cli/internal/errors"
	"omegasync/cli/internal/transfer"
	"omegasync/cli/internal/xdg"
)

// FileName is the configuration file name searched for in the XDG config
// dir and the working directory.
const FileName = "config.json"

// Config holds one run's settings.
type Config struct {
	Database DBConfig  `json:"database"`
	API      APIConfig `json:"api"`
	// ChunkSize bounds records per upload call.
	ChunkSize int `json:"chunk_size"`
	// SkipClearWhenEmpty restores the legacy behavior of not clearing a
	// remote table whose source table is empty. Off by default: an emptied
	// source table should empty its remote copy too.
	SkipClearWhenEmpty bool `json:"skip_clear_when_empty"`
	// LogFile is the run log path. Empty disables file logging.
	LogFile string `json:"log_file"`
}

// DBConfig holds source database connection settings.
type DBConfig struct {
	DSN string `json:"dsn"`
}

// APIConfig holds the remote sync API settings.
type APIConfig struct {
	URL   string      `json:"url"`
	Key   string      `json:"key"`
	Retry RetryConfig `json:"retry"`
}

// RetryConfig tunes the transfer client's bounded-retry policy.
type RetryConfig struct {
	MaxAttempts          int `json:"max_attempts"`
	DelaySeconds         int `json:"delay_seconds"`
	ClearTimeoutSeconds  int `json:"clear_timeout_seconds"`
	UploadTimeoutSeconds int `json:"upload_timeout_seconds"`
}

// Resolve returns the configuration file path using the documented
// precedence: explicit path, $OMEGASYNC_CONFIG, XDG config dir, working
// directory. A missing file at an explicitly requested location is an error;
// fallback locations are only used when they exist.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := strings.TrimSpace(os.Getenv("OMEGASYNC_CONFIG")); env != "" {
		return env, nil
	}
	if dir, err := xdg.ConfigDir(); err == nil {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return FileName, nil
}

// Load reads and validates the configuration at path.
func Load(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, errors.Wrap(errors.ConfigInvalid,
				fmt.Sprintf("configuration file %q not found; create it or set OMEGASYNC_CONFIG", path), err)
		}
		return c, errors.Wrap(errors.ConfigInvalid, fmt.Sprintf("cannot read configuration file %q", path), err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, errors.Wrap(errors.ConfigInvalid,
			fmt.Sprintf("configuration file %q is not valid JSON; check the file syntax", path), err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = chunk.DefaultSize
	}
	d := transfer.DefaultRetryPolicy()
	if c.API.Retry.MaxAttempts == 0 {
		c.API.Retry.MaxAttempts = d.MaxAttempts
	}
	if c.API.Retry.DelaySeconds == 0 {
		c.API.Retry.DelaySeconds = int(d.Delay / time.Second)
	}
	if c.API.Retry.ClearTimeoutSeconds == 0 {
		c.API.Retry.ClearTimeoutSeconds = int(d.ClearTimeout / time.Second)
	}
	if c.API.Retry.UploadTimeoutSeconds == 0 {
		c.API.Retry.UploadTimeoutSeconds = int(d.UploadTimeout / time.Second)
	}
}

// validate checks everything that does not depend on secret resolution.
// The DSN and API key may come from the environment or keychain instead of
// the file, so their presence is checked later, after merging sources.
func (c *Config) validate() error {
	if strings.TrimSpace(c.API.URL) == "" {
		return errors.New(errors.ConfigInvalid, "api.url is required; set it to the web application base URL")
	}
	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ConfigInvalid,
			fmt.Sprintf("api.url %q is not a valid URL; expected something like https://app.example.com", c.API.URL))
	}
	if c.ChunkSize < 1 {
		return errors.New(errors.ConfigInvalid, "chunk_size must be at least 1")
	}
	r := c.API.Retry
	if r.MaxAttempts < 1 || r.DelaySeconds < 0 || r.ClearTimeoutSeconds < 1 || r.UploadTimeoutSeconds < 1 {
		return errors.New(errors.ConfigInvalid, "api.retry values must be positive")
	}
	return nil
}

// RetryPolicy converts the retry settings into the transfer client's policy.
func (c Config) RetryPolicy() transfer.RetryPolicy {
	return transfer.RetryPolicy{
		MaxAttempts:   c.API.Retry.MaxAttempts,
		Delay:         time.Duration(c.API.Retry.DelaySeconds) * time.Second,
		ClearTimeout:  time.Duration(c.API.Retry.ClearTimeoutSeconds) * time.Second,
		UploadTimeout: time.Duration(c.API.Retry.UploadTimeoutSeconds) * time.Second,
	}
}

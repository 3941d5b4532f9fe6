// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"net/url"
	"os"
	"strings"

	"omegasync/cli/internal/config"
	"omegasync/cli/internal/errors"
	"omegasync/cli/internal/keychain"
)

// resolveDSN returns the source database DSN, preferring the environment,
// then the OS keychain, then the configuration file. The raw value still
// needs dsn.Parse before use.
func resolveDSN(cfg config.Config) (string, error) {
	for _, env := range []string{"OMEGASYNC_DSN", "DATABASE_URL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, nil
		}
	}
	if km, err := keychain.GetManager(); err == nil {
		if v, err := km.LoadDBDSN(); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	if v := strings.TrimSpace(cfg.Database.DSN); v != "" {
		return v, nil
	}
	return "", errors.New(errors.ConfigInvalid,
		"no database connection configured; run 'omegasync connect', set OMEGASYNC_DSN, or add database.dsn to config.json")
}

// resolveAPIKey returns the remote API bearer key with the same precedence
// as resolveDSN: environment, keychain, configuration file.
func resolveAPIKey(cfg config.Config) (string, error) {
	if v := strings.TrimSpace(os.Getenv("OMEGASYNC_API_KEY")); v != "" {
		return v, nil
	}
	if km, err := keychain.GetManager(); err == nil {
		if v, err := km.LoadAPIKey(); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	if v := strings.TrimSpace(cfg.API.Key); v != "" {
		return v, nil
	}
	return "", errors.New(errors.ConfigInvalid,
		"no API key configured; run 'omegasync connect', set OMEGASYNC_API_KEY, or add api.key to config.json")
}

// deriveDBName extracts the database name from a PostgreSQL DSN URL.
// Returns an empty string if the DSN cannot be parsed.
func deriveDBName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
// It detects common network failure modes and renders remediation advice, so
// a failed run ends with something an operator can act on instead of a raw
// transport error.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// FormatNetworkError converts technical HTTP/network errors into user-friendly messages.
// It detects common error types (timeout, DNS, connection refused, SSL, server errors)
// and displays helpful troubleshooting information, then returns a wrapped
// error for logging.
func FormatNetworkError(err error, context string) error {
	if err == nil {
		return nil
	}
	displayErrorMessage(err, context)
	return fmt.Errorf("network error: %w", err)
}

// displayErrorMessage shows a formatted error message to the user based on error type.
func displayErrorMessage(err error, context string) {
	errStr := err.Error()

	switch {
	case isTimeoutError(err):
		showAdvice("⏱️  Connection timeout while "+context,
			"The server took too long to respond. This could mean:",
			"  • Slow internet connection",
			"  • Server is under heavy load",
			"  • Network firewall is blocking the connection")
	case isDNSError(err):
		showAdvice("🌐 Cannot resolve server address while "+context,
			"Unable to look up the sync API host. Please check:",
			"  • Your internet connection is working",
			"  • The api.url value in your configuration",
			"  • DNS settings and DNS-level blocking (corporate firewall)")
	case isConnectionRefusedError(err):
		showAdvice("🚫 Connection refused while "+context,
			"The server is not accepting connections. This could mean:",
			"  • The web application is temporarily down",
			"  • Firewall is blocking the connection",
			"  • Wrong server address or port in api.url")
	case isSSLError(err):
		showAdvice("🔒 Secure connection failed while "+context,
			"Cannot establish a secure HTTPS connection. This could mean:",
			"  • SSL/TLS certificate issue on the server",
			"  • Network proxy interfering with HTTPS",
			"  • System clock is incorrect")
	case isServerError(errStr):
		showAdvice("⚠️  Server error while "+context,
			"The sync API encountered an internal error.",
			"  • This is a server-side problem, not a configuration issue",
			"  • Please try again in a few minutes",
			"  • If it persists, check the web application's logs")
	default:
		showAdvice("❌ Cannot reach the sync API while "+context,
			"Please check:",
			"  • Your internet connection",
			"  • Whether the server in api.url is accessible from your network",
			"  • Firewall settings that might block HTTPS requests")
		if errStr != "" {
			short := errStr
			if len(short) > 100 {
				short = short[:100] + "..."
			}
			pterm.Debug.Printf("Technical details: %s\n", short)
		}
	}
}

func showAdvice(headline string, lines ...string) {
	pterm.Println(headline)
	pterm.Println()
	for _, l := range lines {
		pterm.Println(l)
	}
	pterm.Println()
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}

	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "ssl") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError checks if the error indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "500") ||
		strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") ||
		strings.Contains(lower, "504") ||
		strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "gateway timeout")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}

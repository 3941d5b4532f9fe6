// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConfigInvalid indicates missing or malformed configuration. Fatal, no retry.
	ConfigInvalid Kind = "config_invalid"
	// DBUnreachable indicates the source database cannot be reached. Fatal, no retry.
	DBUnreachable Kind = "db_unreachable"
	// ExtractFailed indicates one table's extraction query failed.
	// Recoverable at the table level; other tables are still attempted.
	ExtractFailed Kind = "extract_failed"
	// ClearFailed indicates a remote clear exhausted its retries. Aborts the run.
	ClearFailed Kind = "clear_failed"
	// UploadFailed indicates a chunk upload exhausted its retries. Aborts the run.
	UploadFailed Kind = "upload_failed"
	// TransportFailed indicates a network-level failure within a single attempt.
	TransportFailed Kind = "transport_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of err when it is or wraps an *E, or "" otherwise.
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is or wraps an *E of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

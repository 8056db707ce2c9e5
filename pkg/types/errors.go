// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures. Fetcher-local kinds
// (KindRecoverableSource, KindFatalSource, KindAuthenticationFailed) never
// escape the dispatcher; only run-level kinds reach the engine's caller.
type ErrorKind string

const (
	// KindInvalidRequest marks a malformed research request. Fatal, no retry.
	KindInvalidRequest ErrorKind = "invalid_request"

	// KindAuthenticationFailed marks a rejected directory credential.
	// Fatal for the directory source this run; credentials are cleared.
	KindAuthenticationFailed ErrorKind = "authentication_failed"

	// KindRecoverableSource marks a fetch failure that may be fixed by
	// adjusting the input and retrying (not found, malformed identifier).
	KindRecoverableSource ErrorKind = "recoverable_source"

	// KindFatalSource marks a timeout, network, or parse failure that
	// short-circuits the source immediately.
	KindFatalSource ErrorKind = "fatal_source"

	// KindNoSourcesAvailable marks a run in which every source failed.
	KindNoSourcesAvailable ErrorKind = "no_sources_available"

	// KindSynthesisUnavailable marks a failed synthesis backend call.
	KindSynthesisUnavailable ErrorKind = "synthesis_unavailable"

	// KindSinkUnavailable marks an export sink that is not configured or
	// not reachable.
	KindSinkUnavailable ErrorKind = "sink_unavailable"

	// KindCancelled marks a caller-initiated cancellation.
	KindCancelled ErrorKind = "cancelled"
)

// ResearchError is the structured error surfaced by the engine and its
// internal components. Detail is safe to show to an end user; internal retry
// bookkeeping never appears in it.
type ResearchError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *ResearchError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap returns the underlying cause, if any.
func (e *ResearchError) Unwrap() error { return e.Err }

// NewError builds a ResearchError wrapping err.
func NewError(kind ErrorKind, detail string, err error) *ResearchError {
	return &ResearchError{Kind: kind, Detail: detail, Err: err}
}

// KindOf returns the ErrorKind carried by err, or "" when err is not a
// ResearchError.
func KindOf(err error) ErrorKind {
	var re *ResearchError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsRecoverable reports whether err is eligible for corrective retry.
func IsRecoverable(err error) bool {
	return KindOf(err) == KindRecoverableSource
}

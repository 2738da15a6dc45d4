// Package apperr defines the error kinds surfaced by a session run.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind names an error category for callers and operators.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindNoSources    Kind = "no_sources"
	KindBusy         Kind = "session_busy"
	KindTranscribe   Kind = "transcription_engine"
	KindTimeout      Kind = "network_timeout"
	KindTransport    Kind = "network_transport"
	KindUpstream     Kind = "upstream_status"
	KindRetrieval    Kind = "retrieval_degraded"
	KindPersistence  Kind = "persistence"
	KindInternal     Kind = "internal"
	KindCancellation Kind = "cancelled"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoSources       = errors.New("session has no sources")
	ErrSessionBusy     = errors.New("session is already being processed")
)

// ValidationError reports malformed input rejected before any work was done.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// TranscriptionError reports a failed transcription of one source.
type TranscriptionError struct {
	Source string
	Err    error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.Source, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// TimeoutError reports a downstream call that exceeded its deadline.
type TimeoutError struct {
	Target string
	Err    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out: %v", e.Target, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// TransportError reports a connection level failure (DNS, refused, reset).
type TransportError struct {
	Target string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("an error occurred while requesting %s: %v", e.Target, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamStatusError reports a non-2xx response together with its body.
type UpstreamStatusError struct {
	Target     string
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Target, e.StatusCode, e.Body)
}

// RetrievalError reports a namespace lookup that failed or broke the field contract.
// It never fails a run; the namespace degrades to an empty list.
type RetrievalError struct {
	Namespace string
	Err       error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("search namespace %s: %v", e.Namespace, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// PersistenceError reports a document store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist report (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// KindOf classifies err by the first recognised error in its chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var (
		validation  *ValidationError
		transcribe  *TranscriptionError
		timeout     *TimeoutError
		transport   *TransportError
		upstream    *UpstreamStatusError
		retrieval   *RetrievalError
		persistence *PersistenceError
	)

	switch {
	case errors.Is(err, ErrSessionNotFound):
		return KindNotFound
	case errors.Is(err, ErrNoSources):
		return KindNoSources
	case errors.Is(err, ErrSessionBusy):
		return KindBusy
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &transcribe):
		return KindTranscribe
	case errors.As(err, &timeout):
		return KindTimeout
	case errors.As(err, &transport):
		return KindTransport
	case errors.As(err, &upstream):
		return KindUpstream
	case errors.As(err, &retrieval):
		return KindRetrieval
	case errors.As(err, &persistence):
		return KindPersistence
	case errors.Is(err, context.Canceled):
		return KindCancellation
	default:
		return KindInternal
	}
}

package domain

import (
	"errors"
	"fmt"
)

// ErrNoTargets indicates that no backend target has a usable credential.
// This is a configuration error, surfaced immediately and never retried.
var ErrNoTargets = errors.New("no backend target has a configured credential")

// ErrMalformedResponse indicates a 2xx response whose body did not contain
// the expected content path. Distinct from an HTTP-level failure.
var ErrMalformedResponse = errors.New("malformed success response")

// ErrJobTimeout indicates the polling attempt budget was exhausted before the
// job reached a terminal state. Distinct from a provider-reported failure.
var ErrJobTimeout = errors.New("generation job timed out")

// ErrJobCanceled indicates the provider reported the job as canceled.
var ErrJobCanceled = errors.New("generation job canceled")

// ErrCacheMiss indicates no cached entry was found.
var ErrCacheMiss = errors.New("cache miss")

// UpstreamError is a failure reported by a backend: a non-2xx status, or an
// error object embedded inside an otherwise successful response.
type UpstreamError struct {
	Target     string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Target, e.StatusCode, e.Message)
}

// ClientError reports whether the upstream rejected the request itself (4xx).
func (e *UpstreamError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode <= 499
}

// ServerError reports whether the upstream itself is unhealthy (5xx).
func (e *UpstreamError) ServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode <= 599
}

// JobFailedError is a provider-reported job failure with its error message.
type JobFailedError struct {
	Message string
}

func (e *JobFailedError) Error() string {
	if e.Message == "" {
		return "generation job failed"
	}
	return fmt.Sprintf("generation job failed: %s", e.Message)
}

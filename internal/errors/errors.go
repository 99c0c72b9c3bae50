// Package errors defines the typed error taxonomy for analysis calls.
// Every failure mode of the endpoint loop maps to exactly one code, so the
// caller can distinguish transport faults, protocol faults, and in-band
// server faults without string matching.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure class in the analysis error taxonomy.
type ErrorCode string

const (
	// ErrInvalidInput indicates the caller supplied an unusable request,
	// e.g. an empty document. Never triggers endpoint fallback.
	ErrInvalidInput ErrorCode = "invalid_input"

	// ErrEndpointNotFound indicates an HTTP 404: the endpoint does not
	// serve the analysis route, so the next candidate should be tried.
	ErrEndpointNotFound ErrorCode = "endpoint_not_found"

	// ErrServerError indicates a non-200, non-404 HTTP status.
	ErrServerError ErrorCode = "server_error"

	// ErrRPCError indicates a decoded JSON-RPC error envelope.
	ErrRPCError ErrorCode = "rpc_error"

	// ErrRemoteAnalysis indicates an in-band failure: the server answered
	// HTTP 200 with a success-shaped envelope whose isError flag was set.
	ErrRemoteAnalysis ErrorCode = "remote_analysis_error"

	// ErrMalformedSSE indicates an SSE-framed response without any data
	// line. This is a hard failure for the endpoint, never a silent success.
	ErrMalformedSSE ErrorCode = "malformed_sse"

	// ErrTimeout indicates the transport deadline elapsed for one attempt.
	ErrTimeout ErrorCode = "transport_timeout"

	// ErrConnectionFailed indicates the endpoint could not be reached.
	ErrConnectionFailed ErrorCode = "transport_connection_failure"

	// ErrAllEndpointsExhausted is the aggregate failure returned after
	// every configured endpoint has been attempted without success.
	ErrAllEndpointsExhausted ErrorCode = "all_endpoints_exhausted"
)

// AnalysisError is a classified failure from one analysis attempt.
type AnalysisError struct {
	Code     ErrorCode
	Message  string
	Endpoint string // endpoint the failure was observed at, if any
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("%s: %s (endpoint %s)", e.Code, e.Message, e.Endpoint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates an AnalysisError with the given code and message.
func New(code ErrorCode, message string) *AnalysisError {
	return &AnalysisError{Code: code, Message: message}
}

// Newf creates an AnalysisError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AnalysisError {
	return &AnalysisError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// At returns a copy of the error annotated with the endpoint it occurred at.
func (e *AnalysisError) At(endpoint string) *AnalysisError {
	clone := *e
	clone.Endpoint = endpoint
	return &clone
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns an empty code when err is not an AnalysisError.
func CodeOf(err error) ErrorCode {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	return CodeOf(err) == ErrTimeout
}

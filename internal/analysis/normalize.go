package analysis

import (
	"fmt"

	"med-mcp/internal/decoder"
	"med-mcp/internal/endpoint"
	app_errors "med-mcp/internal/errors"
)

// Operator guidance attached to terminal failures.
const (
	recommendCheckServer = "Check that the analysis server is reachable and MCP_SERVER_URL is configured correctly"
	recommendLighterMode = "The request timed out; retry with a lighter analysis mode such as 'comprehensive' or 'basic'"
)

// Normalize maps a decoded payload into the canonical success result.
func Normalize(req *Request, payload *decoder.Payload, ep endpoint.Endpoint) *Result {
	return &Result{
		RequestedMode:   req.RequestedMode,
		TransmittedMode: req.WireMode,
		Status:          StatusSuccess,
		AnalysisText:    payload.AnalysisText,
		TokensUsed:      payload.TokensUsed,
		SourceEndpoint:  ep.URL,
	}
}

// NormalizeError maps one endpoint's failure into an error result. The
// message keeps the endpoint identity and the underlying cause; nothing is
// replaced with a generic message.
func NormalizeError(req *Request, err *app_errors.AnalysisError, ep endpoint.Endpoint) *Result {
	return &Result{
		RequestedMode:   req.RequestedMode,
		TransmittedMode: req.WireMode,
		Status:          StatusError,
		ErrorMessage:    err.Error(),
		SourceEndpoint:  ep.URL,
	}
}

// NormalizeExhausted builds the aggregate failure after every configured
// endpoint has been attempted. The message preserves the identity of the
// last individual failure and names the configured server URL; a timeout
// as the last failure carries the lighter-mode guidance instead of the
// availability hint.
func NormalizeExhausted(req *Request, lastErr *app_errors.AnalysisError, serverURL string) *Result {
	recommendation := recommendCheckServer
	if app_errors.IsTimeout(lastErr) {
		recommendation = recommendLighterMode
	}
	return &Result{
		RequestedMode:   req.RequestedMode,
		TransmittedMode: req.WireMode,
		Status:          StatusError,
		ErrorMessage:    fmt.Sprintf("all endpoints failed; last error: %s", lastErr.Error()),
		ServerURL:       serverURL,
		Recommendation:  recommendation,
	}
}

// normalizeInvalidInput reports a request that never reached the wire.
func normalizeInvalidInput(mode Mode, err error) *Result {
	return &Result{
		RequestedMode:   mode,
		TransmittedMode: mode.WireMode(),
		Status:          StatusError,
		ErrorMessage:    err.Error(),
	}
}

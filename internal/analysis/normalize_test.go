package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"med-mcp/internal/decoder"
	"med-mcp/internal/endpoint"
	app_errors "med-mcp/internal/errors"
)

func testRequest(t *testing.T) *Request {
	t.Helper()
	req, err := Build("note", ModeComplicated)
	require.NoError(t, err)
	return req
}

func TestNormalize_Success(t *testing.T) {
	req := testRequest(t)
	payload := &decoder.Payload{
		Framing:      decoder.FramingSSE,
		Kind:         decoder.PayloadRPCContent,
		AnalysisText: "finding A",
		TokensUsed:   17,
	}
	ep := endpoint.Endpoint{URL: "http://mcp.example/mcp", Kind: endpoint.KindRPC}

	result := Normalize(req, payload, ep)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "finding A", result.AnalysisText)
	assert.Equal(t, 17, result.TokensUsed)
	assert.Equal(t, ModeComplicated, result.RequestedMode)
	assert.Equal(t, ModeComprehensive, result.TransmittedMode)
	assert.Equal(t, "http://mcp.example/mcp", result.SourceEndpoint)
	assert.Empty(t, result.ErrorMessage)
}

func TestNormalizeError_KeepsEndpointAndCause(t *testing.T) {
	req := testRequest(t)
	ep := endpoint.Endpoint{URL: "http://mcp.example/mcp", Kind: endpoint.KindRPC}
	cause := app_errors.Newf(app_errors.ErrRemoteAnalysis, "analysis server error: %s", "model refused").At(ep.URL)

	result := NormalizeError(req, cause, ep)

	assert.Equal(t, StatusError, result.Status)
	assert.Empty(t, result.AnalysisText)
	assert.Contains(t, result.ErrorMessage, "model refused")
	assert.Contains(t, result.ErrorMessage, "http://mcp.example/mcp")
	assert.Equal(t, ep.URL, result.SourceEndpoint)
}

func TestNormalizeExhausted_KeepsLastErrorAndServerURL(t *testing.T) {
	req := testRequest(t)
	lastErr := app_errors.Newf(app_errors.ErrServerError, "status 503: overloaded").At("http://backup.example/mcp")

	result := NormalizeExhausted(req, lastErr, "http://mcp.example/mcp")

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "status 503: overloaded")
	assert.Contains(t, result.ErrorMessage, "http://backup.example/mcp")
	assert.Equal(t, "http://mcp.example/mcp", result.ServerURL)
	assert.Contains(t, result.Recommendation, "MCP_SERVER_URL")
}

func TestNormalizeExhausted_TimeoutGetsLighterModeGuidance(t *testing.T) {
	req := testRequest(t)
	lastErr := app_errors.New(app_errors.ErrTimeout, "request to http://mcp.example timed out after 2m0s")

	result := NormalizeExhausted(req, lastErr, "http://mcp.example")

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Recommendation, "lighter analysis mode")
}

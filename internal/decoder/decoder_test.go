package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "med-mcp/internal/errors"
)

func raw(status int, body string) *RawResponse {
	return &RawResponse{StatusCode: status, Body: body}
}

func TestDecode_PlainJSON_RESTShape(t *testing.T) {
	payload, err := Decode(raw(200, `{"analysis":"x","tokens_used":5}`))

	require.NoError(t, err)
	assert.Equal(t, FramingJSON, payload.Framing)
	assert.Equal(t, PayloadREST, payload.Kind)
	assert.Equal(t, "x", payload.AnalysisText)
	assert.Equal(t, 5, payload.TokensUsed)
}

func TestDecode_RESTShape_MissingFieldsDefault(t *testing.T) {
	body := `{"note":"unexpected shape"}`
	payload, err := Decode(raw(200, body))

	require.NoError(t, err)
	assert.Equal(t, PayloadREST, payload.Kind)
	// No analysis field: the whole object is the analysis payload.
	assert.JSONEq(t, body, payload.AnalysisText)
	assert.Equal(t, 0, payload.TokensUsed)
}

func TestDecode_RESTShape_ObjectAnalysisField(t *testing.T) {
	payload, err := Decode(raw(200, `{"analysis":{"summary":"ok"},"tokens_used":2}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok"}`, payload.AnalysisText)
	assert.Equal(t, 2, payload.TokensUsed)
}

func TestDecode_JSONRPC_ContentBearing(t *testing.T) {
	payload, err := Decode(raw(200, `{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"finding A"}],"tokens_used":42}}`))

	require.NoError(t, err)
	assert.Equal(t, PayloadRPCContent, payload.Kind)
	assert.Equal(t, "finding A", payload.AnalysisText)
	assert.Equal(t, 42, payload.TokensUsed)
}

func TestDecode_JSONRPC_InBandError(t *testing.T) {
	_, err := Decode(raw(200, `{"result":{"content":[{"text":"model refused"}],"isError":true}}`))

	require.Error(t, err)
	assert.Equal(t, app_errors.ErrRemoteAnalysis, app_errors.CodeOf(err))
	// The in-band message must quote the content text, not a generic string.
	assert.Contains(t, err.Error(), "model refused")
}

func TestDecode_JSONRPC_ContentNotAList_Stringified(t *testing.T) {
	payload, err := Decode(raw(200, `{"result":{"content":"bare string content"}}`))

	require.NoError(t, err)
	assert.Equal(t, PayloadRPCContent, payload.Kind)
	assert.Equal(t, "bare string content", payload.AnalysisText)
}

func TestDecode_JSONRPC_EmptyContentList_Stringified(t *testing.T) {
	payload, err := Decode(raw(200, `{"result":{"content":[]}}`))

	require.NoError(t, err)
	assert.Equal(t, "[]", payload.AnalysisText)
}

func TestDecode_JSONRPC_FirstElementWithoutText_FallsBackToList(t *testing.T) {
	payload, err := Decode(raw(200, `{"result":{"content":[{"type":"image"}]}}`))

	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"image"}]`, payload.AnalysisText)
}

func TestDecode_JSONRPC_NoContentField_PassThrough(t *testing.T) {
	payload, err := Decode(raw(200, `{"result":{"verdict":"stable","score":3}}`))

	require.NoError(t, err)
	assert.Equal(t, PayloadRPCRaw, payload.Kind)
	assert.JSONEq(t, `{"verdict":"stable","score":3}`, payload.AnalysisText)
}

func TestDecode_JSONRPC_ErrorEnvelope(t *testing.T) {
	_, err := Decode(raw(200, `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`))

	require.Error(t, err)
	assert.Equal(t, app_errors.ErrRPCError, app_errors.CodeOf(err))
	assert.Contains(t, err.Error(), "method not found")
}

func TestDecode_JSONRPC_ErrorEnvelope_NoMessage_Stringified(t *testing.T) {
	_, err := Decode(raw(200, `{"error":{"code":-32000}}`))

	require.Error(t, err)
	assert.Equal(t, app_errors.ErrRPCError, app_errors.CodeOf(err))
	assert.Contains(t, err.Error(), "-32000")
}

func TestDecode_SSE_WrappedJSONRPC(t *testing.T) {
	body := "event: message\ndata: {\"result\":{\"content\":[{\"text\":\"ok\"}]}}\n"
	payload, err := Decode(raw(200, body))

	require.NoError(t, err)
	assert.Equal(t, FramingSSE, payload.Framing)
	assert.Equal(t, PayloadRPCContent, payload.Kind)
	assert.Equal(t, "ok", payload.AnalysisText)
}

func TestDecode_SSE_PingCommentPrefix(t *testing.T) {
	body := ": ping\n\ndata: {\"analysis\":\"from sse\",\"tokens_used\":1}\n"
	payload, err := Decode(raw(200, body))

	require.NoError(t, err)
	assert.Equal(t, FramingSSE, payload.Framing)
	assert.Equal(t, "from sse", payload.AnalysisText)
}

func TestDecode_SSE_NoDataLine_HardFailure(t *testing.T) {
	_, err := Decode(raw(200, "event: message\nid: 7\n"))

	require.Error(t, err)
	assert.Equal(t, app_errors.ErrMalformedSSE, app_errors.CodeOf(err))
	assert.Contains(t, err.Error(), "no data in SSE response")
}

func TestDecode_Status404_EndpointNotFound(t *testing.T) {
	_, err := Decode(raw(404, "not found"))

	require.Error(t, err)
	assert.Equal(t, app_errors.ErrEndpointNotFound, app_errors.CodeOf(err))
}

func TestDecode_Status500_ServerError(t *testing.T) {
	_, err := Decode(raw(500, "internal failure"))

	require.Error(t, err)
	assert.Equal(t, app_errors.ErrServerError, app_errors.CodeOf(err))
	assert.Contains(t, err.Error(), "internal failure")
}

func TestDecode_Status500_BodyExcerptTruncated(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	_, err := Decode(raw(502, string(long)))

	require.Error(t, err)
	assert.LessOrEqual(t, len(err.Error()), 300)
}

func TestDecode_InvalidJSONBody(t *testing.T) {
	_, err := Decode(raw(200, "<html>gateway error</html>"))

	require.Error(t, err)
	assert.Equal(t, app_errors.ErrServerError, app_errors.CodeOf(err))
}

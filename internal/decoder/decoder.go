// Package decoder turns a raw HTTP response from the analysis service into
// a classified payload or a typed error. The service may answer with plain
// JSON, a JSON-RPC 2.0 envelope, or an SSE stream carrying a JSON-RPC
// payload inside a data: line; all three are accepted here. The decoder
// performs no I/O and is a pure function over its input.
package decoder

import (
	"net/http"

	"github.com/tidwall/gjson"

	app_errors "med-mcp/internal/errors"
)

// excerptLen bounds how much of a body is quoted in error messages.
const excerptLen = 200

// Decode classifies one raw response. Evaluation order:
//  1. Non-200 status: 404 becomes EndpointNotFound (try the next endpoint),
//     anything else becomes ServerError.
//  2. SSE-framed bodies have their first data: line extracted and parsed;
//     an SSE body without a data line is a hard MalformedSSE failure.
//  3. The obtained JSON value is classified as a JSON-RPC success envelope
//     (content-bearing or pass-through), a JSON-RPC error envelope, or a
//     flat REST-style response.
func Decode(raw *RawResponse) (*Payload, error) {
	if raw.StatusCode != http.StatusOK {
		if raw.StatusCode == http.StatusNotFound {
			return nil, app_errors.Newf(app_errors.ErrEndpointNotFound,
				"endpoint not found (status 404): %s", excerpt(raw.Body))
		}
		return nil, app_errors.Newf(app_errors.ErrServerError,
			"status %d: %s", raw.StatusCode, excerpt(raw.Body))
	}

	body := raw.Body
	framing := DetectFraming(body)
	if framing == FramingSSE {
		data, ok := extractSSEData(body)
		if !ok {
			return nil, app_errors.New(app_errors.ErrMalformedSSE, "no data in SSE response")
		}
		body = data
	}

	if !gjson.Valid(body) {
		return nil, app_errors.Newf(app_errors.ErrServerError,
			"response is not valid JSON: %s", excerpt(body))
	}

	return classify(gjson.Parse(body), framing)
}

// classify maps a parsed JSON value onto the response taxonomy.
func classify(root gjson.Result, framing Framing) (*Payload, error) {
	if result := root.Get("result"); result.Exists() {
		return classifyRPCResult(result, framing)
	}

	if rpcErr := root.Get("error"); rpcErr.Exists() {
		message := rpcErr.Get("message").String()
		if message == "" {
			message = rpcErr.Raw
		}
		return nil, app_errors.New(app_errors.ErrRPCError, message)
	}

	// Neither result nor error: flat REST-style response.
	analysisText := root.Raw
	if analysis := root.Get("analysis"); analysis.Exists() {
		analysisText = stringify(analysis)
	}
	return &Payload{
		Framing:      framing,
		Kind:         PayloadREST,
		AnalysisText: analysisText,
		TokensUsed:   int(root.Get("tokens_used").Int()),
	}, nil
}

// classifyRPCResult handles a JSON-RPC success envelope. An isError flag
// inside a content-bearing result is an in-band failure despite the 200
// status and the success-shaped envelope.
func classifyRPCResult(result gjson.Result, framing Framing) (*Payload, error) {
	content := result.Get("content")
	if !content.Exists() {
		// No content field: pass the whole result value through verbatim.
		return &Payload{
			Framing:      framing,
			Kind:         PayloadRPCRaw,
			AnalysisText: stringify(result),
			TokensUsed:   int(result.Get("tokens_used").Int()),
		}, nil
	}

	text := contentText(content)
	if result.Get("isError").Bool() {
		return nil, app_errors.Newf(app_errors.ErrRemoteAnalysis,
			"analysis server error: %s", text)
	}

	return &Payload{
		Framing:      framing,
		Kind:         PayloadRPCContent,
		AnalysisText: text,
		TokensUsed:   int(result.Get("tokens_used").Int()),
	}, nil
}

// contentText extracts the analysis text from an MCP content value. The
// expected shape is a non-empty array whose first element carries a text
// field; anything else falls back to the value's string representation so
// the payload is never dropped silently.
func contentText(content gjson.Result) string {
	if content.IsArray() {
		items := content.Array()
		if len(items) > 0 {
			if text := items[0].Get("text"); text.Exists() {
				return text.String()
			}
			return content.Raw
		}
	}
	return stringify(content)
}

// stringify renders a gjson value as text: strings come back unquoted,
// everything else keeps its raw JSON representation.
func stringify(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return v.Raw
}

func excerpt(body string) string {
	if len(body) > excerptLen {
		return body[:excerptLen]
	}
	return body
}

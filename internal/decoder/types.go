package decoder

import "net/http"

// RawResponse is the transport's view of one endpoint attempt: status,
// headers, and the (already decompressed) body. Produced once per attempt.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// Framing identifies how the response body is framed on the wire.
type Framing int

const (
	// FramingJSON is a bare JSON document (plain JSON or a JSON-RPC envelope).
	FramingJSON Framing = iota
	// FramingSSE is a Server-Sent-Events stream carrying the JSON payload
	// inside a data: line.
	FramingSSE
)

// String returns the string representation of Framing.
func (f Framing) String() string {
	switch f {
	case FramingJSON:
		return "json"
	case FramingSSE:
		return "sse"
	default:
		return "unknown"
	}
}

// PayloadKind identifies which response shape a decoded payload came from.
type PayloadKind int

const (
	// PayloadRPCContent is a JSON-RPC success envelope carrying content blocks.
	PayloadRPCContent PayloadKind = iota
	// PayloadRPCRaw is a JSON-RPC success envelope without a content field;
	// the result value is passed through verbatim.
	PayloadRPCRaw
	// PayloadREST is a flat REST-style response.
	PayloadREST
)

// String returns the string representation of PayloadKind.
func (k PayloadKind) String() string {
	switch k {
	case PayloadRPCContent:
		return "rpc_content"
	case PayloadRPCRaw:
		return "rpc_raw"
	case PayloadREST:
		return "rest"
	default:
		return "unknown"
	}
}

// Payload is the decoded, classified outcome of one successful attempt.
// Exactly one Payload or one classified error comes out of Decode; no
// branch produces partially-populated state.
type Payload struct {
	Framing      Framing
	Kind         PayloadKind
	AnalysisText string
	TokensUsed   int
}

// Package endpoint resolves the ordered list of service endpoints to
// attempt for one logical analysis call.
package endpoint

import (
	"strings"

	"med-mcp/internal/config"
)

// restSuffix marks a REST-style route; anything else speaks JSON-RPC.
const restSuffix = "/analyze_medical_document"

// Kind identifies the wire protocol an endpoint expects.
type Kind int

const (
	// KindRPC endpoints accept JSON-RPC 2.0 tools/call envelopes.
	KindRPC Kind = iota
	// KindREST endpoints accept a flat {document, analysis_type} body.
	KindREST
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindRPC:
		return "rpc"
	case KindREST:
		return "rest"
	default:
		return "unknown"
	}
}

// Endpoint is one candidate service address. Immutable per call.
type Endpoint struct {
	URL  string
	Kind Kind
}

// KindOf classifies a URL purely by suffix inspection; no content
// negotiation round-trip is involved.
func KindOf(url string) Kind {
	if strings.HasSuffix(url, restSuffix) {
		return KindREST
	}
	return KindRPC
}

// Resolve returns the ordered, non-empty fallback sequence for one call:
// the configured server URL followed by any configured fallback URLs.
// Callers must attempt endpoints strictly in order and stop at the first
// success.
func Resolve(cfg *config.Config) []Endpoint {
	primary := cfg.ServerURL
	if primary == "" {
		primary = config.DefaultServerURL
	}

	endpoints := []Endpoint{{URL: primary, Kind: KindOf(primary)}}
	for _, url := range cfg.FallbackURLs {
		endpoints = append(endpoints, Endpoint{URL: url, Kind: KindOf(url)})
	}
	return endpoints
}

// Package analysis implements the clinical-document analysis client: it
// builds the outbound request, walks the configured endpoints in order,
// and normalizes whatever the decoder produced into one canonical result.
package analysis

// Mode is the requested depth of analysis.
type Mode string

const (
	ModeBasic         Mode = "basic"
	ModeComprehensive Mode = "comprehensive"
	// ModeComplicated is a client-local alias; the deployed server only
	// understands comprehensive, so it is rewritten before transmission.
	ModeComplicated Mode = "complicated"
)

// Valid reports whether m is a known analysis mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeBasic, ModeComprehensive, ModeComplicated:
		return true
	default:
		return false
	}
}

// WireMode returns the mode actually transmitted to the server. The
// complicated alias is permanently rewritten to comprehensive on the wire;
// the originally requested mode is retained separately for reporting.
func (m Mode) WireMode() Mode {
	if m == ModeComplicated {
		return ModeComprehensive
	}
	return m
}

// Request is the immutable outbound request value produced by Build.
type Request struct {
	RequestedMode Mode
	WireMode      Mode
	// Document is the disclaimer followed by the caller's text, verbatim.
	Document string
}

// Status is the outcome of an analysis call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the canonical output contract consumed by the orchestration
// layer. Exactly one of AnalysisText or ErrorMessage is populated,
// matching Status.
type Result struct {
	RequestedMode   Mode   `json:"requested_mode"`
	TransmittedMode Mode   `json:"transmitted_mode"`
	Status          Status `json:"status"`
	AnalysisText    string `json:"analysis_text,omitempty"`
	TokensUsed      int    `json:"tokens_used,omitempty"`
	ErrorMessage    string `json:"error_message,omitempty"`
	SourceEndpoint  string `json:"source_endpoint,omitempty"`
	ServerURL       string `json:"server_url,omitempty"`
	Recommendation  string `json:"recommendation,omitempty"`
}

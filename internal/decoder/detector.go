package decoder

import "strings"

// FramingDetector detects the wire framing of upstream response bodies.
type FramingDetector struct{}

// NewFramingDetector creates a new FramingDetector instance.
func NewFramingDetector() *FramingDetector {
	return &FramingDetector{}
}

// Detect classifies a response body as SSE-framed or bare JSON.
// A body is SSE-framed when it contains an "event:" field anywhere or when
// its first character is ':' (an SSE comment/ping line). Everything else is
// handed to the JSON parser directly.
func (d *FramingDetector) Detect(body string) Framing {
	if strings.Contains(body, "event:") || strings.HasPrefix(body, ":") {
		return FramingSSE
	}
	return FramingJSON
}

// extractSSEData scans an SSE stream for the first data: line and returns
// its payload with the prefix and surrounding whitespace stripped.
// Returns false when the stream has no data line at all.
func extractSSEData(body string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "data:")), true
		}
	}
	return "", false
}

// DefaultDetector is the default framing detector instance.
var DefaultDetector = NewFramingDetector()

// DetectFraming is a convenience function that uses the default detector.
func DetectFraming(body string) Framing {
	return DefaultDetector.Detect(body)
}

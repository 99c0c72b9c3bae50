package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IncludesEndpointWhenSet(t *testing.T) {
	err := Newf(ErrServerError, "status %d: %s", 503, "overloaded")
	assert.Equal(t, "server_error: status 503: overloaded", err.Error())

	annotated := err.At("http://mcp.example/mcp")
	assert.Equal(t, "server_error: status 503: overloaded (endpoint http://mcp.example/mcp)", annotated.Error())
	// At returns a copy; the original stays unannotated.
	assert.Empty(t, err.Endpoint)
}

func TestCodeOf_UnwrapsWrappedErrors(t *testing.T) {
	inner := New(ErrMalformedSSE, "no data in SSE response")
	wrapped := fmt.Errorf("attempt failed: %w", inner)

	assert.Equal(t, ErrMalformedSSE, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain")))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(New(ErrTimeout, "deadline elapsed")))
	assert.False(t, IsTimeout(New(ErrConnectionFailed, "refused")))
	assert.False(t, IsTimeout(nil))
}

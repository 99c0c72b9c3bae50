// Package transport performs the network round-trip for one endpoint
// attempt. It is the only part of the client that does I/O: the decoder
// above it consumes status, headers, and body and never blocks.
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"

	"med-mcp/internal/decoder"
	app_errors "med-mcp/internal/errors"
)

// Transport executes one HTTP POST and returns the raw response, or a
// typed transport error distinguishing a timeout from a connection failure.
type Transport interface {
	Post(ctx context.Context, url string, header http.Header, body []byte) (*decoder.RawResponse, error)
}

// HTTPTransport is the production Transport backed by net/http.
type HTTPTransport struct {
	client  *http.Client
	timeout time.Duration
}

// New creates an HTTPTransport with the given per-attempt timeout.
func New(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Post sends the body to url and reads the full response. The response
// body is decompressed according to Content-Encoding before it is handed
// to the decoder.
func (t *HTTPTransport) Post(ctx context.Context, url string, header http.Header, body []byte) (*decoder.RawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, app_errors.Newf(app_errors.ErrConnectionFailed, "invalid request for %s: %v", url, err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, t.classifyTransportError(url, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, t.classifyTransportError(url, err)
	}
	bodyBytes = decompressBody(resp.Header, bodyBytes)

	return &decoder.RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(bodyBytes),
	}, nil
}

// classifyTransportError maps a net/http failure onto the error taxonomy:
// deadline expiry is a timeout, everything else is a connection failure.
func (t *HTTPTransport) classifyTransportError(url string, err error) *app_errors.AnalysisError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return app_errors.Newf(app_errors.ErrTimeout,
			"request to %s timed out after %s", url, t.timeout)
	}
	return app_errors.Newf(app_errors.ErrConnectionFailed, "connection failed to %s: %v", url, err)
}

// decompressBody handles gzip and brotli encoded response bodies. On a
// decompression failure the original bytes are returned so the decoder can
// still surface a meaningful error excerpt.
func decompressBody(header http.Header, body []byte) []byte {
	switch strings.ToLower(header.Get("Content-Encoding")) {
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			logrus.Warnf("Failed to create gzip reader for response body: %v", err)
			return body
		}
		defer reader.Close()
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			logrus.Warnf("Failed to decompress gzip response body: %v", err)
			return body
		}
		return decompressed
	case "br":
		decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			logrus.Warnf("Failed to decompress brotli response body: %v", err)
			return body
		}
		return decompressed
	default:
		return body
	}
}

package analysis

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"med-mcp/internal/config"
	"med-mcp/internal/decoder"
	"med-mcp/internal/endpoint"
	app_errors "med-mcp/internal/errors"
	"med-mcp/internal/transport"
)

// Client submits clinical-document analysis requests to the remote
// specialist service. Each call owns its request/response lifecycle;
// the client itself holds no mutable state, so concurrent calls do not
// interfere with each other.
type Client struct {
	cfg       *config.Config
	transport transport.Transport
	logger    *logrus.Entry
}

// NewClient creates a Client. A nil transport selects the production HTTP
// transport bounded by the configured request timeout.
func NewClient(cfg *config.Config, t transport.Transport) *Client {
	if t == nil {
		t = transport.New(cfg.RequestTimeout)
	}
	return &Client{
		cfg:       cfg,
		transport: t,
		logger:    logrus.WithField("component", "analysis_client"),
	}
}

// Analyze runs one logical analysis call: build the request, try each
// resolved endpoint strictly in order, stop at the first success. Every
// per-endpoint failure is recorded as the last error and the loop
// advances; only after all endpoints are exhausted does the call fail.
//
// The returned Result is always well-formed, including on total failure.
// The error is non-nil only for the two terminal outcomes, invalid input
// and all-endpoints-exhausted.
func (c *Client) Analyze(ctx context.Context, documentText string, mode Mode) (*Result, error) {
	req, err := Build(documentText, mode)
	if err != nil {
		return normalizeInvalidInput(mode, err), err
	}

	log := c.logger.WithFields(logrus.Fields{
		"call_id":       uuid.NewString(),
		"analysis_type": req.RequestedMode,
		"wire_type":     req.WireMode,
	})
	log.WithField("document_chars", len(req.Document)).Debug("Starting analysis call")

	header := c.buildHeader()
	endpoints := endpoint.Resolve(c.cfg)

	var lastErr *app_errors.AnalysisError
	for _, ep := range endpoints {
		result, attemptErr := c.attempt(ctx, log, req, ep, header)
		if attemptErr == nil {
			log.WithField("endpoint", ep.URL).Debug("Analysis call succeeded")
			return result, nil
		}
		lastErr = attemptErr
		log.WithFields(logrus.Fields{
			"endpoint": ep.URL,
			"kind":     ep.Kind.String(),
			"code":     attemptErr.Code,
		}).Warn("Endpoint attempt failed, advancing to next candidate")
	}

	aggregate := app_errors.Newf(app_errors.ErrAllEndpointsExhausted,
		"all endpoints failed; last error: %s", lastErr.Error())
	return NormalizeExhausted(req, lastErr, c.cfg.ServerURL), aggregate
}

// attempt performs one endpoint round-trip: encode for the endpoint's
// kind, execute the transport call, decode, normalize. A non-nil error is
// always an AnalysisError annotated with the endpoint it occurred at.
func (c *Client) attempt(ctx context.Context, log *logrus.Entry, req *Request, ep endpoint.Endpoint, header http.Header) (*Result, *app_errors.AnalysisError) {
	body, err := req.EncodeFor(ep.Kind)
	if err != nil {
		return nil, app_errors.Newf(app_errors.ErrInvalidInput, "encode request: %v", err).At(ep.URL)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	raw, err := c.transport.Post(attemptCtx, ep.URL, header, body)
	if err != nil {
		return nil, asAnalysisError(err, ep.URL)
	}
	log.WithFields(logrus.Fields{
		"endpoint":   ep.URL,
		"status":     raw.StatusCode,
		"body_bytes": len(raw.Body),
	}).Debug("Received response")

	payload, err := decoder.Decode(raw)
	if err != nil {
		return nil, asAnalysisError(err, ep.URL)
	}
	log.WithFields(logrus.Fields{
		"framing":      payload.Framing.String(),
		"payload_kind": payload.Kind.String(),
		"tokens_used":  payload.TokensUsed,
	}).Debug("Decoded response payload")

	return Normalize(req, payload, ep), nil
}

// buildHeader assembles the outbound headers once per call. The Accept
// header advertises both JSON and SSE because the server may answer with
// either framing.
func (c *Client) buildHeader() http.Header {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json, text/event-stream")
	if c.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	return header
}

// asAnalysisError coerces err into an endpoint-annotated AnalysisError.
func asAnalysisError(err error, endpointURL string) *app_errors.AnalysisError {
	var ae *app_errors.AnalysisError
	if errors.As(err, &ae) {
		if ae.Endpoint == "" {
			return ae.At(endpointURL)
		}
		return ae
	}
	return app_errors.Newf(app_errors.ErrConnectionFailed, "%v", err).At(endpointURL)
}

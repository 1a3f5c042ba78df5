// Package inference is the client for the remote model analysis backend.
// Every call is a single JSON POST whose response is a {data} or {error}
// envelope.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"raidash/domain/core"
	"raidash/internal"
	"raidash/internal/metrics"
	"raidash/ports"
)

// Client posts payloads to a fixed set of endpoints under one base address.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *internal.Logger
	metrics    *metrics.Registry
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *internal.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records call outcomes on the registry
func WithMetrics(m *metrics.Registry) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client for the backend at baseURL. The default HTTP client
// sets no timeout; callers bound calls with their context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		logger:     internal.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Invoke serializes payload, posts it to the endpoint and returns the
// envelope's data verbatim. Data is JSON null when the envelope has none.
// Endpoints outside ports.Endpoints fail with core.ErrUnknownEndpoint
// before any request is made.
func (c *Client) Invoke(ctx context.Context, payload interface{}, endpoint ports.Endpoint) (json.RawMessage, error) {
	endpoint, err := ports.ParseEndpoint(string(endpoint))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := c.invoke(ctx, payload, endpoint)

	outcome := metrics.OutcomeOK
	switch {
	case IsServiceError(err):
		outcome = metrics.OutcomeServiceError
	case err != nil:
		outcome = metrics.OutcomeTransportError
	}
	c.metrics.ObserveInference(string(endpoint), outcome, time.Since(start))
	if err != nil {
		c.logger.Warn("inference %s failed: %v", endpoint.Path(), err)
	} else {
		c.logger.Debug("inference %s ok in %s", endpoint.Path(), time.Since(start))
	}
	return data, err
}

func (c *Client) invoke(ctx context.Context, payload interface{}, endpoint ports.Endpoint) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint.Path(), bytes.NewReader(raw))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	requestID, ok := core.RequestIDFromContext(ctx)
	if !ok {
		requestID = core.NewRequestID()
	}
	httpReq.Header.Set(core.RequestIDHeader, requestID.String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: statusText(resp)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Cause: fmt.Errorf("read response: %w", err)}
	}
	if !gjson.ValidBytes(body) {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Cause: ErrMalformedBody}
	}

	data, message, ok := decodeEnvelope(body)
	if !ok {
		return nil, &ServiceError{Endpoint: endpoint, Message: message}
	}
	return data, nil
}

// statusText is the reason phrase of the response status line, falling
// back to the standard text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

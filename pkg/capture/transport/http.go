package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	captureerrors "github.com/randalmurphal/capture/pkg/capture/errors"
	"github.com/randalmurphal/capture/pkg/capture/event"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPTransport delivers batches as a JSON array POSTed to the ingestion
// endpoint. The array preserves batch order; the project token is sent in
// the Authorization header.
type HTTPTransport struct {
	client  *http.Client
	timeout time.Duration
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithRequestTimeout bounds each delivery request.
// Default: 30s. The caller's context can impose a tighter bound.
func WithRequestTimeout(d time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// NewHTTPTransport creates an HTTP transport with the given options.
func NewHTTPTransport(opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		client:  &http.Client{},
		timeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Deliver implements Transport.
func (t *HTTPTransport) Deliver(ctx context.Context, batch []event.Event, token, endpoint string) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		// A batch that cannot be encoded can never succeed.
		return captureerrors.Permanent(fmt.Errorf("encode batch: %w", err), "deliver")
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return captureerrors.Permanent(fmt.Errorf("build request: %w", err), "deliver")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.client.Do(req)
	if err != nil {
		return &captureerrors.DeliveryError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &captureerrors.DeliveryError{StatusCode: resp.StatusCode, Endpoint: endpoint}
}

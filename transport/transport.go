// Package transport implements the pipeline's HTTP transport collaborator
// contract (spec.md §6): execute(request, timeout, logger) -> response,
// surfacing a distinct retryable error class for connection/timeout
// failures.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/alexander-sdk/core/awserr"
	"github.com/rs/zerolog"
)

// Request is the wire-level request the client pipeline dispatches, after
// encoding, endpoint resolution, and signing have all completed.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
}

// Response is the wire-level response handed back to the pipeline for
// inbound middleware and decoding.
type Response struct {
	StatusCode int
	Headers    map[string][]string
	Body       []byte
}

// Transport is the collaborator contract every request dispatches
// through (spec.md §6 "Transport collaborator contract").
type Transport interface {
	Execute(ctx context.Context, req Request, timeout time.Duration, logger zerolog.Logger) (*Response, error)
}

// Default is the net/http-backed Transport implementation the Client uses
// when none is configured.
type Default struct {
	Client *http.Client
}

// NewDefault builds a Default transport with a dedicated *http.Client so
// connection pooling is scoped to this SDK client, not shared globally.
func NewDefault() *Default {
	return &Default{Client: &http.Client{}}
}

func (d *Default) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

// Execute performs one HTTP round trip, applying timeout as a
// per-request deadline on ctx. Connection reset, DNS, TLS, and timeout
// failures are wrapped in *awserr.TransportError so retry.IsRetryableError
// classifies them as retryable.
func (d *Default) Execute(ctx context.Context, req Request, timeout time.Duration, logger zerolog.Logger) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, req.Body)
	if err != nil {
		return nil, &awserr.ClientError{Kind: awserr.KindInvalidURL, Message: req.URL, Cause: err}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	logger.Debug().Str("method", req.Method).Str("url", req.URL).Msg("dispatching request")

	resp, err := d.client().Do(httpReq)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, &awserr.ClientError{Kind: awserr.KindCancelled, Message: "request cancelled", Cause: err}
		}
		return nil, &awserr.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &awserr.TransportError{Cause: err}
	}

	logger.Debug().Int("status", resp.StatusCode).Msg("received response")

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// Package client implements the request execution pipeline (spec.md
// §4.6): Operation dispatch through encode -> middleware -> sign -> send
// -> decode, with endpoint resolution, retry, timeout, and cancellation.
package client

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"time"

	"github.com/alexander-sdk/core/aws"
	"github.com/alexander-sdk/core/awserr"
	"github.com/alexander-sdk/core/endpoints"
	"github.com/alexander-sdk/core/middleware"
	"github.com/alexander-sdk/core/protocol"
	"github.com/alexander-sdk/core/retry"
	v4 "github.com/alexander-sdk/core/signer/v4"
	"github.com/alexander-sdk/core/transport"
	"github.com/rs/zerolog"
)

// Operation describes one API call shape (spec.md §3 "Operation"): name,
// HTTP method, path template, optional host-prefix template, and whether
// the call requires SigV4 signing.
type Operation struct {
	Name               string
	HTTPMethod         string
	PathTemplate       string
	HostPrefixTemplate string
	RequiresSigning    bool

	// TargetPrefix is the X-Amz-Target header prefix for JSON-protocol
	// services, e.g. "DynamoDB_20120810" (spec.md §4.6 step 3).
	TargetPrefix string
}

// Client is the shared collaborator every generated service method calls
// Execute against (spec.md §5: "The client owns exactly one HTTP
// transport, safely shared across all concurrent requests").
type Client struct {
	Transport   transport.Transport
	Credentials aws.CredentialsProvider
	Retryer     retry.Policy
	Logger      zerolog.Logger

	// Metrics, if set, receives a RetryCount increment for every retried
	// attempt. RequestsTotal and RequestDuration of the same bundle are
	// recorded by middleware.MetricsMiddleware when it is registered in
	// the service's Middlewares, not by Execute itself.
	Metrics *middleware.Metrics
}

// New builds a Client. A nil Transport defaults to transport.NewDefault();
// a nil Retryer defaults to retry.DefaultJitter() (spec.md §4.6 "default").
func New(tr transport.Transport, creds aws.CredentialsProvider, retryer retry.Policy, logger zerolog.Logger) *Client {
	if tr == nil {
		tr = transport.NewDefault()
	}
	if retryer == nil {
		retryer = retry.DefaultJitter()
	}
	return &Client{Transport: tr, Credentials: creds, Retryer: retryer, Logger: logger}
}

// Execute runs the full pipeline for op against svc, encoding input (if
// it implements protocol.Encoder), dispatching with retry, and decoding
// into output (if it implements protocol.Decoder) on a 2xx response
// (spec.md §4.6 steps 1-10).
func (c *Client) Execute(ctx context.Context, op Operation, input any, output any, svc endpoints.ServiceConfig) error {
	logger := c.Logger.With().Str("service", svc.ServiceID).Str("operation", op.Name).Logger()

	// Step 1: encode.
	container := protocol.NewContainer()
	container.PathTemplate = op.PathTemplate
	container.HostPrefix = op.HostPrefixTemplate
	if enc, ok := input.(protocol.Encoder); ok {
		if err := enc.Encode(container); err != nil {
			return &awserr.ClientError{Kind: awserr.KindInvalidRequestEncoding, Message: op.Name, Cause: err}
		}
	}

	// Step 2: resolve endpoint, build the URL.
	rawURL, err := buildURL(svc, container)
	if err != nil {
		return &awserr.ClientError{Kind: awserr.KindInvalidURL, Message: rawURL, Cause: err}
	}

	// Step 3: default headers, protocol-dependent.
	headers := defaultHeaders(svc, op, container)
	for k, v := range container.Headers {
		headers[k] = v
	}

	timeout := svc.Timeout
	if timeout <= 0 {
		timeout = aws.DefaultOperationTimeout
	}

	retryer := c.Retryer
	if retryer == nil {
		retryer = retry.NoRetry{}
	}
	deadline := time.Now().Add(maxElapsed(retryer, timeout))

	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &awserr.ClientError{Kind: awserr.KindCancelled, Message: "operation cancelled", Cause: ctxErr}
		}

		attemptHeaders := cloneHeaders(headers)
		attemptHeaders["Amz-Sdk-Request"] = "attempt=" + strconv.Itoa(attempt)
		req := transport.Request{Method: op.HTTPMethod, URL: rawURL, Headers: attemptHeaders, Body: bodyReader(container.Body)}
		mwCtx := middleware.Context{ServiceID: svc.ServiceID, OperationID: op.Name, Region: string(svc.Region), Attrs: map[string]any{}}

		// Step 4: outbound middleware.
		for _, m := range svc.Middlewares {
			if m.OnRequest == nil {
				continue
			}
			req, err = m.OnRequest(req, mwCtx)
			if err != nil {
				return err
			}
		}

		// Step 5: resolve credentials and sign. Re-run on every retry
		// (spec.md §4.6 step 10: "credentials may have rotated; date/
		// signature changes"). Signing is always the last outbound step
		// (spec.md §9 Open Question (b)), so it must hash whatever body
		// outbound middleware leaves on req, not the pre-middleware
		// encoded body: S3Middleware's CreateBucket location-constraint
		// injection replaces req.Body after step 4, and the signature has
		// to match what actually goes on the wire.
		if op.RequiresSigning {
			signingBody, drainErr := drainBody(&req)
			if drainErr != nil {
				return &awserr.ClientError{Kind: awserr.KindInvalidRequestEncoding, Message: "reading request body for signing", Cause: drainErr}
			}
			req, err = c.sign(ctx, req, signingBody, svc)
			if err != nil {
				return err
			}
		}

		// Step 6: dispatch.
		resp, execErr := c.Transport.Execute(ctx, req, timeout, logger)
		if execErr != nil {
			decision := retryer.Decide(attempt, execErr, 0)
			if !decision.Retry || exceedsDeadline(deadline, decision.After) {
				return execErr
			}
			logger.Debug().Err(execErr).Int("attempt", attempt).Dur("delay", decision.After).Msg("retrying after transport error")
			c.recordRetry(svc, op)
			if !sleep(ctx, decision.After) {
				return &awserr.ClientError{Kind: awserr.KindCancelled, Message: "operation cancelled during retry backoff", Cause: ctx.Err()}
			}
			continue
		}

		// Step 7: inbound middleware, reverse order.
		for i := len(svc.Middlewares) - 1; i >= 0; i-- {
			m := svc.Middlewares[i]
			if m.OnResponse == nil {
				continue
			}
			resp, err = m.OnResponse(resp, mwCtx)
			if err != nil {
				return err
			}
		}

		// Step 8: decode a 2xx response.
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if dec, ok := output.(protocol.Decoder); ok {
				return dec.Decode(protocol.DecodeSource{StatusCode: resp.StatusCode, Headers: resp.Headers, Body: resp.Body})
			}
			return nil
		}

		// Step 9: classify the error.
		classified := classifyError(resp, svc)

		// Step 10: retry.
		decision := retryer.Decide(attempt, nil, resp.StatusCode)
		if !decision.Retry || exceedsDeadline(deadline, decision.After) {
			return classified
		}
		logger.Debug().Int("status", resp.StatusCode).Int("attempt", attempt).Dur("delay", decision.After).Msg("retrying after error response")
		c.recordRetry(svc, op)
		if !sleep(ctx, decision.After) {
			return &awserr.ClientError{Kind: awserr.KindCancelled, Message: "operation cancelled during retry backoff", Cause: ctx.Err()}
		}
	}
}

// sign resolves credentials (awaiting the provider if needed; spec.md
// §4.6 step 5) and signs req's headers with a fresh v4.Signer for svc's
// signing name and region.
func (c *Client) sign(ctx context.Context, req transport.Request, body []byte, svc endpoints.ServiceConfig) (transport.Request, error) {
	if c.Credentials == nil {
		return req, &awserr.ClientError{Kind: awserr.KindCredentialRetrievalError, Message: "no credentials provider configured"}
	}
	cred, err := c.Credentials.Retrieve(ctx)
	if err != nil {
		return req, &awserr.ClientError{Kind: awserr.KindCredentialRetrievalError, Message: "resolving credentials", Cause: err}
	}
	signer := v4.New(cred, svc.SigningName, string(svc.Region))
	signed, err := signer.SignHTTP(req.URL, req.Method, req.Headers, body, time.Now(), v4.Options{})
	if err != nil {
		return req, &awserr.ClientError{Kind: awserr.KindSigningFailure, Message: "signing request", Cause: err}
	}
	req.Headers = signed
	return req, nil
}

// recordRetry increments the retry counter when Metrics is configured.
func (c *Client) recordRetry(svc endpoints.ServiceConfig, op Operation) {
	if c.Metrics == nil {
		return
	}
	c.Metrics.RetryCount.WithLabelValues(svc.ServiceID, op.Name).Inc()
}

// maxElapsed bounds total retry time at retryer.MaxAttempts() times
// (per-attempt timeout + 30s), a conservative cap so a misbehaving retryer can't retry
// forever (spec.md §4.6 step 10: "Cap total elapsed time at max_wait_time").
func maxElapsed(retryer retry.Policy, perAttemptTimeout time.Duration) time.Duration {
	attempts := retryer.MaxAttempts()
	if attempts <= 0 {
		attempts = 1
	}
	return time.Duration(attempts) * (perAttemptTimeout + 30*time.Second)
}

func exceedsDeadline(deadline time.Time, delay time.Duration) bool {
	return time.Now().Add(delay).After(deadline)
}

// sleep waits for d, honoring ctx cancellation. Returns false if ctx was
// cancelled first (spec.md §5: "no retry is attempted after cancellation").
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// drainBody reads req.Body fully (if any) so its bytes can be hashed for
// signing, then rewinds req.Body to a fresh reader over those same bytes
// so dispatch still sees the full body.
func drainBody(req *transport.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = bytes.NewReader(data)
	return data, nil
}

func cloneHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package aws

import (
	"context"
	"net/http"
	"time"
)

// CredentialsProvider is the capability every credential provider exposes:
// resolve a Credential, or fail. Defined here (rather than in package
// credentials) so that both credentials and client can depend on it
// without an import cycle; package credentials re-exports it as
// credentials.Provider for callers that only ever import that package.
type CredentialsProvider interface {
	Retrieve(ctx context.Context) (Credential, error)
}

// HTTPClient is the transport collaborator contract (spec.md §6): given a
// built *http.Request, execute it and return the raw response. The
// default implementation wraps net/http; tests substitute a fake.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Retryer decides whether a failed attempt should be retried and, if so,
// after how long, kept here so generated service clients can depend on
// a narrow interface without importing the retry package. It is a
// separate contract from retry.Policy (Decide/MaxAttempts), which
// client.Client uses and which does not implement Retryer.
type Retryer interface {
	IsErrorRetryable(err error, statusCode int) bool
	RetryDelay(attempt int, err error, statusCode int) (time.Duration, bool)
	MaxAttempts() int
}

// Config is the set of knobs a Client needs that aren't per-request: the
// credential provider, region, retryer, HTTP transport, and timeout. It
// plays the role aws.Config plays in aws-sdk-go-v2 — a value every
// generated service client's constructor takes by value.
type Config struct {
	Region              Region
	Credentials         CredentialsProvider
	Retryer             Retryer
	HTTPClient          HTTPClient
	OperationTimeout    time.Duration
	DisableSSL          bool
}

// DefaultOperationTimeout is the wall-clock timeout applied to an
// operation when Config.OperationTimeout is zero (spec.md §5: "default 20s").
const DefaultOperationTimeout = 20 * time.Second

// Timeout returns the configured operation timeout, falling back to
// DefaultOperationTimeout when unset.
func (c Config) Timeout() time.Duration {
	if c.OperationTimeout <= 0 {
		return DefaultOperationTimeout
	}
	return c.OperationTimeout
}

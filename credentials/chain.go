package credentials

import (
	"context"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
)

// Chain tries each provider in order and returns the first successful
// credential, short-circuiting on success. If every provider fails, the
// last error is returned (spec.md §4.3, §8: "Chain provider returns the
// first successful credential; returns the last error iff all fail").
type Chain struct {
	providers []Provider
}

// NewChain builds a Chain over providers, tried in the given order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// WithProviders returns a new Chain with additional providers appended
// (spec.md doesn't forbid extending the default chain — this mirrors
// standard aws-sdk-go-v2 behavior so generated service clients can layer
// on custom providers).
func (c *Chain) WithProviders(providers ...Provider) *Chain {
	combined := make([]Provider, 0, len(c.providers)+len(providers))
	combined = append(combined, c.providers...)
	combined = append(combined, providers...)
	return &Chain{providers: combined}
}

// Retrieve tries each provider in order.
func (c *Chain) Retrieve(ctx context.Context, logger zerolog.Logger) (aws.Credential, error) {
	var lastErr error
	for _, p := range c.providers {
		cred, err := p.Retrieve(ctx, logger)
		if err == nil {
			return cred, nil
		}
		lastErr = err
		logger.Debug().Err(err).Msg("credential provider in chain failed, trying next")
	}
	if lastErr == nil {
		lastErr = &NoCredentialsError{}
	}
	return aws.Credential{}, lastErr
}

// DefaultChain returns the standard provider order (spec.md §4.3):
// Environment → SharedConfigFile("default") → EcsContainer (if env set) →
// Ec2ImdsV2 → Null. Callers assemble the ECS/IMDS providers themselves
// (in awsconfig.LoadDefaultConfig) since those carry their own transport
// dependencies; this helper exists for callers that already have all the
// providers constructed.
func DefaultChain(providers ...Provider) *Chain {
	all := append(providers, Null{})
	return NewChain(all...)
}

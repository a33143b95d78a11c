// Package credentials implements the credential provider chain (spec.md
// §3, §4.3): the Provider capability, the ExpiringValue refresh-coalescing
// cell, and the Chain/Rotating/Deferred/Static/Null provider variants.
// The concrete external providers (IMDS, ECS, STS, SSO) live in their own
// sibling packages so each can carry its own transport dependencies
// without bloating this package's import graph.
package credentials

import (
	"context"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
)

// Provider is the single-capability credential source contract (spec.md
// §3: "get_credential(logger) → Credential|Error"). It is the same shape
// as aws.CredentialsProvider; Provider additionally threads a logger,
// which every built-in provider in this module uses for resolution
// tracing the way the teacher threads a zerolog.Logger through its
// service-layer constructors.
type Provider interface {
	Retrieve(ctx context.Context, logger zerolog.Logger) (aws.Credential, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, logger zerolog.Logger) (aws.Credential, error)

// Retrieve calls f.
func (f ProviderFunc) Retrieve(ctx context.Context, logger zerolog.Logger) (aws.Credential, error) {
	return f(ctx, logger)
}

// asAWSProvider adapts a Provider to aws.CredentialsProvider for callers
// (the signer, the client pipeline) that don't need logging.
type asAWSProvider struct {
	p      Provider
	logger zerolog.Logger
}

func (a asAWSProvider) Retrieve(ctx context.Context) (aws.Credential, error) {
	return a.p.Retrieve(ctx, a.logger)
}

// AsAWSProvider adapts p to aws.CredentialsProvider, binding it to logger.
func AsAWSProvider(p Provider, logger zerolog.Logger) aws.CredentialsProvider {
	return asAWSProvider{p: p, logger: logger}
}

package credentials

import (
	"context"
	"os"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
)

// Environment resolves credentials from AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY and (optionally) AWS_SESSION_TOKEN (spec.md §4.3).
// The resolved credential never expires.
type Environment struct{}

// NewEnvironment returns an Environment provider.
func NewEnvironment() *Environment { return &Environment{} }

// Retrieve reads the three AWS_* environment variables.
func (Environment) Retrieve(_ context.Context, logger zerolog.Logger) (aws.Credential, error) {
	accessKeyID := os.Getenv("AWS_ACCESS_KEY_ID")
	secretAccessKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	var missing []string
	if accessKeyID == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if secretAccessKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if len(missing) > 0 {
		logger.Debug().Strs("missing", missing).Msg("environment credential provider: missing variables")
		return aws.Credential{}, &MissingEnvironmentError{Missing: missing}
	}

	logger.Debug().Str("provider", "environment").Msg("resolved credential")
	return aws.Credential{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
	}, nil
}

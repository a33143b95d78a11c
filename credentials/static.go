package credentials

import (
	"context"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
)

// Static always returns the same fixed credential. It never expires and
// never fails.
type Static struct {
	Value aws.Credential
}

// NewStatic wraps a fixed credential as a Provider.
func NewStatic(accessKeyID, secretAccessKey, sessionToken string) *Static {
	return &Static{Value: aws.Credential{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    sessionToken,
	}}
}

// Retrieve returns the fixed credential.
func (s *Static) Retrieve(_ context.Context, _ zerolog.Logger) (aws.Credential, error) {
	return s.Value, nil
}

// Null always fails to resolve a credential. It terminates a Chain when
// every real provider has been exhausted.
type Null struct{}

// Retrieve always fails.
func (Null) Retrieve(_ context.Context, _ zerolog.Logger) (aws.Credential, error) {
	return aws.Credential{}, &NoCredentialsError{}
}

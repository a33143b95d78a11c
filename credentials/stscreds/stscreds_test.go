package stscreds

import (
	"context"
	"testing"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	cred aws.Credential
}

func (f fakeSource) Retrieve(_ context.Context, _ zerolog.Logger) (aws.Credential, error) {
	return f.cred, nil
}

func TestNew_BuildsProviderWithSource(t *testing.T) {
	source := fakeSource{cred: aws.Credential{AccessKeyID: "BASE", SecretAccessKey: "SECRET"}}
	p := New(source, "arn:aws:iam::123:role/x", "session", "us-east-1")

	assert.Equal(t, "arn:aws:iam::123:role/x", p.RoleARN)
	assert.Equal(t, "session", p.SessionName)
	assert.Equal(t, source, p.Source)
}

func TestRetrieve_PropagatesSourceError(t *testing.T) {
	errSource := credentialsErrorProvider{}
	p := New(errSource, "arn:aws:iam::123:role/x", "session", "us-east-1")

	_, err := p.Retrieve(context.Background(), zerolog.Nop())
	require.Error(t, err)
}

type credentialsErrorProvider struct{}

func (credentialsErrorProvider) Retrieve(_ context.Context, _ zerolog.Logger) (aws.Credential, error) {
	return aws.Credential{}, assert.AnError
}

package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	cred aws.Credential
	err  error
}

func (f fakeProvider) Retrieve(_ context.Context, _ zerolog.Logger) (aws.Credential, error) {
	return f.cred, f.err
}

func TestChain_ReturnsFirstSuccess(t *testing.T) {
	errA := errors.New("provider A failed")
	c := NewChain(
		fakeProvider{err: errA},
		fakeProvider{cred: aws.Credential{AccessKeyID: "B"}},
		fakeProvider{cred: aws.Credential{AccessKeyID: "C"}},
	)

	cred, err := c.Retrieve(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "B", cred.AccessKeyID)
}

func TestChain_ReturnsLastErrorWhenAllFail(t *testing.T) {
	errA := errors.New("A failed")
	errB := errors.New("B failed")
	c := NewChain(
		fakeProvider{err: errA},
		fakeProvider{err: errB},
	)

	_, err := c.Retrieve(context.Background(), zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, errB, err)
}

func TestChain_WithProvidersExtends(t *testing.T) {
	c := NewChain(fakeProvider{err: errors.New("nope")})
	extended := c.WithProviders(fakeProvider{cred: aws.Credential{AccessKeyID: "X"}})

	cred, err := extended.Retrieve(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "X", cred.AccessKeyID)
}

func TestNull_AlwaysFails(t *testing.T) {
	_, err := Null{}.Retrieve(context.Background(), zerolog.Nop())
	require.Error(t, err)
}

func TestStatic_ReturnsFixedCredential(t *testing.T) {
	s := NewStatic("AKID", "SECRET", "")
	cred, err := s.Retrieve(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "AKID", cred.AccessKeyID)
	assert.False(t, cred.HasExpiration())
}

package credentials

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironment_ResolvesFromVars(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	t.Setenv("AWS_SESSION_TOKEN", "TOKEN")

	cred, err := NewEnvironment().Retrieve(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "AKID", cred.AccessKeyID)
	assert.Equal(t, "SECRET", cred.SecretAccessKey)
	assert.Equal(t, "TOKEN", cred.SessionToken)
	assert.False(t, cred.HasExpiration())
}

func TestEnvironment_MissingVariables(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	_, err := NewEnvironment().Retrieve(context.Background(), zerolog.Nop())
	require.Error(t, err)
	var missingErr *MissingEnvironmentError
	require.ErrorAs(t, err, &missingErr)
	assert.Contains(t, missingErr.Missing, "AWS_ACCESS_KEY_ID")
	assert.Contains(t, missingErr.Missing, "AWS_SECRET_ACCESS_KEY")
}

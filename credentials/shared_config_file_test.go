package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "file.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestSharedConfigFile_ResolvesFromCredentialsFile(t *testing.T) {
	credsPath := writeTempFile(t, "[default]\naws_access_key_id = AKID\naws_secret_access_key = SECRET\n")
	configPath := writeTempFile(t, "[default]\nregion = us-east-1\n")

	p := &SharedConfigFile{Profile: "default", CredentialsPath: credsPath, ConfigPath: configPath}
	cred, err := p.Retrieve(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "AKID", cred.AccessKeyID)
	assert.Equal(t, "SECRET", cred.SecretAccessKey)
}

func TestSharedConfigFile_FallsBackToConfigFileWithProfilePrefix(t *testing.T) {
	credsPath := writeTempFile(t, "[default]\naws_access_key_id = X\naws_secret_access_key = Y\n")
	configPath := writeTempFile(t, "[profile dev]\naws_access_key_id = DEVKEY\naws_secret_access_key = DEVSECRET\n")

	p := &SharedConfigFile{Profile: "dev", CredentialsPath: credsPath, ConfigPath: configPath}
	cred, err := p.Retrieve(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "DEVKEY", cred.AccessKeyID)
}

func TestSharedConfigFile_MissingProfile(t *testing.T) {
	credsPath := writeTempFile(t, "[default]\naws_access_key_id = X\naws_secret_access_key = Y\n")
	configPath := writeTempFile(t, "[default]\nregion = us-east-1\n")

	p := &SharedConfigFile{Profile: "ghost", CredentialsPath: credsPath, ConfigPath: configPath}
	_, err := p.Retrieve(context.Background(), zerolog.Nop())
	require.Error(t, err)
	var missingErr *MissingProfileError
	assert.ErrorAs(t, err, &missingErr)
}

func TestSharedConfigFile_SourceProfileChaining(t *testing.T) {
	credsPath := writeTempFile(t, ""+
		"[base]\naws_access_key_id = BASEKEY\naws_secret_access_key = BASESECRET\n\n"+
		"[assumer]\nsource_profile = base\nrole_arn = arn:aws:iam::123:role/x\n")
	configPath := writeTempFile(t, "")

	p := &SharedConfigFile{Profile: "assumer", CredentialsPath: credsPath, ConfigPath: configPath}
	cred, err := p.Retrieve(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "BASEKEY", cred.AccessKeyID)
}

func TestSharedConfigFile_MissingSecretAccessKey(t *testing.T) {
	credsPath := writeTempFile(t, "[default]\naws_access_key_id = AKID\n")
	configPath := writeTempFile(t, "")

	p := &SharedConfigFile{Profile: "default", CredentialsPath: credsPath, ConfigPath: configPath}
	_, err := p.Retrieve(context.Background(), zerolog.Nop())
	require.Error(t, err)
	var missingErr *MissingSecretAccessKeyError
	assert.ErrorAs(t, err, &missingErr)
}

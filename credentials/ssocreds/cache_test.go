package ssocreds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePath_IsSHA1HexOfCacheKey(t *testing.T) {
	path := CachePath("/home/user", "https://example.awsapps.com/start")
	// sha1("https://example.awsapps.com/start") = e8be5486177c5b5392bd9aa76563515b29358e6e
	assert.Contains(t, path, "e8be5486177c5b5392bd9aa76563515b29358e6e.json")
	assert.Contains(t, path, "/home/user/.aws/sso/cache/")
}

func TestSaveCacheThenLoadCache_RoundTrips(t *testing.T) {
	home := t.TempDir()
	entry := TokenCacheEntry{
		AccessToken:  "ACCESS",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
		RefreshToken: "REFRESH",
		ClientID:     "CID",
		ClientSecret: "CSECRET",
	}

	require.NoError(t, SaveCache(home, "session-key", entry))

	loaded, err := LoadCache(home, "session-key")
	require.NoError(t, err)
	assert.Equal(t, entry.AccessToken, loaded.AccessToken)
	assert.True(t, entry.ExpiresAt.Equal(loaded.ExpiresAt))
	assert.True(t, loaded.IsModern())
}

func TestLoadCache_MissingFile(t *testing.T) {
	_, err := LoadCache(t.TempDir(), "nothing-here")
	require.Error(t, err)
	var notFound *TokenCacheNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestTokenCacheEntry_RegistrationExpired(t *testing.T) {
	past := TokenCacheEntry{RegistrationExpiresAt: time.Now().Add(-time.Hour)}
	assert.True(t, past.RegistrationExpired(time.Now()))

	future := TokenCacheEntry{RegistrationExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, future.RegistrationExpired(time.Now()))

	unset := TokenCacheEntry{}
	assert.False(t, unset.RegistrationExpired(time.Now()))
}

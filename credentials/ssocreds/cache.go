// Package ssocreds implements the AWS IAM Identity Center (SSO) credential
// provider and its on-disk token cache (spec.md §3, §4.3).
package ssocreds

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TokenCacheEntry is the JSON shape persisted at
// <HOME>/.aws/sso/cache/<sha1_hex(cache_key)>.json (spec.md §3).
type TokenCacheEntry struct {
	AccessToken             string    `json:"accessToken"`
	ExpiresAt                time.Time `json:"expiresAt"`
	RefreshToken             string    `json:"refreshToken,omitempty"`
	ClientID                 string    `json:"clientId,omitempty"`
	ClientSecret             string    `json:"clientSecret,omitempty"`
	RegistrationExpiresAt    time.Time `json:"registrationExpiresAt,omitempty"`
	StartURL                 string    `json:"startUrl,omitempty"`
	Region                   string    `json:"region,omitempty"`
}

// IsModern reports whether this entry carries the modern sso-session
// refresh fields.
func (e TokenCacheEntry) IsModern() bool {
	return e.RefreshToken != "" && e.ClientID != "" && e.ClientSecret != ""
}

// RegistrationExpired reports whether client registration itself has
// expired (distinct from the access token's own expiry).
func (e TokenCacheEntry) RegistrationExpired(now time.Time) bool {
	return !e.RegistrationExpiresAt.IsZero() && !e.RegistrationExpiresAt.After(now)
}

// CachePath returns the token cache file path for cacheKey under home.
func CachePath(home, cacheKey string) string {
	sum := sha1.Sum([]byte(cacheKey))
	return filepath.Join(home, ".aws", "sso", "cache", hex.EncodeToString(sum[:])+".json")
}

// LoadCache reads and parses the token cache entry for cacheKey.
func LoadCache(home, cacheKey string) (TokenCacheEntry, error) {
	path := CachePath(home, cacheKey)
	data, err := os.ReadFile(path)
	if err != nil {
		return TokenCacheEntry{}, &TokenCacheNotFoundError{Path: path, Err: err}
	}
	var entry TokenCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return TokenCacheEntry{}, &InvalidTokenFormatError{Path: path, Err: err}
	}
	return entry, nil
}

// SaveCache persists entry atomically (write to a temp file, then rename)
// with user-only permissions, per spec.md §5 ("written with user-only mode
// 0o600, create-then-replace to be crash-safe").
func SaveCache(home, cacheKey string, entry TokenCacheEntry) error {
	path := CachePath(home, cacheKey)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	tmp := path + fmt.Sprintf(".tmp-%d", time.Now().UnixNano())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

package ssocreds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
)

// RefreshWindow is how far ahead of expiry the provider proactively
// refreshes the access token (spec.md §4.3: "15 minutes").
const RefreshWindow = 15 * time.Minute

// Config names the SSO session to resolve credentials for.
type Config struct {
	// CacheKey is the sso-session name (modern) or the sso_start_url
	// (legacy) — whichever the caller's profile resolution determined.
	CacheKey string

	SSORegion string
	AccountID string
	RoleName  string

	// Home overrides the user's home directory (for testing); empty
	// means use os.UserHomeDir().
	Home string

	// OIDCEndpoint and PortalEndpoint override the default
	// oidc.<region>.amazonaws.com / portal.sso.<region>.amazonaws.com
	// hosts, for tests to point at a local server.
	OIDCEndpoint   string
	PortalEndpoint string

	Client *http.Client
}

// Provider resolves credentials from a cached SSO access token, via the
// federation/credentials role-exchange endpoint, refreshing the token
// first if it is a modern-format token nearing expiry.
type Provider struct {
	cfg Config
}

// New returns an SSO provider for cfg.
func New(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

type oidcTokenRequest struct {
	GrantType    string `json:"grantType"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RefreshToken string `json:"refreshToken"`
}

type oidcTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	RefreshToken string `json:"refreshToken"`
}

type federationCredentialsResponse struct {
	RoleCredentials struct {
		AccessKeyId     string
		SecretAccessKey string
		SessionToken    string
		Expiration      int64 // epoch milliseconds, per spec.md §4.3
	}
}

// Retrieve resolves the cached token (refreshing if needed) and exchanges
// it for role credentials via the SSO portal.
func (p *Provider) Retrieve(ctx context.Context, logger zerolog.Logger) (aws.Credential, error) {
	home, err := p.home()
	if err != nil {
		return aws.Credential{}, err
	}

	entry, err := LoadCache(home, p.cfg.CacheKey)
	if err != nil {
		return aws.Credential{}, err
	}

	now := time.Now()
	if now.Add(RefreshWindow).After(entry.ExpiresAt) {
		if entry.IsModern() && !entry.RegistrationExpired(now) {
			refreshed, err := p.refreshToken(ctx, entry)
			if err != nil {
				return aws.Credential{}, &TokenRefreshFailedError{Err: err}
			}
			entry = refreshed
			if err := SaveCache(home, p.cfg.CacheKey, entry); err != nil {
				logger.Debug().Err(err).Msg("ssocreds: failed to persist refreshed token cache")
			}
		} else if entry.IsModern() {
			return aws.Credential{}, &ClientRegistrationExpiredError{}
		} else if !entry.ExpiresAt.After(now) {
			return aws.Credential{}, &TokenExpiredError{}
		}
	}

	return p.getRoleCredentials(ctx, entry.AccessToken, logger)
}

// refreshToken exchanges entry's refresh token for a new access token via
// the SSO-OIDC /token endpoint (spec.md §4.3 seed scenario 4).
func (p *Provider) refreshToken(ctx context.Context, entry TokenCacheEntry) (TokenCacheEntry, error) {
	reqBody, err := json.Marshal(oidcTokenRequest{
		GrantType:    "refresh_token",
		ClientID:     entry.ClientID,
		ClientSecret: entry.ClientSecret,
		RefreshToken: entry.RefreshToken,
	})
	if err != nil {
		return TokenCacheEntry{}, err
	}

	endpoint := p.oidcEndpoint() + "/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return TokenCacheEntry{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client().Do(req)
	if err != nil {
		return TokenCacheEntry{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenCacheEntry{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return TokenCacheEntry{}, fmt.Errorf("oidc token endpoint returned status %d: %s", resp.StatusCode, body)
	}

	var parsed oidcTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return TokenCacheEntry{}, err
	}

	updated := entry
	updated.AccessToken = parsed.AccessToken
	updated.ExpiresAt = time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second)
	if parsed.RefreshToken != "" {
		updated.RefreshToken = parsed.RefreshToken
	}
	return updated, nil
}

// getRoleCredentials exchanges accessToken for temporary role credentials
// via the SSO portal federation endpoint.
func (p *Provider) getRoleCredentials(ctx context.Context, accessToken string, logger zerolog.Logger) (aws.Credential, error) {
	endpoint := p.portalEndpoint() + "/federation/credentials"
	q := url.Values{}
	q.Set("account_id", p.cfg.AccountID)
	q.Set("role_name", p.cfg.RoleName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return aws.Credential{}, err
	}
	req.Header.Set("x-amz-sso_bearer_token", accessToken)

	resp, err := p.client().Do(req)
	if err != nil {
		return aws.Credential{}, &GetRoleCredentialsFailedError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return aws.Credential{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return aws.Credential{}, &GetRoleCredentialsFailedError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", body)}
	}

	var parsed federationCredentialsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return aws.Credential{}, &GetRoleCredentialsFailedError{Err: err}
	}

	logger.Debug().Str("account_id", p.cfg.AccountID).Str("role_name", p.cfg.RoleName).
		Msg("ssocreds: resolved role credentials")

	return aws.Credential{
		AccessKeyID:     parsed.RoleCredentials.AccessKeyId,
		SecretAccessKey: parsed.RoleCredentials.SecretAccessKey,
		SessionToken:    parsed.RoleCredentials.SessionToken,
		Expiration:      time.UnixMilli(parsed.RoleCredentials.Expiration),
	}, nil
}

func (p *Provider) home() (string, error) {
	if p.cfg.Home != "" {
		return p.cfg.Home, nil
	}
	return os.UserHomeDir()
}

func (p *Provider) client() *http.Client {
	if p.cfg.Client != nil {
		return p.cfg.Client
	}
	return http.DefaultClient
}

func (p *Provider) oidcEndpoint() string {
	if p.cfg.OIDCEndpoint != "" {
		return p.cfg.OIDCEndpoint
	}
	return fmt.Sprintf("https://oidc.%s.amazonaws.com", p.cfg.SSORegion)
}

func (p *Provider) portalEndpoint() string {
	if p.cfg.PortalEndpoint != "" {
		return p.cfg.PortalEndpoint
	}
	return fmt.Sprintf("https://portal.sso.%s.amazonaws.com", p.cfg.SSORegion)
}

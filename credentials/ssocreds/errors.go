package ssocreds

import "fmt"

// Error taxonomy per spec.md §4.3 "Error taxonomy for SSO".

type ConfigFileNotFoundError struct{ Err error }

func (e *ConfigFileNotFoundError) Error() string { return fmt.Sprintf("sso: config file not found: %v", e.Err) }
func (e *ConfigFileNotFoundError) Unwrap() error  { return e.Err }

type ProfileNotFoundError struct{ Profile string }

func (e *ProfileNotFoundError) Error() string { return fmt.Sprintf("sso: profile %q not found", e.Profile) }

type SSOConfigMissingError struct{ Profile string }

func (e *SSOConfigMissingError) Error() string {
	return fmt.Sprintf("sso: profile %q has no sso_start_url/sso_session configuration", e.Profile)
}

type SSOSessionNotFoundError struct{ Session string }

func (e *SSOSessionNotFoundError) Error() string {
	return fmt.Sprintf("sso: sso-session %q not found", e.Session)
}

type TokenCacheNotFoundError struct {
	Path string
	Err  error
}

func (e *TokenCacheNotFoundError) Error() string {
	return fmt.Sprintf("sso: token cache not found at %s: %v", e.Path, e.Err)
}
func (e *TokenCacheNotFoundError) Unwrap() error { return e.Err }

type TokenExpiredError struct{}

func (e *TokenExpiredError) Error() string { return "sso: access token expired and cannot be refreshed" }

type TokenRefreshFailedError struct{ Err error }

func (e *TokenRefreshFailedError) Error() string { return fmt.Sprintf("sso: token refresh failed: %v", e.Err) }
func (e *TokenRefreshFailedError) Unwrap() error  { return e.Err }

type ClientRegistrationExpiredError struct{}

func (e *ClientRegistrationExpiredError) Error() string {
	return "sso: client registration has expired; re-authenticate with the SSO login flow"
}

type InvalidTokenFormatError struct {
	Path string
	Err  error
}

func (e *InvalidTokenFormatError) Error() string {
	return fmt.Sprintf("sso: invalid token cache format at %s: %v", e.Path, e.Err)
}
func (e *InvalidTokenFormatError) Unwrap() error { return e.Err }

type GetRoleCredentialsFailedError struct {
	StatusCode int
	Err        error
}

func (e *GetRoleCredentialsFailedError) Error() string {
	return fmt.Sprintf("sso: GetRoleCredentials failed with status %d: %v", e.StatusCode, e.Err)
}
func (e *GetRoleCredentialsFailedError) Unwrap() error { return e.Err }

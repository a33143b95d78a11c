// Package imds implements the EC2 Instance Metadata Service credential
// provider, v1 and v2 (spec.md §4.3). v2 requires a session-token
// handshake; v1 falls back to a direct GET.
package imds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
)

const (
	// DefaultEndpoint is the well-known link-local IMDS address.
	DefaultEndpoint = "http://169.254.169.254"

	tokenPath          = "/latest/api/token"
	securityCredsPath  = "/latest/meta-data/iam/security-credentials/"
	tokenTTLHeader     = "X-aws-ec2-metadata-token-ttl-seconds"
	tokenHeader        = "X-aws-ec2-metadata-token"
	defaultTokenTTLSec = "21600"
)

// Version selects the IMDS protocol version to use.
type Version int

const (
	// V2 performs the token handshake (PUT /latest/api/token) before
	// reading credentials. This is the recommended, default version.
	V2 Version = iota
	// V1 reads credentials directly, with no token handshake.
	V1
)

// securityCredentialsResponse is the JSON shape IMDS returns for a role's
// security credentials.
type securityCredentialsResponse struct {
	Code            string
	AccessKeyId     string
	SecretAccessKey string
	Token           string
	Expiration      time.Time
}

// Provider resolves credentials from the EC2 instance metadata service.
type Provider struct {
	Endpoint string
	Version  Version
	Client   *http.Client
}

// New returns an IMDS provider using version v against the well-known
// link-local endpoint.
func New(v Version) *Provider {
	return &Provider{Endpoint: DefaultEndpoint, Version: v, Client: http.DefaultClient}
}

// Retrieve fetches the instance's role credentials. The returned
// credential is always expiring.
func (p *Provider) Retrieve(ctx context.Context, logger zerolog.Logger) (aws.Credential, error) {
	var token string
	if p.Version == V2 {
		var err error
		token, err = p.fetchToken(ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("imds: v2 token handshake failed, falling back to v1 semantics")
		}
	}

	role, err := p.getString(ctx, securityCredsPath, token)
	if err != nil {
		return aws.Credential{}, fmt.Errorf("imds: listing role: %w", err)
	}

	body, err := p.getString(ctx, securityCredsPath+role, token)
	if err != nil {
		return aws.Credential{}, fmt.Errorf("imds: fetching credentials for role %q: %w", role, err)
	}

	var resp securityCredentialsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return aws.Credential{}, fmt.Errorf("imds: decoding credentials: %w", err)
	}
	if resp.Code != "" && resp.Code != "Success" {
		return aws.Credential{}, fmt.Errorf("imds: role credential fetch returned code %q", resp.Code)
	}

	logger.Debug().Str("role", role).Msg("imds: resolved credential")
	return aws.Credential{
		AccessKeyID:     resp.AccessKeyId,
		SecretAccessKey: resp.SecretAccessKey,
		SessionToken:    resp.Token,
		Expiration:      resp.Expiration,
	}, nil
}

func (p *Provider) fetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, p.Endpoint+tokenPath, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set(tokenTTLHeader, defaultTokenTTLSec)

	resp, err := p.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("imds: token request returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (p *Provider) getString(ctx context.Context, path, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Endpoint+path, nil)
	if err != nil {
		return "", err
	}
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}

	resp, err := p.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("imds: GET %s returned status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (p *Provider) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return http.DefaultClient
}

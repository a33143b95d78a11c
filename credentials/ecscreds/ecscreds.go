// Package ecscreds implements the ECS container credentials provider
// (spec.md §4.3): reads AWS_CONTAINER_CREDENTIALS_RELATIVE_URI (preferred)
// or AWS_CONTAINER_CREDENTIALS_FULL_URI, with an optional auth token
// header, and parses the same JSON shape STS returns.
package ecscreds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
)

const (
	relativeURIEnvVar = "AWS_CONTAINER_CREDENTIALS_RELATIVE_URI"
	fullURIEnvVar     = "AWS_CONTAINER_CREDENTIALS_FULL_URI"
	authTokenEnvVar   = "AWS_CONTAINER_AUTHORIZATION_TOKEN"

	defaultHost = "http://169.254.170.2"
)

// credentialResponse is the JSON shape the ECS credentials endpoint
// returns.
type credentialResponse struct {
	AccessKeyId     string
	SecretAccessKey string
	Token           string
	Expiration      time.Time
}

// Provider resolves credentials from the ECS task metadata credentials
// endpoint.
type Provider struct {
	Client *http.Client
}

// New returns an ECS container credentials provider.
func New() *Provider {
	return &Provider{Client: http.DefaultClient}
}

// Available reports whether either of the ECS environment variables is
// set, which awsconfig uses to decide whether to include this provider in
// the default chain.
func Available() bool {
	return os.Getenv(relativeURIEnvVar) != "" || os.Getenv(fullURIEnvVar) != ""
}

// Retrieve fetches the task's container credentials.
func (p *Provider) Retrieve(ctx context.Context, logger zerolog.Logger) (aws.Credential, error) {
	url, authToken := p.resolveEndpoint()
	if url == "" {
		return aws.Credential{}, fmt.Errorf("ecscreds: neither %s nor %s is set", relativeURIEnvVar, fullURIEnvVar)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return aws.Credential{}, err
	}
	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return aws.Credential{}, fmt.Errorf("ecscreds: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return aws.Credential{}, fmt.Errorf("ecscreds: endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return aws.Credential{}, err
	}
	var parsed credentialResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return aws.Credential{}, fmt.Errorf("ecscreds: decoding response: %w", err)
	}

	logger.Debug().Msg("ecscreds: resolved credential")
	return aws.Credential{
		AccessKeyID:     parsed.AccessKeyId,
		SecretAccessKey: parsed.SecretAccessKey,
		SessionToken:    parsed.Token,
		Expiration:      parsed.Expiration,
	}, nil
}

// resolveEndpoint returns the full URL to call and the auth token (if
// any), preferring the relative-URI form per spec.md §4.3.
func (p *Provider) resolveEndpoint() (url, authToken string) {
	if relative := os.Getenv(relativeURIEnvVar); relative != "" {
		return defaultHost + relative, os.Getenv(authTokenEnvVar)
	}
	if full := os.Getenv(fullURIEnvVar); full != "" {
		return full, os.Getenv(authTokenEnvVar)
	}
	return "", ""
}

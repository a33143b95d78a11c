// Package stscreds implements the STS AssumeRole credential provider
// (spec.md §4.3): it calls sts:AssumeRole, signed with a source provider's
// credentials, and returns the resulting temporary credential.
//
// This provider signs and dispatches its own request directly with
// signer/v4 and net/http rather than going through package client's full
// pipeline. It is, in effect, the pipeline's encode/sign/send/
// decode steps inlined for one fixed operation.
package stscreds

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alexander-sdk/core/aws"
	"github.com/alexander-sdk/core/credentials"
	v4 "github.com/alexander-sdk/core/signer/v4"
	"github.com/rs/zerolog"
)

// DefaultDuration is used when Provider.Duration is zero.
const DefaultDuration = 15 * time.Minute

// Provider assumes RoleARN using credentials resolved from Source, and
// returns the resulting temporary credential.
type Provider struct {
	Source      credentials.Provider
	RoleARN     string
	SessionName string
	Duration    time.Duration
	Region      string
	Client      *http.Client
}

// New returns an STS AssumeRole provider.
func New(source credentials.Provider, roleARN, sessionName, region string) *Provider {
	return &Provider{Source: source, RoleARN: roleARN, SessionName: sessionName, Region: region}
}

type assumeRoleResponse struct {
	XMLName xml.Name `xml:"AssumeRoleResponse"`
	Result  struct {
		Credentials struct {
			AccessKeyId     string
			SecretAccessKey string
			SessionToken    string
			Expiration      string
		}
	} `xml:"AssumeRoleResult"`
}

// Retrieve calls sts:AssumeRole and returns the temporary credential.
func (p *Provider) Retrieve(ctx context.Context, logger zerolog.Logger) (aws.Credential, error) {
	sourceCred, err := p.Source.Retrieve(ctx, logger)
	if err != nil {
		return aws.Credential{}, fmt.Errorf("stscreds: resolving source credential: %w", err)
	}

	duration := p.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}

	form := url.Values{}
	form.Set("Action", "AssumeRole")
	form.Set("Version", "2011-06-15")
	form.Set("RoleArn", p.RoleARN)
	form.Set("RoleSessionName", p.SessionName)
	form.Set("DurationSeconds", strconv.Itoa(int(duration/time.Second)))
	body := []byte(form.Encode())

	endpoint := fmt.Sprintf("https://sts.%s.amazonaws.com/", p.Region)
	signer := v4.New(sourceCred, "sts", p.Region)
	headers, err := signer.SignHTTP(endpoint, http.MethodPost, map[string]string{
		"content-type": "application/x-www-form-urlencoded",
	}, body, time.Now(), v4.Options{})
	if err != nil {
		return aws.Credential{}, fmt.Errorf("stscreds: signing AssumeRole request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return aws.Credential{}, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return aws.Credential{}, fmt.Errorf("stscreds: AssumeRole request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return aws.Credential{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return aws.Credential{}, fmt.Errorf("stscreds: AssumeRole returned status %d: %s", resp.StatusCode, respBody)
	}

	var parsed assumeRoleResponse
	if err := xml.Unmarshal(respBody, &parsed); err != nil {
		return aws.Credential{}, fmt.Errorf("stscreds: decoding AssumeRole response: %w", err)
	}

	expiration, err := time.Parse(time.RFC3339, parsed.Result.Credentials.Expiration)
	if err != nil {
		expiration = time.Now().Add(duration)
	}

	logger.Debug().Str("role_arn", p.RoleARN).Msg("stscreds: assumed role")
	return aws.Credential{
		AccessKeyID:     parsed.Result.Credentials.AccessKeyId,
		SecretAccessKey: parsed.Result.Credentials.SecretAccessKey,
		SessionToken:    parsed.Result.Credentials.SessionToken,
		Expiration:      expiration,
	}, nil
}

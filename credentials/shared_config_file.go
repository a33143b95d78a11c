package credentials

import (
	"context"
	"os"

	"github.com/alexander-sdk/core/aws"
	"github.com/alexander-sdk/core/internal/inifile"
	"github.com/rs/zerolog"
)

// SharedConfigFile resolves credentials from the AWS credentials/config
// file pair (spec.md §4.3). The credentials file's sections are bare
// profile names; the config file's sections are "profile <name>" (except
// "default", which uses the bare key "default" in both files).
type SharedConfigFile struct {
	Profile         string
	CredentialsPath string
	ConfigPath      string
}

// NewSharedConfigFile returns a provider for profile, defaulting the file
// paths to ~/.aws/credentials and ~/.aws/config (overridable via
// AWS_SHARED_CREDENTIALS_FILE / AWS_CONFIG_FILE per spec.md §6).
func NewSharedConfigFile(profile string) *SharedConfigFile {
	if profile == "" {
		profile = "default"
	}
	return &SharedConfigFile{
		Profile:         profile,
		CredentialsPath: defaultPath("AWS_SHARED_CREDENTIALS_FILE", "~/.aws/credentials"),
		ConfigPath:      defaultPath("AWS_CONFIG_FILE", "~/.aws/config"),
	}
}

func defaultPath(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

// configSectionName returns the section name a profile occupies in the
// config file: bare "default" for the default profile, "profile <name>"
// otherwise.
func configSectionName(profile string) string {
	if profile == "default" {
		return "default"
	}
	return "profile " + profile
}

// Retrieve reads the credentials file first; on miss, falls back to the
// config file. Supports source_profile chaining for STS-style profiles
// (the source profile's credentials are returned — the AssumeRole call
// itself is performed by credentials/stscreds, which wraps this provider).
func (p *SharedConfigFile) Retrieve(_ context.Context, logger zerolog.Logger) (aws.Credential, error) {
	section, profile, err := p.resolveSection()
	if err != nil {
		return aws.Credential{}, err
	}

	if sourceProfile := section["source_profile"]; sourceProfile != "" {
		logger.Debug().Str("source_profile", sourceProfile).Msg("shared config file: following source_profile")
		return (&SharedConfigFile{
			Profile:         sourceProfile,
			CredentialsPath: p.CredentialsPath,
			ConfigPath:      p.ConfigPath,
		}).Retrieve(context.Background(), logger)
	}

	accessKeyID := section["aws_access_key_id"]
	if accessKeyID == "" {
		return aws.Credential{}, &MissingAccessKeyIDError{Profile: profile}
	}
	secretAccessKey := section["aws_secret_access_key"]
	if secretAccessKey == "" {
		return aws.Credential{}, &MissingSecretAccessKeyError{Profile: profile}
	}

	logger.Debug().Str("profile", profile).Msg("resolved credential from shared config file")
	return aws.Credential{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    section["aws_session_token"],
	}, nil
}

// resolveSection returns the profile's key-value map, trying the
// credentials file first and falling back to the config file.
func (p *SharedConfigFile) resolveSection() (map[string]string, string, error) {
	if creds, err := inifile.ParseFile(p.CredentialsPath); err == nil {
		if section := creds.Section(p.Profile); section != nil {
			return section, p.Profile, nil
		}
	}

	cfg, err := inifile.ParseFile(p.ConfigPath)
	if err != nil {
		return nil, p.Profile, &MissingProfileError{Profile: p.Profile}
	}
	section := cfg.Section(configSectionName(p.Profile))
	if section == nil {
		return nil, p.Profile, &MissingProfileError{Profile: p.Profile}
	}
	return section, p.Profile, nil
}

// Region returns the profile's configured region, if any, reading the
// config file only (region is a config-file-only key per spec.md §6).
func (p *SharedConfigFile) Region() (string, bool) {
	cfg, err := inifile.ParseFile(p.ConfigPath)
	if err != nil {
		return "", false
	}
	section := cfg.Section(configSectionName(p.Profile))
	if section == nil {
		return "", false
	}
	region, ok := section["region"]
	return region, ok
}

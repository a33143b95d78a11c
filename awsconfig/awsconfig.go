// Package awsconfig assembles a Config the way a generated service
// client's constructor expects to receive one: resolving region and the
// default credential provider chain from environment variables and the
// shared config/credentials file pair (spec.md §4.3 "Chain", §6
// "Configuration files", "Environment variables consumed").
package awsconfig

import (
	"os"

	"github.com/alexander-sdk/core/aws"
	"github.com/alexander-sdk/core/credentials"
	"github.com/alexander-sdk/core/credentials/ecscreds"
	"github.com/alexander-sdk/core/credentials/imds"
	"github.com/alexander-sdk/core/credentials/ssocreds"
	"github.com/alexander-sdk/core/credentials/stscreds"
	"github.com/alexander-sdk/core/internal/inifile"
	"github.com/rs/zerolog"
)

// Options tunes LoadDefaultConfig; the zero value resolves everything
// from the environment and the default file paths, matching the teacher's
// Config.Validate()/MustLoad() "load with sane defaults, override
// selectively" shape (internal/config.Config).
type Options struct {
	// Profile overrides AWS_PROFILE / the "default" profile.
	Profile string
	// Region overrides AWS_REGION / AWS_DEFAULT_REGION / the profile's
	// configured region.
	Region string
	Logger zerolog.Logger
}

// LoadDefaultConfig resolves region and builds the default credential
// chain (spec.md §4.3: "Environment -> SharedConfigFile(default) ->
// EcsContainer (if env vars set) -> Ec2ImdsV2 -> Null"), honoring
// AWS_PROFILE / AWS_REGION / AWS_DEFAULT_REGION and the profile's
// role_arn/source_profile/sso_* configuration along the way.
func LoadDefaultConfig(opts Options) (aws.Config, error) {
	profile := opts.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile == "" {
		profile = "default"
	}

	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}

	sharedFile := credentials.NewSharedConfigFile(profile)
	if region == "" {
		if r, ok := sharedFile.Region(); ok {
			region = r
		}
	}
	if region == "" {
		region = string(aws.RegionUSEast1)
	}

	provider, err := resolveProfileProvider(profile, sharedFile, opts.Logger)
	if err != nil {
		return aws.Config{}, err
	}

	return aws.Config{
		Region:      aws.Region(region),
		Credentials: credentials.AsAWSProvider(provider, opts.Logger),
	}, nil
}

// resolveProfileProvider inspects the profile's config-file section for
// role_arn/sso_* directives before falling back to the default provider
// chain (spec.md §6 "role_arn", "sso_session", etc.).
func resolveProfileProvider(profile string, sharedFile *credentials.SharedConfigFile, logger zerolog.Logger) (credentials.Provider, error) {
	section, ok := configSection(sharedFile, profile)
	if !ok {
		return defaultChain(sharedFile), nil
	}

	if roleARN := section["role_arn"]; roleARN != "" {
		return resolveAssumeRole(profile, section, sharedFile, logger, roleARN)
	}

	if cacheKey, ssoRegion, ok := resolveSSOSession(section, sharedFile); ok {
		return ssocreds.New(ssocreds.Config{
			CacheKey:  cacheKey,
			SSORegion: ssoRegion,
			AccountID: section["sso_account_id"],
			RoleName:  section["sso_role_name"],
		}), nil
	}

	return defaultChain(sharedFile), nil
}

// resolveAssumeRole builds an stscreds.Provider for a role_arn profile,
// resolving its source credential from either credential_source (a
// named built-in provider) or source_profile (another profile section),
// per spec.md §6.
func resolveAssumeRole(profile string, section map[string]string, sharedFile *credentials.SharedConfigFile, logger zerolog.Logger, roleARN string) (credentials.Provider, error) {
	region, _ := sharedFile.Region()

	var source credentials.Provider
	switch section["credential_source"] {
	case "Environment":
		source = credentials.NewEnvironment()
	case "Ec2InstanceMetadata":
		source = imds.New(imds.V2)
	case "EcsContainer":
		source = ecscreds.New()
	default:
		if sourceProfile := section["source_profile"]; sourceProfile != "" {
			source = credentials.NewSharedConfigFile(sourceProfile)
		} else {
			source = credentials.NewEnvironment()
		}
	}

	sessionName := section["role_session_name"]
	if sessionName == "" {
		sessionName = "alexander-sdk-" + profile
	}

	return credentials.NewRotating(stscreds.New(source, roleARN, sessionName, region)), nil
}

// resolveSSOSession determines the SSO cache key and region for section,
// preferring the modern sso_session indirection over legacy inline
// sso_start_url/sso_region fields (spec.md §3 "SSO token cache entry").
func resolveSSOSession(section map[string]string, sharedFile *credentials.SharedConfigFile) (cacheKey, region string, ok bool) {
	if session := section["sso_session"]; session != "" {
		cfg, err := inifile.ParseFile(sharedFile.ConfigPath)
		if err != nil {
			return "", "", false
		}
		sessionSection := cfg.Section("sso-session " + session)
		if sessionSection == nil {
			return "", "", false
		}
		return session, sessionSection["sso_region"], true
	}
	if startURL := section["sso_start_url"]; startURL != "" {
		return startURL, section["sso_region"], true
	}
	return "", "", false
}

// configSection reads profile's section from the config file only
// (role_arn/sso_* are config-file-only keys, per spec.md §6's key list).
func configSection(sharedFile *credentials.SharedConfigFile, profile string) (map[string]string, bool) {
	cfg, err := inifile.ParseFile(sharedFile.ConfigPath)
	if err != nil {
		return nil, false
	}
	name := "profile " + profile
	if profile == "default" {
		name = "default"
	}
	section := cfg.Section(name)
	return section, section != nil
}

// defaultChain builds the standard provider order (spec.md §4.3):
// Environment -> SharedConfigFile(profile) -> EcsContainer (if env set) ->
// Ec2ImdsV2 -> Null.
func defaultChain(sharedFile *credentials.SharedConfigFile) *credentials.Chain {
	providers := []credentials.Provider{credentials.NewEnvironment(), sharedFile}
	if ecscreds.Available() {
		providers = append(providers, credentials.NewRotating(ecscreds.New()))
	}
	providers = append(providers, credentials.NewRotating(imds.New(imds.V2)))
	return credentials.DefaultChain(providers...)
}

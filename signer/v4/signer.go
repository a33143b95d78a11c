package v4

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexander-sdk/core/aws"
	"github.com/alexander-sdk/core/internal/hash"
)

// =============================================================================
// Signer
// =============================================================================

// Signer signs requests and pre-signed URLs for a single AWS credential,
// service, and region (spec.md §4.2). A Signer is stateless and safe for
// concurrent use; callers construct a fresh one (or reuse one) per
// credential/service/region triple.
type Signer struct {
	Credential  aws.Credential
	ServiceName string
	Region      string
}

// New constructs a Signer for the given credential, signing name
// (service_signing_name, which may differ from the API service id), and
// region.
func New(credential aws.Credential, serviceName, region string) *Signer {
	return &Signer{Credential: credential, ServiceName: serviceName, Region: region}
}

// Options tunes a single signing call.
type Options struct {
	// OmitSessionToken, if true, excludes x-amz-security-token from the
	// signed headers even when the credential carries one.
	OmitSessionToken bool

	// PayloadHash overrides the computed SHA-256 of Body, for callers
	// that already know the hash (or want UNSIGNED-PAYLOAD / the
	// streaming sentinel instead).
	PayloadHash string
}

// SignHTTP implements header-form signing (spec.md §4.2(a)): it returns
// the full header set to attach to the request, including Authorization,
// x-amz-date, host, and (if applicable) x-amz-content-sha256 and
// x-amz-security-token.
func (s *Signer) SignHTTP(rawURL, method string, headers map[string]string, body []byte, date time.Time, opts Options) (map[string]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &InvalidURLError{URL: rawURL, Cause: err}
	}

	out := cloneHeaders(headers)
	delete(out, "Authorization")

	payloadHash := opts.PayloadHash
	if payloadHash == "" {
		payloadHash = hex.EncodeToString(hash.SHA256(body))
	}

	dateStamp := date.UTC().Format(DateFormat)
	amzDate := date.UTC().Format(ISO8601BasicFormat)

	setHeaderIfAbsent(out, "x-amz-content-sha256", payloadHash)
	out["x-amz-date"] = amzDate
	setHeaderIfAbsent(out, "host", u.Host)
	if s.Credential.HasSessionToken() && !opts.OmitSessionToken {
		out["x-amz-security-token"] = s.Credential.SessionToken
	}

	names := make([]string, 0, len(out))
	for k := range out {
		names = append(names, k)
	}
	signed, signedHeadersStr := signedHeadersList(names)

	lowerHeaders := lowercaseKeys(out)
	canonicalReq := buildCanonicalRequest(
		method,
		canonicalURI(u.Path),
		canonicalQueryString(u.Query()),
		canonicalHeaders(lowerHeaders, signed),
		signedHeadersStr,
		payloadHash,
	)

	scope := credentialScope(dateStamp, s.Region, s.ServiceName)
	stringToSign := buildStringToSign(amzDate, scope, canonicalReq)

	signingKey, err := s.deriveSigningKey(dateStamp)
	if err != nil {
		return nil, err
	}
	signature := hex.EncodeToString(hash.AuthenticationCode(signingKey, []byte(stringToSign)))

	out["Authorization"] = fmt.Sprintf("%s Credential=%s/%s,SignedHeaders=%s,Signature=%s",
		Algorithm, s.Credential.AccessKeyID, scope, signedHeadersStr, signature)

	return out, nil
}

// PresignHTTP implements query-form signing (spec.md §4.2(b)): it returns
// the URL with the X-Amz-* query parameters appended, including the final
// X-Amz-Signature.
func (s *Signer) PresignHTTP(rawURL, method string, headers map[string]string, body []byte, expires time.Duration, date time.Time, opts Options) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &InvalidURLError{URL: rawURL, Cause: err}
	}

	payloadHash := opts.PayloadHash
	if payloadHash == "" {
		payloadHash = UnsignedPayload
	}

	dateStamp := date.UTC().Format(DateFormat)
	amzDate := date.UTC().Format(ISO8601BasicFormat)
	scope := credentialScope(dateStamp, s.Region, s.ServiceName)

	query := u.Query()
	query.Set(XAmzAlgorithmQuery, Algorithm)
	query.Set(XAmzCredentialQuery, s.Credential.AccessKeyID+"/"+scope)
	query.Set(XAmzDateQuery, amzDate)
	query.Set(XAmzExpiresQuery, strconv.FormatInt(int64(expires/time.Second), 10))
	if s.Credential.HasSessionToken() && !opts.OmitSessionToken {
		query.Set(XAmzSecurityTokenQuery, s.Credential.SessionToken)
	}

	out := cloneHeaders(headers)
	setHeaderIfAbsent(out, "host", u.Host)

	names := make([]string, 0, len(out))
	for k := range out {
		names = append(names, k)
	}
	signed, signedHeadersStr := signedHeadersList(names)
	query.Set(XAmzSignedHeadersQuery, signedHeadersStr)

	u.RawQuery = canonicalQueryString(query)

	lowerHeaders := lowercaseKeys(out)
	canonicalReq := buildCanonicalRequest(
		method,
		canonicalURI(u.Path),
		u.RawQuery,
		canonicalHeaders(lowerHeaders, signed),
		signedHeadersStr,
		payloadHash,
	)

	stringToSign := buildStringToSign(amzDate, scope, canonicalReq)
	signingKey, err := s.deriveSigningKey(dateStamp)
	if err != nil {
		return "", err
	}
	signature := hex.EncodeToString(hash.AuthenticationCode(signingKey, []byte(stringToSign)))

	u.RawQuery += "&" + XAmzSignatureQuery + "=" + signature

	return u.String(), nil
}

// deriveSigningKey computes HMAC(HMAC(HMAC(HMAC("AWS4"+secret, date), region), service), "aws4_request")
// (spec.md §4.2 step 5).
func (s *Signer) deriveSigningKey(dateStamp string) ([]byte, error) {
	if s.Credential.SecretAccessKey == "" {
		return nil, &SigningKeyDerivationError{Reason: "empty secret access key"}
	}
	kDate := hash.AuthenticationCode([]byte("AWS4"+s.Credential.SecretAccessKey), []byte(dateStamp))
	kRegion := hash.AuthenticationCode(kDate, []byte(s.Region))
	kService := hash.AuthenticationCode(kRegion, []byte(s.ServiceName))
	kSigning := hash.AuthenticationCode(kService, []byte(TerminationString))
	return kSigning, nil
}

func credentialScope(dateStamp, region, service string) string {
	return dateStamp + "/" + region + "/" + service + "/" + TerminationString
}

func buildStringToSign(amzDate, scope, canonicalRequest string) string {
	digest := hex.EncodeToString(hash.SHA256([]byte(canonicalRequest)))
	return Algorithm + "\n" + amzDate + "\n" + scope + "\n" + digest
}

func cloneHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func lowercaseKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

func setHeaderIfAbsent(headers map[string]string, key, value string) {
	for k := range headers {
		if strings.EqualFold(k, key) {
			return
		}
	}
	headers[key] = value
}

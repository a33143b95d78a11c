// Package v4 implements AWS Signature Version 4 request signing: header-form
// signing, query-form (pre-signed URL) signing, and chunked/streaming body
// signing, per spec.md §4.2.
package v4

// =============================================================================
// Constants
// =============================================================================

const (
	// Algorithm is the algorithm identifier for AWS Signature Version 4.
	Algorithm = "AWS4-HMAC-SHA256"

	// ISO8601BasicFormat is the full timestamp format used in signed requests.
	ISO8601BasicFormat = "20060102T150405Z"

	// DateFormat is the short date format used in the credential scope.
	DateFormat = "20060102"

	// TerminationString closes out the credential scope.
	TerminationString = "aws4_request"
)

// =============================================================================
// Header names
// =============================================================================

const (
	XAmzAlgorithmQuery     = "X-Amz-Algorithm"
	XAmzCredentialQuery    = "X-Amz-Credential"
	XAmzDateQuery          = "X-Amz-Date"
	XAmzExpiresQuery       = "X-Amz-Expires"
	XAmzSignedHeadersQuery = "X-Amz-SignedHeaders"
	XAmzSecurityTokenQuery = "X-Amz-Security-Token"
	XAmzSignatureQuery     = "X-Amz-Signature"
)

// =============================================================================
// Special payload hash sentinels (spec.md §4.2 step 2)
// =============================================================================

const (
	// UnsignedPayload marks a request whose body is excluded from the
	// signature (used for S3 sign_url by default).
	UnsignedPayload = "UNSIGNED-PAYLOAD"

	// StreamingPayload marks a chunked/streaming signed upload.
	StreamingPayload = "STREAMING-AWS4-HMAC-SHA256-PAYLOAD"

	// EmptyStringSHA256 is hex(SHA-256("")), used for bodyless requests
	// (spec invariant I4).
	EmptyStringSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// headersNeverSigned are dropped before the signed-headers set is built,
// regardless of what the caller passed in.
var headersNeverSigned = map[string]bool{
	"authorization":   true,
	"user-agent":      true,
	"accept-encoding": true,
}

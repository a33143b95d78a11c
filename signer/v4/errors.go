package v4

import "fmt"

// InvalidURLError is returned when the request URL cannot be parsed
// (spec.md §4.2 "Fails with: InvalidUrl").
type InvalidURLError struct {
	URL   string
	Cause error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Cause)
}

func (e *InvalidURLError) Unwrap() error { return e.Cause }

// SigningKeyDerivationError is returned only when signing-key derivation
// itself fails (spec.md §4.2 "SigningKeyDerivationFailed (only from crypto
// errors)") — in this implementation, an empty secret access key, since
// the stdlib HMAC primitives themselves cannot fail.
type SigningKeyDerivationError struct {
	Reason string
}

func (e *SigningKeyDerivationError) Error() string {
	return fmt.Sprintf("signing key derivation failed: %s", e.Reason)
}

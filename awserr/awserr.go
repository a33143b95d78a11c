// Package awserr implements the pipeline's error taxonomy (spec.md §7):
// client, server, protocol, and transport errors, plus the
// ResponseError/RawError wrapper shapes every non-2xx response decodes
// into when a service doesn't supply a more specific typed error.
package awserr

import "fmt"

// Context carries the diagnostic fields a server/protocol error attaches
// (spec.md §7: "context{message, status, headers, additional_fields,
// extended?}").
type Context struct {
	Message         string
	Status          int
	Headers         map[string]string
	AdditionalFields map[string]string
	Extended        bool
}

// ResponseError is a classified, coded API error — the shape a non-2xx
// response decodes into once its error code has been extracted via the
// protocol's conventions, but no more specific typed error is registered
// for that code (spec.md §4.6 step 9).
type ResponseError struct {
	Code    string
	Context Context
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Context.Message)
}

// RawError wraps a non-2xx response whose body could not be decoded into
// any recognizable error shape at all.
type RawError struct {
	RawBody string
	Context Context
}

func (e *RawError) Error() string {
	return fmt.Sprintf("Unhandled error, code: %d, body: %s", e.Context.Status, e.RawError())
}

// RawError returns the raw body text (method name mirrors the struct's
// field to match the user-visible rendering format spec.md §7 specifies).
func (e *RawError) RawError() string { return e.RawBody }

// ServerError is a 5xx failure with a decoded error code (spec.md §7
// "Server errors").
type ServerError struct {
	Code    string
	Context Context
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Context.Message, e.Context.Status)
}

// ClientError covers the spec's client-side failure kinds: invalid URL,
// invalid request encoding, a missing required field, signing failure, or
// cancellation — all detected before a request is ever dispatched.
type ClientError struct {
	Kind    ClientErrorKind
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ClientError) Unwrap() error { return e.Cause }

// ClientErrorKind enumerates spec.md §7's exhaustive client error kinds.
type ClientErrorKind string

const (
	KindInvalidURL               ClientErrorKind = "InvalidUrl"
	KindInvalidRequestEncoding   ClientErrorKind = "InvalidRequestEncoding"
	KindMissingRequiredField     ClientErrorKind = "MissingRequiredField"
	KindSigningFailure           ClientErrorKind = "SigningFailure"
	KindCredentialRetrievalError ClientErrorKind = "CredentialRetrievalFailure"
	KindCancelled                ClientErrorKind = "Cancelled"
	KindWaiterFailure            ClientErrorKind = "WaiterFailure"
	KindWaiterTimeout            ClientErrorKind = "WaiterTimeout"
)

// TransportError is a connection reset, DNS, TLS, or timeout failure —
// always retryable (spec.md §7 "Transport errors"). Package retry and
// package client both classify against this type.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport error: %v", e.Cause) }
func (e *TransportError) Unwrap() error { return e.Cause }

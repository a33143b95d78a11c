package client

import (
	"strings"

	"github.com/alexander-sdk/core/awserr"
	"github.com/alexander-sdk/core/endpoints"
	"github.com/alexander-sdk/core/protocol"
	"github.com/alexander-sdk/core/transport"
)

// classifyError turns a non-2xx response into a typed error (spec.md
// §4.6 step 9): Server (5xx), Client (4xx), or a protocol-specific error;
// a code found in svc.PossibleErrors produces its registered typed error,
// otherwise an awserr.ResponseError; an undecodable body falls back to
// awserr.RawError.
func classifyError(resp *transport.Response, svc endpoints.ServiceConfig) error {
	envelope, decodeErr := decodeErrorEnvelope(resp, svc)
	if decodeErr != nil {
		return &awserr.RawError{
			RawBody: string(resp.Body),
			Context: awserr.Context{Status: resp.StatusCode, Headers: flattenHeaders(resp.Headers)},
		}
	}

	ctx := endpoints.Context{
		Message:          envelope.Message,
		Status:           resp.StatusCode,
		Headers:          flattenHeaders(resp.Headers),
		AdditionalFields: envelope.AdditionalFields,
	}
	if ctor, ok := svc.PossibleErrors[envelope.Code]; ok {
		return ctor(ctx)
	}

	awsCtx := awserr.Context{
		Message:          envelope.Message,
		Status:           resp.StatusCode,
		Headers:          flattenHeaders(resp.Headers),
		AdditionalFields: envelope.AdditionalFields,
	}
	if resp.StatusCode >= 500 {
		return &awserr.ServerError{Code: envelope.Code, Context: awsCtx}
	}
	return &awserr.ResponseError{Code: envelope.Code, Context: awsCtx}
}

// decodeErrorEnvelope extracts (code, message, additional_fields) from
// the response (spec.md §6 "try_decode_error"). The x-amzn-ErrorType
// header, when present, takes priority over the body per AWS's own JSON
// protocol convention; otherwise the service's codec decodes the body.
func decodeErrorEnvelope(resp *transport.Response, svc endpoints.ServiceConfig) (protocol.ErrorEnvelope, error) {
	if codes, ok := resp.Headers["X-Amzn-Errortype"]; ok && len(codes) > 0 {
		return protocol.ErrorEnvelope{Code: trimErrorType(codes[0])}, nil
	}
	if svc.Codec == nil {
		return protocol.ErrorEnvelope{}, errNoCodec
	}
	return svc.Codec.DecodeError(protocol.DecodeSource{StatusCode: resp.StatusCode, Headers: resp.Headers, Body: resp.Body})
}

var errNoCodec = &noCodecError{}

type noCodecError struct{}

func (*noCodecError) Error() string { return "client: no protocol codec configured for error decoding" }

// trimErrorType strips the "prefix#" service-namespace and any trailing
// ":message" AWS JSON services sometimes append to x-amzn-ErrorType.
func trimErrorType(raw string) string {
	code := raw
	if idx := strings.IndexByte(code, '#'); idx >= 0 {
		code = code[idx+1:]
	}
	if idx := strings.IndexByte(code, ':'); idx >= 0 {
		code = code[:idx]
	}
	return code
}

func flattenHeaders(h map[string][]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

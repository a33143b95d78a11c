package middleware

import (
	"github.com/alexander-sdk/core/transport"
	"github.com/rs/zerolog"
)

// LoggingMiddleware pretty-prints request/response at a configurable
// level (spec.md §4.5), matching the teacher's
// `.With().Str("component", ...)` tagging convention.
func LoggingMiddleware(logger zerolog.Logger, level zerolog.Level) Middleware {
	tagged := logger.With().Str("component", "middleware.logging").Logger()

	return Middleware{
		Name: "Logging",
		OnRequest: func(req transport.Request, ctx Context) (transport.Request, error) {
			tagged.WithLevel(level).
				Str("service", ctx.ServiceID).
				Str("operation", ctx.OperationID).
				Str("method", req.Method).
				Str("url", req.URL).
				Msg("outbound request")
			return req, nil
		},
		OnResponse: func(resp *transport.Response, ctx Context) (*transport.Response, error) {
			tagged.WithLevel(level).
				Str("service", ctx.ServiceID).
				Str("operation", ctx.OperationID).
				Int("status", resp.StatusCode).
				Msg("inbound response")
			return resp, nil
		},
	}
}

// Package middleware implements the request pipeline's interceptor stack
// (spec.md §4.5): outbound/inbound hooks composed in registration order
// for the outbound direction and reverse order for inbound, plus the
// spec's built-in middlewares.
package middleware

import (
	"github.com/alexander-sdk/core/transport"
)

// Context is the read-only (except where documented) context a hook
// observes alongside the request/response it mutates.
type Context struct {
	ServiceID   string
	OperationID string
	Region      string

	// Attrs is per-attempt scratch space a middleware can use to pass a
	// value from its OnRequest hook to its own OnResponse hook within the
	// same attempt (e.g. a start timestamp for duration metrics). It is a
	// map so mutations are visible across the by-value Context copies
	// Execute threads through one attempt's outbound and inbound chains;
	// a fresh map is allocated per attempt, so there is no cross-request
	// or cross-goroutine sharing.
	Attrs map[string]any
}

// RequestHook mutates an outbound request before dispatch. Implementations
// MUST NOT swallow errors (spec.md §4.5).
type RequestHook func(req transport.Request, ctx Context) (transport.Request, error)

// ResponseHook mutates an inbound response after dispatch.
type ResponseHook func(resp *transport.Response, ctx Context) (*transport.Response, error)

// Middleware is one of RequestHook, ResponseHook, or both (spec.md §4.5).
type Middleware struct {
	Name     string
	OnRequest RequestHook
	OnResponse ResponseHook
}

// Stack holds an ordered list of middlewares and runs the outbound chain
// in registration order, the inbound chain in reverse (spec.md §4.5).
type Stack struct {
	middlewares []Middleware
}

// NewStack builds a Stack from the given middlewares, in registration
// order.
func NewStack(middlewares ...Middleware) *Stack {
	return &Stack{middlewares: middlewares}
}

// Append returns a new Stack with additional middlewares registered
// after the existing ones.
func (s *Stack) Append(middlewares ...Middleware) *Stack {
	combined := make([]Middleware, 0, len(s.middlewares)+len(middlewares))
	combined = append(combined, s.middlewares...)
	combined = append(combined, middlewares...)
	return &Stack{middlewares: combined}
}

// RunOutbound invokes every registered RequestHook in registration order.
func (s *Stack) RunOutbound(req transport.Request, ctx Context) (transport.Request, error) {
	for _, m := range s.middlewares {
		if m.OnRequest == nil {
			continue
		}
		var err error
		req, err = m.OnRequest(req, ctx)
		if err != nil {
			return req, err
		}
	}
	return req, nil
}

// RunInbound invokes every registered ResponseHook in reverse
// registration order (spec.md §4.5: "reverse order for the inbound
// direction").
func (s *Stack) RunInbound(resp *transport.Response, ctx Context) (*transport.Response, error) {
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		m := s.middlewares[i]
		if m.OnResponse == nil {
			continue
		}
		var err error
		resp, err = m.OnResponse(resp, ctx)
		if err != nil {
			return resp, err
		}
	}
	return resp, nil
}

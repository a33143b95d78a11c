package waiter

import (
	"github.com/alexander-sdk/core/awserr"
)

// Success matches any outcome with no error — the simplest acceptor,
// typically paired with StateSuccess to mean "the call itself succeeding
// is the terminal condition" (spec.md §4.7 matcher list).
type Success struct{}

func (Success) Matches(o Outcome) bool { return o.Err == nil }

// ErrorCode matches when the outcome's error decodes to the given AWS
// error code (spec.md §4.7: "ErrorCode(expected)").
type ErrorCode struct{ Expected string }

func (m ErrorCode) Matches(o Outcome) bool {
	code, _, ok := errorCodeAndStatus(o.Err)
	return ok && code == m.Expected
}

// ErrorStatus matches when the outcome's error carries the given HTTP
// status code (spec.md §4.7: "ErrorStatus(code)").
type ErrorStatus struct{ Status int }

func (m ErrorStatus) Matches(o Outcome) bool {
	_, status, ok := errorCodeAndStatus(o.Err)
	return ok && status == m.Status
}

// errorCodeAndStatus extracts the (code, status) an awserr type carries,
// if o.Err is one of the package's classified error shapes.
func errorCodeAndStatus(err error) (code string, status int, ok bool) {
	switch e := err.(type) {
	case *awserr.ResponseError:
		return e.Code, e.Context.Status, true
	case *awserr.ServerError:
		return e.Code, e.Context.Status, true
	case *awserr.RawError:
		return "", e.Context.Status, true
	default:
		return "", 0, false
	}
}

// pathValue walks a dotted JMESPath-lite expression ("a.b.c") over a
// decoded map[string]any result. Only plain field traversal is
// supported — full JMESPath (slicing, filters, functions) is out of
// scope for the core per spec.md Non-goals ("a new codec framework");
// this is the minimal subset the spec's own seed acceptor lists need.
func pathValue(result any, path string) (any, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return nil, false
	}
	cur := any(m)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			key := path[start:i]
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			v, present := obj[key]
			if !present {
				return nil, false
			}
			cur = v
			start = i + 1
		}
	}
	return cur, true
}

// PathEquals matches when the field named by Path in the decoded result
// equals Expected (spec.md §4.7 "JmesPath(expr, expected)", reduced to
// plain field traversal per SPEC_FULL's supplement note).
type PathEquals struct {
	Path     string
	Expected any
}

func (m PathEquals) Matches(o Outcome) bool {
	if o.Err != nil {
		return false
	}
	v, ok := pathValue(o.Result, m.Path)
	return ok && v == m.Expected
}

// PathAny matches when the field named by Path is a slice and any
// element equals one of Expected (spec.md "JmesAny(expr, expected)").
type PathAny struct {
	Path     string
	Expected []any
}

func (m PathAny) Matches(o Outcome) bool {
	if o.Err != nil {
		return false
	}
	v, ok := pathValue(o.Result, m.Path)
	if !ok {
		return false
	}
	items, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		for _, want := range m.Expected {
			if item == want {
				return true
			}
		}
	}
	return false
}

// PathAll matches when the field named by Path is a non-empty slice and
// every element equals one of Expected (spec.md "JmesAll(expr, expected)").
type PathAll struct {
	Path     string
	Expected []any
}

func (m PathAll) Matches(o Outcome) bool {
	if o.Err != nil {
		return false
	}
	v, ok := pathValue(o.Result, m.Path)
	if !ok {
		return false
	}
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return false
	}
	for _, item := range items {
		matched := false
		for _, want := range m.Expected {
			if item == want {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

package middleware

import "github.com/alexander-sdk/core/transport"

// EditHeadersOp is the kind of edit EditHeadersMiddleware applies to one
// header (spec.md §4.5: "add/replace/remove").
type EditHeadersOp int

const (
	EditHeaderSet EditHeadersOp = iota
	EditHeaderRemove
)

// HeaderEdit is one add/replace (Set) or remove edit.
type HeaderEdit struct {
	Name  string
	Value string
	Op    EditHeadersOp
}

// EditHeadersMiddleware adds, replaces, or removes request headers
// (spec.md §4.5).
func EditHeadersMiddleware(edits ...HeaderEdit) Middleware {
	return Middleware{
		Name: "EditHeaders",
		OnRequest: func(req transport.Request, ctx Context) (transport.Request, error) {
			if req.Headers == nil {
				req.Headers = map[string]string{}
			}
			for _, e := range edits {
				switch e.Op {
				case EditHeaderRemove:
					delete(req.Headers, e.Name)
				default:
					req.Headers[e.Name] = e.Value
				}
			}
			return req, nil
		},
	}
}

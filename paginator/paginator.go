// Package paginator implements lazy page iteration over a paginated
// operation (spec.md §4.8): repeatedly invoke a command, feeding the
// previous page's output token back in as the next page's input token,
// until the token (or an explicit "more" flag) signals the end.
package paginator

import "context"

// TokenSetter copies the outgoing page token into the next request's
// input value, the generic analog of spec.md §4.8's "sets the input's
// token_in field from the previous output's token_out".
type TokenSetter[Input any] func(input *Input, token string)

// PageResult is what one invocation of a paginated command returns: the
// decoded page itself, the token for the next page (empty when there is
// none), and an optional explicit "more pages" flag.
type PageResult[Output any] struct {
	Output    Output
	NextToken string
	HasMore   *bool
}

// Command invokes the paginated operation for one page.
type Command[Input, Output any] func(ctx context.Context, input Input) (PageResult[Output], error)

// Paginator lazily walks every page of a paginated operation (spec.md
// §4.8). Construct with New, then call Next in a loop until it returns
// false.
type Paginator[Input, Output any] struct {
	ctx      context.Context
	input    Input
	command  Command[Input, Output]
	setToken TokenSetter[Input]
	done     bool
	err      error
}

// New builds a Paginator over command, starting from the given initial
// input. setToken threads each page's NextToken into the following
// request (spec.md §4.8: "token_in").
func New[Input, Output any](ctx context.Context, input Input, command Command[Input, Output], setToken TokenSetter[Input]) *Paginator[Input, Output] {
	return &Paginator[Input, Output]{ctx: ctx, input: input, command: command, setToken: setToken}
}

// HasNext reports whether another page remains to fetch, without fetching
// it. Callers that only need a simple stopping condition can use this
// instead of inspecting Next's bool return in a for loop.
func (p *Paginator[Input, Output]) HasNext() bool {
	return !p.done
}

// Next fetches the next page, or returns (zero, false, nil) once
// exhausted. A zero, false, non-nil error means the underlying command
// failed; the paginator is left exhausted either way.
func (p *Paginator[Input, Output]) Next() (Output, bool, error) {
	var zero Output
	if p.done {
		return zero, false, nil
	}

	result, err := p.command(p.ctx, p.input)
	if err != nil {
		p.done = true
		p.err = err
		return zero, false, err
	}

	// Stop when the token is absent/empty, or an explicit more_flag says
	// so (spec.md §4.8: "stops when token_out is absent/empty or
	// more_flag is false").
	if result.HasMore != nil && !*result.HasMore {
		p.done = true
	} else if result.NextToken == "" {
		p.done = true
	} else {
		p.setToken(&p.input, result.NextToken)
	}

	return result.Output, true, nil
}

// Err returns the error from the last failed Next call, if any.
func (p *Paginator[Input, Output]) Err() error { return p.err }

// All drains every remaining page into a slice, for callers that don't
// need streaming (e.g. tests, small result sets).
func (p *Paginator[Input, Output]) All() ([]Output, error) {
	var pages []Output
	for p.HasNext() {
		page, ok, err := p.Next()
		if err != nil {
			return pages, err
		}
		if !ok {
			break
		}
		pages = append(pages, page)
	}
	return pages, nil
}

package paginator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listInput struct {
	Token string
}

func TestPaginator_StopsWhenTokenEmpty(t *testing.T) {
	pages := [][]string{{"a", "b"}, {"c"}, {"d", "e"}}
	tokens := []string{"p2", "p3", ""}

	call := 0
	cmd := func(ctx context.Context, in listInput) (PageResult[[]string], error) {
		i := call
		call++
		return PageResult[[]string]{Output: pages[i], NextToken: tokens[i]}, nil
	}

	p := New(context.Background(), listInput{}, cmd, func(in *listInput, token string) { in.Token = token })
	all, err := p.All()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}, {"d", "e"}}, all)
	assert.Equal(t, 3, call)
}

func TestPaginator_StopsOnExplicitMoreFlagFalse(t *testing.T) {
	no := false
	call := 0
	cmd := func(ctx context.Context, in listInput) (PageResult[[]string], error) {
		call++
		return PageResult[[]string]{Output: []string{"only"}, NextToken: "ignored-but-present", HasMore: &no}, nil
	}

	p := New(context.Background(), listInput{}, cmd, func(in *listInput, token string) { in.Token = token })
	all, err := p.All()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"only"}}, all)
	assert.Equal(t, 1, call)
}

func TestPaginator_PropagatesCommandError(t *testing.T) {
	boom := errors.New("boom")
	cmd := func(ctx context.Context, in listInput) (PageResult[[]string], error) {
		return PageResult[[]string]{}, boom
	}

	p := New(context.Background(), listInput{}, cmd, func(in *listInput, token string) { in.Token = token })
	_, err := p.All()
	require.ErrorIs(t, err, boom)
}

func TestPaginator_ThreadsTokenIntoNextInput(t *testing.T) {
	var seenTokens []string
	calls := 0
	cmd := func(ctx context.Context, in listInput) (PageResult[[]string], error) {
		seenTokens = append(seenTokens, in.Token)
		calls++
		if calls < 3 {
			return PageResult[[]string]{Output: []string{"x"}, NextToken: "next"}, nil
		}
		return PageResult[[]string]{Output: []string{"x"}}, nil
	}

	p := New(context.Background(), listInput{}, cmd, func(in *listInput, token string) { in.Token = token })
	_, err := p.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "next", "next"}, seenTokens)
}

package inifile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BasicSections(t *testing.T) {
	lines := []string{
		"[default]",
		"aws_access_key_id = AKID",
		"aws_secret_access_key = SECRET",
		"",
		"[profile dev]",
		"region=us-west-2",
	}

	f, err := Parse(lines)
	require.NoError(t, err)

	assert.Equal(t, "AKID", f.Section("default")["aws_access_key_id"])
	assert.Equal(t, "SECRET", f.Section("default")["aws_secret_access_key"])
	assert.Equal(t, "us-west-2", f.Section("profile dev")["region"])
}

func TestParse_QuotingAndComments(t *testing.T) {
	lines := []string{
		"[default]",
		`aws_access_key_id = "AKID WITH SPACES"`,
		"region = us-east-1 # this is a comment",
		"; a full-line comment",
		"role_arn = arn:aws:iam::123:role/x ; inline semicolon comment",
	}

	f, err := Parse(lines)
	require.NoError(t, err)

	assert.Equal(t, "AKID WITH SPACES", f.Section("default")["aws_access_key_id"])
	assert.Equal(t, "us-east-1", f.Section("default")["region"])
	assert.Equal(t, "arn:aws:iam::123:role/x", f.Section("default")["role_arn"])
}

func TestParse_UnterminatedSectionIsInvalidSyntax(t *testing.T) {
	_, err := Parse([]string{"[default"})
	require.Error(t, err)
	var syntaxErr *InvalidSyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestParse_LineWithoutEqualsIsInvalidSyntax(t *testing.T) {
	_, err := Parse([]string{"[default]", "not a key value line"})
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	expanded, err := ExpandHome("~/.aws/config")
	require.NoError(t, err)
	assert.NotContains(t, expanded, "~")
	assert.Contains(t, expanded, ".aws/config")
}

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category Category
		want     string
	}{
		"configuration": {Configuration, "Configuration Error"},
		"network":       {Network, "Network Error"},
		"rate limit":    {RateLimit, "Rate Limit Error"},
		"not found":     {NotFound, "Not Found"},
		"runtime":       {Runtime, "Runtime Error"},
		"unknown":       {Category(99), "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Wrap(nil, Runtime))

	wrapped := Wrap(errors.New("connection reset"), Network, "check connectivity")
	assert.Equal(t, Network, wrapped.Category)
	assert.Equal(t, "connection reset", wrapped.Error())
	assert.Equal(t, []string{"check connectivity"}, wrapped.Remediation)
}

func TestWrapWithMessage(t *testing.T) {
	t.Parallel()

	wrapped := WrapWithMessage(errors.New("403"), RateLimit, "fetching contents")
	assert.Equal(t, "fetching contents: 403", wrapped.Message)
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	cliErr := NewConfigError("missing token")
	assert.Equal(t, cliErr, AsCLIError(cliErr))
	assert.Nil(t, AsCLIError(errors.New("plain")))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	err := NewConfigError("GITHUB_TOKEN is not set", "export GITHUB_TOKEN='<token>'")
	out := FormatErrorPlain(err)

	assert.Contains(t, out, "Error [Configuration Error]: GITHUB_TOKEN is not set")
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "• export GITHUB_TOKEN='<token>'")
}

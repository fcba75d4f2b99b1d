package token

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	token, err := Generate(8)
	assert.NoError(t, err)
	assert.Equal(t, 8, len(token))

	token2, err := Generate(8)
	assert.NoError(t, err)
	assert.NotEqual(t, token, token2)

	long, err := Generate(64)
	assert.NoError(t, err)
	assert.Len(t, long, 64)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+$`), long)

	empty, err := Generate(0)
	assert.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSecret(t *testing.T) {
	secret, err := Secret()
	assert.NoError(t, err)
	assert.Len(t, secret, secretLength)
}

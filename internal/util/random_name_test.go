package util

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRandomName(t *testing.T) {
	random = rand.New(rand.NewSource(0)) // nolint:gosec

	first := GetRandomName()
	assert.Regexp(t, regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`), first)

	random = rand.New(rand.NewSource(0)) // nolint:gosec
	assert.Equal(t, first, GetRandomName())
}

func TestUniqueName(t *testing.T) {
	a := assert.New(t)

	seen := map[string]bool{}
	name := UniqueName(func(name string) bool { return seen[name] })
	a.NotEmpty(name)

	// every plain name is taken, so a number is appended
	n := UniqueName(func(name string) bool { return !regexp.MustCompile(` \d+$`).MatchString(name) })
	a.Regexp(`^[A-Z][a-z]+ [A-Z][a-z]+ 2$`, n)
}

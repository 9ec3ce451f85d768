package namegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	assert.NotEmpty(t, Get().String())
}

func TestSuffixed(t *testing.T) {
	name := Suffixed("www-data-devel-hello-0")
	assert.True(t, strings.HasPrefix(name, "www-data-devel-hello-0-"))
	assert.Greater(t, len(name), len("www-data-devel-hello-0-"))
}

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Shape(t *testing.T) {
	id := NewID("ret")

	assert.True(t, strings.HasPrefix(id, "ret"))
	rest := strings.TrimPrefix(id, "ret")
	parts := strings.SplitN(rest, "-", 2)
	assert.Len(t, parts, 2)
	assert.Len(t, parts[1], 4)
	for _, r := range parts[0] {
		assert.True(t, r >= '0' && r <= '9', "timestamp part must be numeric, got %q", id)
	}
}

func TestNewID_PrefixesDistinguishEntities(t *testing.T) {
	assert.NotEqual(t, NewID("c"), NewID("ret"))
	assert.True(t, strings.HasPrefix(NewID("inv"), "inv"))
	assert.True(t, strings.HasPrefix(NewID("scope"), "scope"))
}

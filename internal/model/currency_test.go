package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	for _, c := range Currencies {
		got, ok := ParseCurrency(string(c))
		assert.True(t, ok, "%s should parse", c)
		assert.Equal(t, c, got)
	}

	for _, raw := range []string{"", "usd", "BTC", "TSH"} {
		_, ok := ParseCurrency(raw)
		assert.False(t, ok, "%q should not parse", raw)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleSuperAdmin, RolePartner, RoleAdvocate, RoleParalegal, RoleAccountant} {
		assert.True(t, r.Valid(), "%s should be valid", r)
	}
	assert.False(t, Role("clerk").Valid())
	assert.False(t, Role("").Valid())
}

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, ok := parseDate("2026-03-31")
	require.True(t, ok)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 31, d.Day())

	for _, bad := range []string{"", "31-03-2026", "2026-13-01", "2026-03-31T00:00:00Z"} {
		_, ok := parseDate(bad)
		assert.False(t, ok, "%q should not parse", bad)
	}
}

func TestParseDatePtr(t *testing.T) {
	d, ok := parseDatePtr(nil)
	assert.True(t, ok)
	assert.Nil(t, d)

	empty := ""
	d, ok = parseDatePtr(&empty)
	assert.True(t, ok)
	assert.Nil(t, d)

	good := "2026-01-15"
	d, ok = parseDatePtr(&good)
	require.True(t, ok)
	require.NotNil(t, d)
	assert.Equal(t, 15, d.Day())

	bad := "nope"
	_, ok = parseDatePtr(&bad)
	assert.False(t, ok)
}

func TestParseAmount(t *testing.T) {
	d, ok := parseAmount("1500.75")
	require.True(t, ok)
	assert.Equal(t, "1500.75", d.String())

	for _, bad := range []string{"", "12,50", "1.2.3", "ten"} {
		_, ok := parseAmount(bad)
		assert.False(t, ok, "%q should not parse", bad)
	}
}

func TestParseAmountPtr(t *testing.T) {
	d, ok := parseAmountPtr(nil)
	assert.True(t, ok)
	assert.Nil(t, d)

	raw := "-3.50"
	d, ok = parseAmountPtr(&raw)
	require.True(t, ok)
	assert.True(t, d.IsNegative())
}

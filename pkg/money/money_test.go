package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"2474.995", "2475"},
		{"0.125", "0.13"},
		{"7500", "7500"},
	}

	for _, tt := range tests {
		d, _ := decimal.NewFromString(tt.in)
		assert.Equal(t, tt.expected, Round(d).String(), "round %s", tt.in)
	}
}

func TestPercent(t *testing.T) {
	base := decimal.NewFromInt(20000)
	pct := decimal.NewFromInt(10)
	assert.True(t, Percent(base, pct).Equal(decimal.NewFromInt(2000)))
}

func TestClampNonNegative(t *testing.T) {
	assert.True(t, ClampNonNegative(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, ClampNonNegative(decimal.NewFromInt(5)).Equal(decimal.NewFromInt(5)))
}

func TestIsValidPercent(t *testing.T) {
	assert.True(t, IsValidPercent(decimal.NewFromInt(0)))
	assert.True(t, IsValidPercent(decimal.NewFromInt(100)))
	assert.False(t, IsValidPercent(decimal.NewFromInt(101)))
	assert.False(t, IsValidPercent(decimal.NewFromInt(-1)))
}

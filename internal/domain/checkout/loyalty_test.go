package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccruePoints(t *testing.T) {
	tests := []struct {
		name       string
		grandTotal string
		divisor    int64
		want       int
	}{
		{"exact multiple", "20000", 10000, 2},
		{"rounds down", "24975", 10000, 2},
		{"below one point", "9999", 10000, 0},
		{"zero total", "0", 10000, 0},
		{"zero divisor", "50000", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.grandTotal)
			assert.Equal(t, tt.want, AccruePoints(total, tt.divisor))
		})
	}
}

func TestTierForBands(t *testing.T) {
	bands := DefaultTierBands()

	tests := []struct {
		name  string
		spend string
		tier  string
		disc  string
	}{
		{"new member", "0", TierRegular, "0"},
		{"just below silver", "4999999", TierRegular, "0"},
		{"silver threshold", "5000000", TierSilver, "5"},
		{"mid gold", "30000000", TierGold, "10"},
		{"platinum threshold", "50000000", TierPlatinum, "15"},
		{"far past platinum", "120000000", TierPlatinum, "15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := TierFor(decimal.RequireFromString(tt.spend), bands)
			assert.Equal(t, tt.tier, band.Name)
			assert.Equal(t, tt.disc, band.DiscountPercent.String())
		})
	}
}

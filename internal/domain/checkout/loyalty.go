package checkout

import (
	"github.com/shopspring/decimal"
)

// TierBand maps a cumulative lifetime-spend threshold to a tier name and
// the member discount that tier grants
type TierBand struct {
	MinimumSpend    decimal.Decimal
	Name            string
	DiscountPercent decimal.Decimal
}

// Membership tier names
const (
	TierRegular  = "Regular"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

// DefaultTierBands returns the built-in tier ladder ordered highest
// threshold first
func DefaultTierBands() []TierBand {
	return []TierBand{
		{MinimumSpend: decimal.NewFromInt(50_000_000), Name: TierPlatinum, DiscountPercent: decimal.NewFromInt(15)},
		{MinimumSpend: decimal.NewFromInt(20_000_000), Name: TierGold, DiscountPercent: decimal.NewFromInt(10)},
		{MinimumSpend: decimal.NewFromInt(5_000_000), Name: TierSilver, DiscountPercent: decimal.NewFromInt(5)},
		{MinimumSpend: decimal.Zero, Name: TierRegular, DiscountPercent: decimal.Zero},
	}
}

// AccruePoints converts a settled grand total into membership points,
// one point per full pointsDivisor spent
func AccruePoints(grandTotal decimal.Decimal, pointsDivisor int64) int {
	if pointsDivisor <= 0 || grandTotal.IsNegative() {
		return 0
	}
	return int(grandTotal.Div(decimal.NewFromInt(pointsDivisor)).Floor().IntPart())
}

// TierFor evaluates the tier for a cumulative lifetime spend. Bands are
// checked highest threshold first; the first band the spend reaches wins.
func TierFor(lifetimeSpend decimal.Decimal, bands []TierBand) TierBand {
	for _, band := range bands {
		if lifetimeSpend.GreaterThanOrEqual(band.MinimumSpend) {
			return band
		}
	}
	return TierBand{Name: TierRegular, DiscountPercent: decimal.Zero}
}

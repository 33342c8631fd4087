package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	return Settings{
		TaxPercent:         decimal.NewFromInt(11),
		ServiceCharge:      decimal.Zero,
		MaxDiscountPercent: decimal.NewFromInt(50),
		PointsDivisor:      10000,
	}
}

func snapshot(name string, price int64, stock int) ProductSnapshot {
	return ProductSnapshot{
		ID:              uuid.New(),
		Code:            "P-" + name,
		Name:            name,
		UnitPrice:       decimal.NewFromInt(price),
		UnitCost:        decimal.NewFromInt(price / 2),
		DiscountPercent: decimal.Zero,
		Stock:           stock,
	}
}

func TestCartRecomputeWithTax(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())

	err := cart.AddItem(snapshot("Kopi Susu", 7500, 10), 3)
	require.NoError(t, err)

	assert.Equal(t, "22500", cart.Subtotal.String())
	assert.Equal(t, "2475", cart.TaxAmount.String())
	assert.Equal(t, "24975", cart.GrandTotal.String())
	assert.Equal(t, 1, cart.TotalItems)
	assert.Equal(t, 3, cart.TotalQuantity)
}

func TestCartOrderDiscountPercent(t *testing.T) {
	settings := testSettings()
	settings.TaxPercent = decimal.Zero
	cart := NewCart(uuid.New(), settings)

	require.NoError(t, cart.AddItem(snapshot("Teh Botol", 5000, 100), 4))
	require.Equal(t, "20000", cart.Subtotal.String())

	require.NoError(t, cart.SetOrderDiscount(decimal.NewFromInt(10), decimal.Zero))

	assert.Equal(t, "2000", cart.DiscountTotal.String())
	assert.Equal(t, "18000", cart.GrandTotal.String())
}

func TestCartDiscountPercentAndAmountAreAdditive(t *testing.T) {
	settings := testSettings()
	settings.TaxPercent = decimal.Zero
	cart := NewCart(uuid.New(), settings)

	require.NoError(t, cart.AddItem(snapshot("Gula", 10000, 100), 1))
	require.NoError(t, cart.SetOrderDiscount(decimal.NewFromInt(10), decimal.NewFromInt(500)))

	assert.Equal(t, "1500", cart.DiscountTotal.String())
	assert.Equal(t, "8500", cart.GrandTotal.String())
}

func TestCartDiscountCeiling(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())

	err := cart.SetOrderDiscount(decimal.NewFromInt(60), decimal.Zero)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCartDiscountNeverDrivesTotalsNegative(t *testing.T) {
	settings := testSettings()
	settings.TaxPercent = decimal.Zero
	cart := NewCart(uuid.New(), settings)

	require.NoError(t, cart.AddItem(snapshot("Permen", 1000, 10), 1))
	require.NoError(t, cart.SetOrderDiscount(decimal.Zero, decimal.NewFromInt(5000)))

	assert.Equal(t, "1000", cart.DiscountTotal.String())
	assert.Equal(t, "0", cart.GrandTotal.String())
}

func TestLineSubtotalClampedAtZero(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	product := snapshot("Rugi", 1000, 10)
	product.DiscountPercent = decimal.NewFromInt(100)

	require.NoError(t, cart.AddItem(product, 2))
	cart.Lines[0].DiscountAmount = decimal.NewFromInt(500)
	cart.Lines[0].recompute()

	assert.False(t, cart.Lines[0].Subtotal.IsNegative())
	assert.Equal(t, "0", cart.Lines[0].Subtotal.String())
}

func TestCartAddItemInsufficientStock(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	product := snapshot("Terakhir", 2000, 3)

	err := cart.AddItem(product, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientStock))
	assert.True(t, cart.IsEmpty())
}

func TestCartMergeRevalidatesStock(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	product := snapshot("Terakhir", 2000, 3)

	require.NoError(t, cart.AddItem(product, 3))

	err := cart.AddItem(product, 1)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientStock))
	assert.Equal(t, 3, cart.QuantityOf(product.ID))
}

func TestCartUpdateQuantityAgainstStock(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	product := snapshot("Terakhir", 2000, 3)

	require.NoError(t, cart.AddItem(product, 3))

	err := cart.UpdateQuantity(0, 5, product.Stock)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientStock))
	assert.Equal(t, 3, cart.Lines[0].Quantity)
}

func TestCartAddItemMergesLines(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	product := snapshot("Kopi", 7500, 10)

	require.NoError(t, cart.AddItem(product, 2))
	require.NoError(t, cart.AddItem(product, 3))

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.Equal(t, "37500", cart.Subtotal.String())
}

func TestCartUpdateQuantityZeroRemovesLine(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())

	require.NoError(t, cart.AddItem(snapshot("Kopi", 7500, 10), 2))
	require.NoError(t, cart.UpdateQuantity(0, 0, 10))

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "0", cart.GrandTotal.String())
}

func TestCartLineIndexOutOfRange(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	require.NoError(t, cart.AddItem(snapshot("Kopi", 7500, 10), 1))

	assert.Error(t, cart.UpdateQuantity(1, 2, 10))
	assert.Error(t, cart.UpdateQuantity(-1, 2, 10))
	assert.Error(t, cart.RemoveItem(3))
}

func TestCartSetCustomerMemberDiscountOverwrites(t *testing.T) {
	settings := testSettings()
	settings.TaxPercent = decimal.Zero
	cart := NewCart(uuid.New(), settings)

	require.NoError(t, cart.AddItem(snapshot("Kopi", 10000, 10), 1))
	require.NoError(t, cart.SetOrderDiscount(decimal.NewFromInt(5), decimal.Zero))

	cart.SetCustomer(&CustomerSnapshot{
		ID:              uuid.New(),
		Name:            "Budi",
		IsMember:        true,
		DiscountPercent: decimal.NewFromInt(10),
	})
	assert.Equal(t, "10", cart.OrderDiscountPercent.String())
	assert.Equal(t, "9000", cart.GrandTotal.String())

	// a later explicit discount wins over the membership rate
	require.NoError(t, cart.SetOrderDiscount(decimal.NewFromInt(20), decimal.Zero))
	assert.Equal(t, "20", cart.OrderDiscountPercent.String())
}

func TestCartSetCustomerNonMemberKeepsDiscount(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	require.NoError(t, cart.SetOrderDiscount(decimal.NewFromInt(5), decimal.Zero))

	cart.SetCustomer(&CustomerSnapshot{ID: uuid.New(), Name: "Tamu"})

	assert.Equal(t, "5", cart.OrderDiscountPercent.String())
}

func TestCartRecomputeIsIdempotent(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	require.NoError(t, cart.AddItem(snapshot("Kopi", 7500, 10), 3))
	require.NoError(t, cart.AddItem(snapshot("Teh", 5000, 10), 2))
	require.NoError(t, cart.SetOrderDiscount(decimal.NewFromInt(10), decimal.NewFromInt(1000)))

	first := cart.GrandTotal
	cart.Recompute()
	cart.Recompute()

	assert.True(t, first.Equal(cart.GrandTotal))
}

func TestCartClearResetsEverything(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	require.NoError(t, cart.AddItem(snapshot("Kopi", 7500, 10), 3))
	require.NoError(t, cart.SetOrderDiscount(decimal.NewFromInt(10), decimal.Zero))
	cart.SetCustomer(&CustomerSnapshot{ID: uuid.New(), Name: "Budi", IsMember: true})

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Nil(t, cart.Customer)
	assert.Equal(t, "0", cart.OrderDiscountPercent.String())
	assert.Equal(t, "0", cart.GrandTotal.String())
}

func TestCartSnapshotInsulatesFromCatalogEdits(t *testing.T) {
	cart := NewCart(uuid.New(), testSettings())
	product := snapshot("Kopi", 7500, 10)

	require.NoError(t, cart.AddItem(product, 1))
	product.UnitPrice = decimal.NewFromInt(9000)

	assert.Equal(t, "7500", cart.Lines[0].UnitPrice.String())
}

package checkout

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/pkg/apperror"
	"github.com/kasirpro/pos-api/pkg/money"
	"github.com/shopspring/decimal"
)

// ProductSnapshot carries the catalog fields a cart line freezes at add-time.
// Later catalog edits never reach back into an open cart.
type ProductSnapshot struct {
	ID              uuid.UUID
	Code            string
	Name            string
	UnitPrice       decimal.Decimal
	UnitCost        decimal.Decimal
	DiscountPercent decimal.Decimal
	Stock           int
}

// CustomerSnapshot is the slice of a customer the cart needs while staging
type CustomerSnapshot struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	MemberCode      string          `json:"member_code,omitempty"`
	IsMember        bool            `json:"is_member"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// LineItem is one product line in a cart. Price, cost, and the product's
// own discount are snapshots; Subtotal is derived and clamped at zero.
type LineItem struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

func (li *LineItem) recompute() {
	gross := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
	discount := money.Percent(gross, li.DiscountPercent).Add(li.DiscountAmount)
	li.Subtotal = money.Round(money.ClampNonNegative(gross.Sub(discount)))
}

// Settings are the pricing constants a cart is created with
type Settings struct {
	TaxPercent         decimal.Decimal
	ServiceCharge      decimal.Decimal
	MaxDiscountPercent decimal.Decimal
	PointsDivisor      int64
}

// Cart is the mutable pre-sale staging area for one cashier session.
// Every mutation ends in Recompute, so the derived totals always match the
// lines and settings. The cart itself never touches stock; availability is
// checked against the level the caller resolved at mutation time.
type Cart struct {
	CashierID            uuid.UUID         `json:"cashier_id"`
	Lines                []LineItem        `json:"lines"`
	Customer             *CustomerSnapshot `json:"customer,omitempty"`
	OrderDiscountPercent decimal.Decimal   `json:"order_discount_percent"`
	OrderDiscountAmount  decimal.Decimal   `json:"order_discount_amount"`
	TaxPercent           decimal.Decimal   `json:"tax_percent"`
	ServiceCharge        decimal.Decimal   `json:"service_charge"`
	MaxDiscountPercent   decimal.Decimal   `json:"-"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	TotalItems    int             `json:"total_items"`
	TotalQuantity int             `json:"total_quantity"`
}

// NewCart creates an empty cart for a cashier session
func NewCart(cashierID uuid.UUID, settings Settings) *Cart {
	c := &Cart{
		CashierID:            cashierID,
		Lines:                []LineItem{},
		OrderDiscountPercent: decimal.Zero,
		OrderDiscountAmount:  decimal.Zero,
		TaxPercent:           settings.TaxPercent,
		ServiceCharge:        settings.ServiceCharge,
		MaxDiscountPercent:   settings.MaxDiscountPercent,
	}
	c.Recompute()
	return c
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// QuantityOf returns the quantity of a product already staged in the cart
func (c *Cart) QuantityOf(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return c.Lines[i].Quantity
		}
	}
	return 0
}

// AddItem stages a product. If the product is already in the cart the line
// is merged by incrementing quantity, and stock is validated against the
// merged quantity.
func (c *Cart) AddItem(product ProductSnapshot, quantity int) error {
	if quantity <= 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "quantity must be a positive integer"},
		})
	}
	merged := c.QuantityOf(product.ID) + quantity
	if merged > product.Stock {
		return apperror.NewInsufficientStockError(
			fmt.Sprintf("insufficient stock for %s: have %d, want %d", product.Name, product.Stock, merged))
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID == product.ID {
			c.Lines[i].Quantity = merged
			c.Lines[i].recompute()
			c.Recompute()
			return nil
		}
	}

	line := LineItem{
		ProductID:       product.ID,
		ProductCode:     product.Code,
		ProductName:     product.Name,
		Quantity:        quantity,
		UnitPrice:       product.UnitPrice,
		UnitCost:        product.UnitCost,
		DiscountPercent: product.DiscountPercent,
		DiscountAmount:  decimal.Zero,
	}
	line.recompute()
	c.Lines = append(c.Lines, line)
	c.Recompute()
	return nil
}

// UpdateQuantity replaces a line's quantity. Zero removes the line.
func (c *Cart) UpdateQuantity(lineIndex, newQuantity, availableStock int) error {
	if lineIndex < 0 || lineIndex >= len(c.Lines) {
		return apperror.NewBadRequestError(fmt.Sprintf("line index %d out of range", lineIndex))
	}
	if newQuantity < 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "quantity cannot be negative"},
		})
	}
	if newQuantity == 0 {
		return c.RemoveItem(lineIndex)
	}
	if newQuantity > availableStock {
		return apperror.NewInsufficientStockError(
			fmt.Sprintf("insufficient stock for %s: have %d, want %d", c.Lines[lineIndex].ProductName, availableStock, newQuantity))
	}
	c.Lines[lineIndex].Quantity = newQuantity
	c.Lines[lineIndex].recompute()
	c.Recompute()
	return nil
}

// RemoveItem drops a line by index
func (c *Cart) RemoveItem(lineIndex int) error {
	if lineIndex < 0 || lineIndex >= len(c.Lines) {
		return apperror.NewBadRequestError(fmt.Sprintf("line index %d out of range", lineIndex))
	}
	c.Lines = append(c.Lines[:lineIndex], c.Lines[lineIndex+1:]...)
	c.Recompute()
	return nil
}

// Clear empties the cart and resets discounts and customer
func (c *Cart) Clear() {
	c.Lines = []LineItem{}
	c.Customer = nil
	c.OrderDiscountPercent = decimal.Zero
	c.OrderDiscountAmount = decimal.Zero
	c.Recompute()
}

// SetOrderDiscount sets the order-level discount. Percent and amount are
// additive and may both be nonzero.
func (c *Cart) SetOrderDiscount(percent, amount decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(c.MaxDiscountPercent) {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount_percent", Message: fmt.Sprintf("discount percent must be between 0 and %s", c.MaxDiscountPercent.String())},
		})
	}
	if amount.IsNegative() {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount_amount", Message: "discount amount cannot be negative"},
		})
	}
	c.OrderDiscountPercent = percent
	c.OrderDiscountAmount = amount
	c.Recompute()
	return nil
}

// SetCustomer attaches a customer. A member's discount rate overwrites the
// current order discount percent; a later explicit SetOrderDiscount wins
// over it in turn (last write wins).
func (c *Cart) SetCustomer(customer *CustomerSnapshot) {
	c.Customer = customer
	if customer != nil && customer.IsMember && customer.DiscountPercent.IsPositive() {
		c.OrderDiscountPercent = customer.DiscountPercent
	}
	c.Recompute()
}

// Recompute derives all totals from the lines and settings. It is pure and
// idempotent: the same lines and settings always yield the same totals.
func (c *Cart) Recompute() {
	subtotal := decimal.Zero
	quantity := 0
	for i := range c.Lines {
		subtotal = subtotal.Add(c.Lines[i].Subtotal)
		quantity += c.Lines[i].Quantity
	}

	discount := money.Percent(subtotal, c.OrderDiscountPercent).Add(c.OrderDiscountAmount)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	afterDiscount := subtotal.Sub(discount)
	tax := money.Percent(afterDiscount, c.TaxPercent)

	c.Subtotal = money.Round(subtotal)
	c.DiscountTotal = money.Round(discount)
	c.TaxAmount = money.Round(tax)
	c.GrandTotal = money.Round(afterDiscount.Add(tax).Add(c.ServiceCharge))
	c.TotalItems = len(c.Lines)
	c.TotalQuantity = quantity
}

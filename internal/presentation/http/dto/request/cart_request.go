package request

import "github.com/google/uuid"

// AddCartItemRequest stages a product in the cart. Exactly one of
// product_id, code, or barcode identifies the product.
type AddCartItemRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	Code      string     `json:"code"`
	Barcode   string     `json:"barcode"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest changes a staged line's quantity; zero removes it
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// SetCartDiscountRequest applies the order-level discount
type SetCartDiscountRequest struct {
	Percent float64 `json:"percent" binding:"min=0,max=100"`
	Amount  float64 `json:"amount" binding:"min=0"`
}

// SetCartCustomerRequest attaches a customer to the cart
type SetCartCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
	MemberCode string     `json:"member_code"`
	Phone      string     `json:"phone"`
}

// PaymentRequest is one tender offered at settlement
type PaymentRequest struct {
	Method    string  `json:"method" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Reference *string `json:"reference"`
}

// SettleRequest closes the cart into a completed order
type SettleRequest struct {
	Payments []PaymentRequest `json:"payments" binding:"required,min=1,dive"`
}

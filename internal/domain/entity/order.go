package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the immutable record of a settled sale. It is created with
// status Completed; once persisted its lines, totals, and payments are never
// edited. Cancellation is a separate compensating action that only changes
// the status and the cancellation fields.
type Order struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrderNo         string           `gorm:"size:50;unique;not null" json:"order_no"`
	OrderDate       time.Time        `gorm:"not null;index" json:"order_date"`
	CashierID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CustomerID      *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Status          enum.OrderStatus `gorm:"default:0" json:"status"`
	TotalItems      int              `gorm:"default:0" json:"total_items"`
	TotalQuantity   int              `gorm:"default:0" json:"total_quantity"`
	Subtotal        decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"subtotal"`
	DiscountPercent decimal.Decimal  `gorm:"type:numeric(5,2);default:0" json:"discount_percent"`
	DiscountAmount  decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"discount_amount"`
	TaxPercent      decimal.Decimal  `gorm:"type:numeric(5,2);default:0" json:"tax_percent"`
	TaxAmount       decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"tax_amount"`
	ServiceCharge   decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"service_charge"`
	GrandTotal      decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"grand_total"`
	TotalPaid       decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"total_paid"`
	ChangeDue       decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"change_due"`
	PointsEarned    int              `gorm:"default:0" json:"points_earned"`
	CancelReason    *string          `gorm:"type:text" json:"cancel_reason,omitempty"`
	CancelledByID   *uuid.UUID       `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	CancelledAt     *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Cashier  User        `gorm:"foreignKey:CashierID" json:"-"`
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one frozen cart line. Product code, name, prices, and
// discounts are snapshots taken when the line was added to the cart.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductCode     string          `gorm:"size:100" json:"product_code"`
	ProductName     string          `gorm:"size:255" json:"product_name"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"unit_price"`
	UnitCost        decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"unit_cost"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"discount_amount"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"subtotal"`
	CreatedAt       time.Time       `json:"created_at"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Profit returns the line margin against the snapshotted unit cost
func (oi *OrderItem) Profit() decimal.Decimal {
	costTotal := oi.UnitCost.Mul(decimal.NewFromInt(int64(oi.Quantity)))
	return oi.Subtotal.Sub(costTotal)
}

// Payment is one tender within a settlement. A settlement may carry several
// payments (split payment); their sum covers the grand total.
type Payment struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	Method    enum.PaymentMethod `gorm:"default:0" json:"method"`
	Amount    decimal.Decimal    `gorm:"type:numeric(15,2);not null" json:"amount"`
	Reference *string            `gorm:"size:100" json:"reference,omitempty"`
	CreatedAt time.Time          `json:"created_at"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

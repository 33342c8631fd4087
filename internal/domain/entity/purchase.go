package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase records goods received from a supplier. Receiving a purchase
// increments stock and writes one In ledger entry per line.
type Purchase struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseNo   string          `gorm:"size:50;unique;not null" json:"purchase_no"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	PurchaseDate time.Time       `gorm:"not null" json:"purchase_date"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"total_amount"`
	Note         *string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Supplier *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	User     User           `gorm:"foreignKey:UserID" json:"-"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem is one received line in a purchase
type PurchaseItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitCost   decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"unit_cost"`
	Total      decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relationships
	Purchase Purchase `gorm:"foreignKey:PurchaseID" json:"-"`
	Product  Product  `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new purchase item
func (pi *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseItem model
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

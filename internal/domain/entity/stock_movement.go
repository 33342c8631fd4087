package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// StockMovement is one entry in the append-only stock ledger, the sole
// record of why a product's stock changed. StockBefore and StockAfter are
// captured at the moment of the atomic stock operation, never from a stale
// read, and always satisfy stockAfter = stockBefore ± quantity.
type StockMovement struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ProductID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	Type          enum.MovementType `gorm:"not null;index" json:"type"`
	Quantity      int               `gorm:"not null" json:"quantity"`
	StockBefore   int               `gorm:"not null" json:"stock_before"`
	StockAfter    int               `gorm:"not null" json:"stock_after"`
	ReferenceType string            `gorm:"size:50" json:"reference_type"`
	ReferenceID   *uuid.UUID        `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	ReferenceNo   string            `gorm:"size:50" json:"reference_no"`
	Note          *string           `gorm:"type:text" json:"note,omitempty"`
	UserID        *uuid.UUID        `gorm:"type:uuid" json:"user_id,omitempty"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// Reference types recorded on ledger entries
const (
	ReferenceTypeOrder      = "ORDER"
	ReferenceTypeVoid       = "VOID_ORDER"
	ReferenceTypePurchase   = "PURCHASE"
	ReferenceTypeAdjustment = "ADJUSTMENT"
)

// BeforeCreate generates a UUID before creating a new stock movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}

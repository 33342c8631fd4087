package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the inventory. SellingPrice and CostPrice
// are catalog values; carts snapshot them at add time, so later edits never
// alter an open cart or a persisted order.
type Product struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Code            string          `gorm:"size:100;unique;not null" json:"code"`
	Barcode         *string         `gorm:"size:100;unique" json:"barcode,omitempty"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Description     *string         `gorm:"type:text" json:"description,omitempty"`
	Unit            string          `gorm:"size:50;default:'pcs'" json:"unit"`
	CostPrice       decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"cost_price"`
	SellingPrice    decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"selling_price"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"discount_percent"`
	Taxable         bool            `gorm:"default:true" json:"taxable"`
	Stock           int             `gorm:"default:0" json:"stock"`
	StockAlert      int             `gorm:"default:10" json:"stock_alert"`
	Sold            int             `gorm:"default:0" json:"sold"`
	Active          bool            `gorm:"default:true" json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the stock level has reached the alert threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.StockAlert
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;unique;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

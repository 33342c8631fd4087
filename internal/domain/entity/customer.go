package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a shopper, optionally enrolled as a member. Points,
// lifetime spend, and tier are maintained exclusively by the settlement and
// void paths.
type Customer struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	MemberCode            *string         `gorm:"size:50;unique" json:"member_code,omitempty"`
	Name                  string          `gorm:"size:255;not null" json:"name"`
	Phone                 *string         `gorm:"size:50;index" json:"phone,omitempty"`
	Email                 *string         `gorm:"size:255" json:"email,omitempty"`
	Address               *string         `gorm:"type:text" json:"address,omitempty"`
	Points                int             `gorm:"default:0" json:"points"`
	LifetimeSpend         decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"lifetime_spend"`
	TransactionCount      int             `gorm:"default:0" json:"transaction_count"`
	Tier                  string          `gorm:"size:50;default:'Regular'" json:"tier"`
	MemberDiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"member_discount_percent"`
	JoinedAt              *time.Time      `json:"joined_at,omitempty"`
	Active                bool            `gorm:"default:true" json:"active"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// IsMember reports whether the customer is enrolled in the membership program
func (c *Customer) IsMember() bool {
	return c.MemberCode != nil && *c.MemberCode != ""
}

// AddPoints credits loyalty points earned by a settled sale
func (c *Customer) AddPoints(points int) {
	c.Points += points
}

// DeductPoints removes points on a void, clamped so the balance never goes
// negative
func (c *Customer) DeductPoints(points int) {
	c.Points -= points
	if c.Points < 0 {
		c.Points = 0
	}
}

// RecordSale adds a settled grand total to the customer's lifetime spend
func (c *Customer) RecordSale(total decimal.Decimal) {
	c.LifetimeSpend = c.LifetimeSpend.Add(total)
	c.TransactionCount++
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles understood by the authorization middleware. Voiding a completed
// order requires RoleSupervisor or RoleAdmin.
const (
	RoleAdmin      = "admin"
	RoleCashier    = "cashier"
	RoleSupervisor = "supervisor"
)

// User represents a store employee able to sign in at the terminal
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Username  string         `gorm:"size:100;unique;not null" json:"username"`
	FullName  string         `gorm:"size:255;not null" json:"full_name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:50;not null;default:'cashier'" json:"role"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Orders []Order `gorm:"foreignKey:CashierID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// CanVoidOrders reports whether the user may void completed orders
func (u *User) CanVoidOrders() bool {
	return u.Role == RoleAdmin || u.Role == RoleSupervisor
}

// IsValidRole reports whether the role name is one the system understands
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCashier || role == RoleSupervisor
}

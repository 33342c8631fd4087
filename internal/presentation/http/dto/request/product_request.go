package request

import "github.com/google/uuid"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID      *uuid.UUID `json:"category_id"`
	Code            string     `json:"code" binding:"omitempty,max=100"`
	Barcode         *string    `json:"barcode"`
	Name            string     `json:"name" binding:"required,min=2,max=255"`
	Description     *string    `json:"description"`
	Unit            string     `json:"unit" binding:"omitempty,max=50"`
	CostPrice       float64    `json:"cost_price" binding:"min=0"`
	SellingPrice    float64    `json:"selling_price" binding:"min=0"`
	DiscountPercent float64    `json:"discount_percent" binding:"min=0,max=100"`
	Taxable         *bool      `json:"taxable"`
	Stock           int        `json:"stock" binding:"min=0"`
	StockAlert      int        `json:"stock_alert" binding:"min=0"`
}

// UpdateProductRequest represents a product update request. Stock is not
// editable here; use the stock adjustment endpoint.
type UpdateProductRequest struct {
	CategoryID      *uuid.UUID `json:"category_id"`
	Code            *string    `json:"code" binding:"omitempty,min=1,max=100"`
	Barcode         *string    `json:"barcode"`
	Name            *string    `json:"name" binding:"omitempty,min=2,max=255"`
	Description     *string    `json:"description"`
	Unit            *string    `json:"unit" binding:"omitempty,max=50"`
	CostPrice       *float64   `json:"cost_price" binding:"omitempty,min=0"`
	SellingPrice    *float64   `json:"selling_price" binding:"omitempty,min=0"`
	DiscountPercent *float64   `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	Taxable         *bool      `json:"taxable"`
	StockAlert      *int       `json:"stock_alert" binding:"omitempty,min=0"`
	Active          *bool      `json:"active"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// AdjustStockRequest represents a manual stock correction request
type AdjustStockRequest struct {
	NewQuantity int     `json:"new_quantity" binding:"min=0"`
	Note        *string `json:"note"`
}

// StockMovementFilterRequest represents stock ledger filter parameters
type StockMovementFilterRequest struct {
	ProductID string `form:"product_id"`
	Type      string `form:"type"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

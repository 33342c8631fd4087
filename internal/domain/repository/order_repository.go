package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/enum"
	"github.com/kasirpro/pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// NextOrderNumber issues the next date-prefixed sequential order number
	// for the given business date (e.g. TRX202609010042)
	NextOrderNumber(ctx context.Context, date time.Time) (string, error)
	// CreateCompleted persists a settled order with its items, payments, and
	// the stock ledger entries written for it, plus the updated customer
	// loyalty state, all in one transaction. Stock itself has already been
	// debited by the inventory gateway before this call.
	CreateCompleted(ctx context.Context, order *entity.Order, movements []entity.StockMovement, customer *entity.Customer) error
	// MarkCancelled records a void: status transition, return ledger
	// entries, and the customer point reversal, in one transaction
	MarkCancelled(ctx context.Context, order *entity.Order, movements []entity.StockMovement, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	// SalesSummary aggregates completed orders in [start, end)
	SalesSummary(ctx context.Context, start, end time.Time) (*SalesSummary, error)
	// TopProducts returns best sellers by quantity among completed orders in [start, end)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]ProductSales, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	CashierID  *uuid.UUID
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// SalesSummary aggregates sales figures over a date range
type SalesSummary struct {
	OrderCount     int64           `json:"order_count"`
	CancelledCount int64           `json:"cancelled_count"`
	ItemsSold      int64           `json:"items_sold"`
	GrossSales     decimal.Decimal `json:"gross_sales"`
	DiscountTotal  decimal.Decimal `json:"discount_total"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	NetSales       decimal.Decimal `json:"net_sales"`
}

// ProductSales is one row of a best-seller ranking
type ProductSales struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	SalesTotal   decimal.Decimal `json:"sales_total"`
}

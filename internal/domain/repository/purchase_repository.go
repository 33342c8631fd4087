package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/pkg/pagination"
)

// PurchaseRepository defines the interface for purchase receiving operations
type PurchaseRepository interface {
	// NextPurchaseNumber issues the next date-prefixed sequential purchase
	// number for the given business date (e.g. PO202609010007)
	NextPurchaseNumber(ctx context.Context, date time.Time) (string, error)
	// CreateReceived persists a purchase with its items, increments stock
	// for every line, and writes the In ledger entries, in one transaction
	CreateReceived(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	List(ctx context.Context, params *PurchaseFilterParams) ([]entity.Purchase, int64, error)
}

// PurchaseFilterParams contains filtering parameters for purchase queries
type PurchaseFilterParams struct {
	Pagination *pagination.PaginationParams
	SupplierID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

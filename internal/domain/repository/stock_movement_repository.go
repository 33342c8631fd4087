package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/enum"
	"github.com/kasirpro/pos-api/pkg/pagination"
)

// StockMovementRepository defines the interface for the append-only stock
// ledger. Entries are only ever created, never updated or deleted.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	CreateBatch(ctx context.Context, movements []entity.StockMovement) error
	List(ctx context.Context, params *StockMovementFilterParams) ([]entity.StockMovement, int64, error)
	GetByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]entity.StockMovement, error)
}

// StockMovementFilterParams contains filtering parameters for ledger queries
type StockMovementFilterParams struct {
	Pagination *pagination.PaginationParams
	ProductID  *uuid.UUID
	Type       *enum.MovementType
	StartDate  *time.Time
	EndDate    *time.Time
}

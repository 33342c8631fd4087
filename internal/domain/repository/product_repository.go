package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations.
// The stock mutators are the inventory gateway used by checkout: they are
// atomic conditional updates, never read-then-write, and report the stock
// level before and after as captured by the update itself.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context) ([]entity.Product, error)
	// TryDebitStock atomically decrements stock only if at least quantity
	// units remain. ok is false when stock was insufficient; before/after
	// are only meaningful when ok is true.
	TryDebitStock(ctx context.Context, id uuid.UUID, quantity int) (stockBefore, stockAfter int, ok bool, err error)
	// CreditStock atomically increments stock (void, return, receiving)
	CreditStock(ctx context.Context, id uuid.UUID, quantity int) (stockBefore, stockAfter int, err error)
	// SetStock replaces the stock level outright (manual adjustment)
	SetStock(ctx context.Context, id uuid.UUID, newQuantity int) (stockBefore int, err error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	LowStock   bool
	ActiveOnly bool
	SortBy     string
	SortOrder  string
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error)
}

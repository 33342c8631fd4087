package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/enum"
	"github.com/kasirpro/pos-api/internal/domain/repository"
	"github.com/kasirpro/pos-api/pkg/apperror"
	"github.com/kasirpro/pos-api/pkg/money"
	"github.com/kasirpro/pos-api/pkg/pagination"
	"github.com/kasirpro/pos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog operations. Stock is never edited through
// product update; it only changes through receiving, settlement, void, and
// the explicit adjustment below, each of which writes a ledger entry.
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.StockMovementRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.StockMovementRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	CategoryID      *uuid.UUID
	Code            string
	Barcode         *string
	Name            string
	Description     *string
	Unit            string
	CostPrice       decimal.Decimal
	SellingPrice    decimal.Decimal
	DiscountPercent decimal.Decimal
	Taxable         bool
	Stock           int
	StockAlert      int
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("product code already exists")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	if !money.IsValidPercent(input.DiscountPercent) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount_percent", Message: "discount percent must be between 0 and 100"},
		})
	}
	if input.Stock < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "stock", Message: "stock cannot be negative"},
		})
	}

	unit := input.Unit
	if unit == "" {
		unit = "pcs"
	}

	product := &entity.Product{
		CategoryID:      input.CategoryID,
		Code:            code,
		Barcode:         input.Barcode,
		Name:            input.Name,
		Description:     input.Description,
		Unit:            unit,
		CostPrice:       money.Round(input.CostPrice),
		SellingPrice:    money.Round(input.SellingPrice),
		DiscountPercent: input.DiscountPercent,
		Taxable:         input.Taxable,
		Stock:           input.Stock,
		StockAlert:      input.StockAlert,
		Active:          true,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByCode retrieves a product by its code
func (s *ProductService) GetProductByCode(ctx context.Context, code string) (*entity.Product, error) {
	product, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ProductID       uuid.UUID
	CategoryID      *uuid.UUID
	Code            *string
	Barcode         *string
	Name            *string
	Description     *string
	Unit            *string
	CostPrice       *decimal.Decimal
	SellingPrice    *decimal.Decimal
	DiscountPercent *decimal.Decimal
	Taxable         *bool
	StockAlert      *int
	Active          *bool
}

// UpdateProduct updates catalog fields of a product. Stock is deliberately
// absent; use AdjustStock.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Code != nil && *input.Code != product.Code {
		existing, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("product code already exists")
		}
		product.Code = *input.Code
	}

	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Barcode != nil {
		product.Barcode = input.Barcode
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.CostPrice != nil {
		product.CostPrice = money.Round(*input.CostPrice)
	}
	if input.SellingPrice != nil {
		product.SellingPrice = money.Round(*input.SellingPrice)
	}
	if input.DiscountPercent != nil {
		if !money.IsValidPercent(*input.DiscountPercent) {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "discount_percent", Message: "discount percent must be between 0 and 100"},
			})
		}
		product.DiscountPercent = *input.DiscountPercent
	}
	if input.Taxable != nil {
		product.Taxable = *input.Taxable
	}
	if input.StockAlert != nil {
		product.StockAlert = *input.StockAlert
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// GetLowStockProducts returns products at or below their alert level
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// AdjustStockInput represents a manual stock correction
type AdjustStockInput struct {
	ProductID   uuid.UUID
	NewQuantity int
	Note        *string
	UserID      uuid.UUID
}

// AdjustStock sets a product's stock outright and records the correction in
// the ledger as an Adjustment entry
func (s *ProductService) AdjustStock(ctx context.Context, input *AdjustStockInput) (*entity.Product, error) {
	if input.NewQuantity < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "stock cannot be negative"},
		})
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	before, err := s.productRepo.SetStock(ctx, input.ProductID, input.NewQuantity)
	if err != nil {
		return nil, err
	}

	delta := input.NewQuantity - before
	if delta != 0 {
		quantity := delta
		if quantity < 0 {
			quantity = -quantity
		}
		movement := &entity.StockMovement{
			ProductID:     input.ProductID,
			Type:          enum.MovementTypeAdjustment,
			Quantity:      quantity,
			StockBefore:   before,
			StockAfter:    input.NewQuantity,
			ReferenceType: entity.ReferenceTypeAdjustment,
			ReferenceNo:   fmt.Sprintf("ADJ-%s", uuid.New().String()[:8]),
			Note:          input.Note,
			UserID:        &input.UserID,
		}
		if err := s.movementRepo.Create(ctx, movement); err != nil {
			return nil, err
		}
	}

	return s.productRepo.GetByID(ctx, input.ProductID)
}

// ListStockMovements lists stock ledger entries with filtering
func (s *ProductService) ListStockMovements(ctx context.Context, params *repository.StockMovementFilterParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	movements, total, err := s.movementRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(movements, pag), nil
}

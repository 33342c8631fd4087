package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/repository"
	"github.com/kasirpro/pos-api/pkg/apperror"
	"github.com/kasirpro/pos-api/pkg/money"
	"github.com/kasirpro/pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// PurchaseService handles supplier management and purchase receiving
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

// PurchaseItemInput represents one received line
type PurchaseItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitCost  decimal.Decimal
}

// ReceivePurchaseInput represents the receive purchase input
type ReceivePurchaseInput struct {
	SupplierID *uuid.UUID
	UserID     uuid.UUID
	Note       *string
	Items      []PurchaseItemInput
}

// ReceivePurchase records goods received: the purchase with its items, the
// stock increments, and one In ledger entry per line, committed together
func (s *PurchaseService) ReceivePurchase(ctx context.Context, input *ReceivePurchaseInput) (*entity.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("purchase must have at least one item")
	}

	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
	}

	now := time.Now()
	purchaseNo, err := s.purchaseRepo.NextPurchaseNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	purchase := &entity.Purchase{
		ID:           uuid.New(),
		PurchaseNo:   purchaseNo,
		SupplierID:   input.SupplierID,
		UserID:       input.UserID,
		PurchaseDate: now,
		Note:         input.Note,
	}

	total := decimal.Zero
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "quantity", Message: "quantity must be a positive integer"},
			})
		}
		if item.UnitCost.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "unit_cost", Message: "unit cost cannot be negative"},
			})
		}
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperror.NewNotFoundError("Product")
		}

		lineTotal := money.Round(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
		total = total.Add(lineTotal)
		purchase.Items = append(purchase.Items, entity.PurchaseItem{
			PurchaseID: purchase.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitCost:   money.Round(item.UnitCost),
			Total:      lineTotal,
		})
	}
	purchase.TotalAmount = money.Round(total)

	if err := s.purchaseRepo.CreateReceived(ctx, purchase); err != nil {
		return nil, err
	}
	return s.purchaseRepo.GetByID(ctx, purchase.ID)
}

// GetPurchase retrieves a purchase by ID
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases with filtering
func (s *PurchaseService) ListPurchases(ctx context.Context, params *repository.PurchaseFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	purchases, total, err := s.purchaseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(purchases, pag), nil
}

// CreateSupplierInput represents the create supplier input
type CreateSupplierInput struct {
	Name    string
	Phone   *string
	Email   *string
	Address *string
}

// CreateSupplier creates a new supplier
func (s *PurchaseService) CreateSupplier(ctx context.Context, input *CreateSupplierInput) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
		Active:  true,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *PurchaseService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers lists suppliers with pagination and search
func (s *PurchaseService) ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}

// UpdateSupplierInput represents the update supplier input
type UpdateSupplierInput struct {
	SupplierID uuid.UUID
	Name       *string
	Phone      *string
	Email      *string
	Address    *string
	Active     *bool
}

// UpdateSupplier updates a supplier
func (s *PurchaseService) UpdateSupplier(ctx context.Context, input *UpdateSupplierInput) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.Active != nil {
		supplier.Active = *input.Active
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier deletes a supplier
func (s *PurchaseService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperror.NewNotFoundError("Supplier")
	}
	return s.supplierRepo.Delete(ctx, id)
}

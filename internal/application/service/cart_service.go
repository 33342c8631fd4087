package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/checkout"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/repository"
	"github.com/kasirpro/pos-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CartService owns the active cart of each cashier session. Carts live in
// memory only; nothing outside the cart is touched until settlement.
type CartService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	settings     checkout.Settings

	mu    sync.Mutex
	carts map[uuid.UUID]*checkout.Cart
}

// NewCartService creates a new cart service
func NewCartService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	settings checkout.Settings,
) *CartService {
	return &CartService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		settings:     settings,
		carts:        make(map[uuid.UUID]*checkout.Cart),
	}
}

// Cart returns the cashier's active cart, creating an empty one on first use
func (s *CartService) Cart(cashierID uuid.UUID) *checkout.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cashierID]
	if !ok {
		cart = checkout.NewCart(cashierID, s.settings)
		s.carts[cashierID] = cart
	}
	return cart
}

// Detach drops the cashier's cart after a successful settlement
func (s *CartService) Detach(cashierID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cashierID)
}

// AddItemInput identifies a product to stage. Exactly one of ProductID,
// Code, or Barcode should be set; they are tried in that order.
type AddItemInput struct {
	ProductID *uuid.UUID
	Code      string
	Barcode   string
	Quantity  int
}

// AddItem resolves the product and stages it in the cashier's cart
func (s *CartService) AddItem(ctx context.Context, cashierID uuid.UUID, input *AddItemInput) (*checkout.Cart, error) {
	product, err := s.resolveProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, apperror.NewBadRequestError("product is inactive")
	}

	cart := s.Cart(cashierID)
	if err := cart.AddItem(productSnapshot(product), input.Quantity); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity changes a staged line's quantity, re-validating against the
// product's current stock level. Zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, cashierID uuid.UUID, lineIndex, quantity int) (*checkout.Cart, error) {
	cart := s.Cart(cashierID)
	if lineIndex < 0 || lineIndex >= len(cart.Lines) {
		return nil, apperror.NewBadRequestError("line index out of range")
	}

	product, err := s.productRepo.GetByID(ctx, cart.Lines[lineIndex].ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := cart.UpdateQuantity(lineIndex, quantity, product.Stock); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a staged line
func (s *CartService) RemoveItem(cashierID uuid.UUID, lineIndex int) (*checkout.Cart, error) {
	cart := s.Cart(cashierID)
	if err := cart.RemoveItem(lineIndex); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cashier's cart with no side effects on stock
func (s *CartService) Clear(cashierID uuid.UUID) *checkout.Cart {
	cart := s.Cart(cashierID)
	cart.Clear()
	return cart
}

// SetDiscount applies the order-level discount
func (s *CartService) SetDiscount(cashierID uuid.UUID, percent, amount decimal.Decimal) (*checkout.Cart, error) {
	cart := s.Cart(cashierID)
	if err := cart.SetOrderDiscount(percent, amount); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetCustomerInput identifies the customer to attach. Exactly one of
// CustomerID, MemberCode, or Phone should be set; tried in that order.
type SetCustomerInput struct {
	CustomerID *uuid.UUID
	MemberCode string
	Phone      string
}

// SetCustomer attaches a customer to the cart. A member's discount rate
// overwrites the current order discount percent.
func (s *CartService) SetCustomer(ctx context.Context, cashierID uuid.UUID, input *SetCustomerInput) (*checkout.Cart, error) {
	customer, err := s.resolveCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	cart := s.Cart(cashierID)
	cart.SetCustomer(&checkout.CustomerSnapshot{
		ID:              customer.ID,
		Name:            customer.Name,
		MemberCode:      derefString(customer.MemberCode),
		IsMember:        customer.IsMember(),
		DiscountPercent: customer.MemberDiscountPercent,
	})
	return cart, nil
}

func (s *CartService) resolveProduct(ctx context.Context, input *AddItemInput) (*entity.Product, error) {
	var (
		product *entity.Product
		err     error
	)
	switch {
	case input.ProductID != nil:
		product, err = s.productRepo.GetByID(ctx, *input.ProductID)
	case input.Code != "":
		product, err = s.productRepo.GetByCode(ctx, input.Code)
	case input.Barcode != "":
		product, err = s.productRepo.GetByBarcode(ctx, input.Barcode)
	default:
		return nil, apperror.NewBadRequestError("product_id, code, or barcode is required")
	}
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

func (s *CartService) resolveCustomer(ctx context.Context, input *SetCustomerInput) (*entity.Customer, error) {
	var (
		customer *entity.Customer
		err      error
	)
	switch {
	case input.CustomerID != nil:
		customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
	case input.MemberCode != "":
		customer, err = s.customerRepo.GetByMemberCode(ctx, input.MemberCode)
	case input.Phone != "":
		customer, err = s.customerRepo.GetByPhone(ctx, input.Phone)
	default:
		return nil, apperror.NewBadRequestError("customer_id, member_code, or phone is required")
	}
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

func productSnapshot(p *entity.Product) checkout.ProductSnapshot {
	return checkout.ProductSnapshot{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		UnitPrice:       p.SellingPrice,
		UnitCost:        p.CostPrice,
		DiscountPercent: p.DiscountPercent,
		Stock:           p.Stock,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

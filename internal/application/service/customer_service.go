package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/checkout"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/repository"
	"github.com/kasirpro/pos-api/pkg/apperror"
	"github.com/kasirpro/pos-api/pkg/pagination"
	"github.com/kasirpro/pos-api/pkg/utils"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name     string
	Phone    *string
	Email    *string
	Address  *string
	AsMember bool
}

// CreateCustomer creates a new customer. When AsMember is set a member code
// is issued and the customer starts at the Regular tier.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	now := time.Now()
	customer := &entity.Customer{
		Name:     input.Name,
		Phone:    input.Phone,
		Email:    input.Email,
		Address:  input.Address,
		Tier:     checkout.TierRegular,
		JoinedAt: &now,
		Active:   true,
	}
	if input.AsMember {
		memberCode := utils.GenerateMemberCode()
		customer.MemberCode = &memberCode
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// LookupCustomer finds a customer by member code, falling back to phone
func (s *CustomerService) LookupCustomer(ctx context.Context, memberCode, phone string) (*entity.Customer, error) {
	if memberCode != "" {
		customer, err := s.customerRepo.GetByMemberCode(ctx, memberCode)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			return customer, nil
		}
	}
	if phone != "" {
		customer, err := s.customerRepo.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			return customer, nil
		}
	}
	return nil, apperror.NewNotFoundError("Customer")
}

// ListCustomers lists customers with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	CustomerID uuid.UUID
	Name       *string
	Phone      *string
	Email      *string
	Address    *string
	Active     *bool
}

// UpdateCustomer updates a customer's contact details. Loyalty state (points,
// spend, tier) only changes through settlement and void.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Active != nil {
		customer.Active = *input.Active
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// EnrollMember issues a member code for an existing customer
func (s *CustomerService) EnrollMember(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if customer.IsMember() {
		return nil, apperror.NewConflictError("customer is already a member")
	}

	memberCode := utils.GenerateMemberCode()
	customer.MemberCode = &memberCode
	customer.Tier = checkout.TierRegular
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}

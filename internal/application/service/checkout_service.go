package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/checkout"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/enum"
	"github.com/kasirpro/pos-api/internal/domain/repository"
	"github.com/kasirpro/pos-api/pkg/apperror"
	"github.com/kasirpro/pos-api/pkg/logger"
	"github.com/kasirpro/pos-api/pkg/metrics"
	"github.com/kasirpro/pos-api/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutService performs settlement and void. Settlement is the only path
// that touches stock: each line is debited with an atomic conditional
// decrement, and any failure after a debit credits back everything already
// applied before the error surfaces.
type CheckoutService struct {
	carts        *CartService
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	settings     checkout.Settings
	tierBands    []checkout.TierBand
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	carts *CartService,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	settings checkout.Settings,
	tierBands []checkout.TierBand,
) *CheckoutService {
	return &CheckoutService{
		carts:        carts,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		settings:     settings,
		tierBands:    tierBands,
	}
}

// PaymentInput is one tender offered at settlement
type PaymentInput struct {
	Method    string
	Amount    decimal.Decimal
	Reference *string
}

type appliedDebit struct {
	productID uuid.UUID
	quantity  int
}

// Settle validates the payment set against the cashier's cart, debits stock
// line by line, and persists the completed order with its ledger entries and
// loyalty update as one unit. On success the cart is detached.
func (s *CheckoutService) Settle(ctx context.Context, cashierID uuid.UUID, inputs []PaymentInput) (*entity.Order, error) {
	start := time.Now()

	cart := s.carts.Cart(cashierID)
	if cart.IsEmpty() {
		metrics.SettlementsFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, apperror.NewBadRequestError("cart is empty")
	}

	payments, totalPaid, err := buildPayments(inputs)
	if err != nil {
		metrics.SettlementsFailedTotal.WithLabelValues("invalid_payment").Inc()
		return nil, err
	}
	if totalPaid.LessThan(cart.GrandTotal) {
		metrics.SettlementsFailedTotal.WithLabelValues("insufficient_payment").Inc()
		return nil, apperror.NewInsufficientPaymentError(
			fmt.Sprintf("paid %s does not cover total %s", totalPaid.String(), cart.GrandTotal.String()))
	}
	changeDue := money.Round(totalPaid.Sub(cart.GrandTotal))

	now := time.Now()
	orderNo, err := s.orderRepo.NextOrderNumber(ctx, now)
	if err != nil {
		metrics.SettlementsFailedTotal.WithLabelValues("order_number").Inc()
		return nil, err
	}

	order := s.freezeOrder(cart, cashierID, orderNo, now, payments, totalPaid, changeDue)

	// Debit stock line by line; any failure rolls back what was applied
	applied := make([]appliedDebit, 0, len(cart.Lines))
	movements := make([]entity.StockMovement, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		before, after, ok, err := s.productRepo.TryDebitStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			s.creditBack(ctx, applied)
			metrics.SettlementsFailedTotal.WithLabelValues("stock_debit").Inc()
			return nil, err
		}
		if !ok {
			s.creditBack(ctx, applied)
			metrics.StockDebitConflictsTotal.Inc()
			metrics.SettlementsFailedTotal.WithLabelValues("stock_conflict").Inc()
			return nil, apperror.NewConcurrencyConflictError(
				fmt.Sprintf("stock for %s changed during settlement", line.ProductName))
		}
		applied = append(applied, appliedDebit{productID: line.ProductID, quantity: line.Quantity})
		movements = append(movements, entity.StockMovement{
			ProductID:     line.ProductID,
			Type:          enum.MovementTypeOut,
			Quantity:      line.Quantity,
			StockBefore:   before,
			StockAfter:    after,
			ReferenceType: entity.ReferenceTypeOrder,
			ReferenceID:   &order.ID,
			ReferenceNo:   orderNo,
			UserID:        &cashierID,
		})
	}

	customer, err := s.applyLoyalty(ctx, cart, order)
	if err != nil {
		s.creditBack(ctx, applied)
		metrics.SettlementsFailedTotal.WithLabelValues("loyalty").Inc()
		return nil, err
	}

	if err := s.orderRepo.CreateCompleted(ctx, order, movements, customer); err != nil {
		s.creditBack(ctx, applied)
		metrics.SettlementsFailedTotal.WithLabelValues("persist").Inc()
		return nil, err
	}

	s.carts.Detach(cashierID)

	metrics.OrdersSettledTotal.Inc()
	metrics.SettlementLatency.Observe(time.Since(start).Seconds())
	logger.Get().Info("order settled",
		zap.String("order_no", order.OrderNo),
		zap.String("cashier_id", cashierID.String()),
		zap.String("grand_total", order.GrandTotal.String()),
		zap.Int("lines", len(order.Items)),
	)
	return order, nil
}

// Void reverses a completed order: credits stock back with Return ledger
// entries, reverses the points earned, and marks the order cancelled.
func (s *CheckoutService) Void(ctx context.Context, orderID uuid.UUID, reason string, authorizer *entity.User) (*entity.Order, error) {
	if !authorizer.CanVoidOrders() {
		return nil, apperror.ErrForbidden
	}

	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status != enum.OrderStatusCompleted {
		return nil, apperror.NewInvalidStateError(
			fmt.Sprintf("order %s is %s, only completed orders can be voided", order.OrderNo, order.Status))
	}

	// Credit stock back line by line; any failure after this point debits
	// back what was applied so a half-voided order cannot leak stock
	applied := make([]appliedDebit, 0, len(order.Items))
	movements := make([]entity.StockMovement, 0, len(order.Items))
	for _, item := range order.Items {
		before, after, err := s.productRepo.CreditStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.debitBack(ctx, applied)
			return nil, err
		}
		applied = append(applied, appliedDebit{productID: item.ProductID, quantity: item.Quantity})
		movements = append(movements, entity.StockMovement{
			ProductID:     item.ProductID,
			Type:          enum.MovementTypeReturn,
			Quantity:      item.Quantity,
			StockBefore:   before,
			StockAfter:    after,
			ReferenceType: entity.ReferenceTypeVoid,
			ReferenceID:   &order.ID,
			ReferenceNo:   order.OrderNo,
			UserID:        &authorizer.ID,
		})
	}

	var customer *entity.Customer
	if order.CustomerID != nil && order.PointsEarned > 0 {
		customer, err = s.customerRepo.GetByID(ctx, *order.CustomerID)
		if err != nil {
			s.debitBack(ctx, applied)
			return nil, err
		}
		if customer != nil {
			customer.DeductPoints(order.PointsEarned)
		}
	}

	now := time.Now()
	cancelled := *order
	cancelled.Status = enum.OrderStatusCancelled
	cancelled.CancelReason = &reason
	cancelled.CancelledByID = &authorizer.ID
	cancelled.CancelledAt = &now

	if err := s.orderRepo.MarkCancelled(ctx, &cancelled, movements, customer); err != nil {
		s.debitBack(ctx, applied)
		return nil, err
	}

	metrics.OrdersVoidedTotal.Inc()
	logger.Get().Info("order voided",
		zap.String("order_no", cancelled.OrderNo),
		zap.String("voided_by", authorizer.Username),
		zap.String("reason", reason),
	)
	return &cancelled, nil
}

// GetOrder retrieves an order with its items and payments
func (s *CheckoutService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *CheckoutService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	return s.orderRepo.List(ctx, params)
}

// freezeOrder materializes the cart into an immutable completed order
func (s *CheckoutService) freezeOrder(
	cart *checkout.Cart,
	cashierID uuid.UUID,
	orderNo string,
	now time.Time,
	payments []entity.Payment,
	totalPaid, changeDue decimal.Decimal,
) *entity.Order {
	order := &entity.Order{
		ID:              uuid.New(),
		OrderNo:         orderNo,
		OrderDate:       now,
		CashierID:       cashierID,
		Status:          enum.OrderStatusCompleted,
		TotalItems:      cart.TotalItems,
		TotalQuantity:   cart.TotalQuantity,
		Subtotal:        cart.Subtotal,
		DiscountPercent: cart.OrderDiscountPercent,
		DiscountAmount:  cart.DiscountTotal,
		TaxPercent:      cart.TaxPercent,
		TaxAmount:       cart.TaxAmount,
		ServiceCharge:   money.Round(cart.ServiceCharge),
		GrandTotal:      cart.GrandTotal,
		TotalPaid:       money.Round(totalPaid),
		ChangeDue:       changeDue,
	}
	if cart.Customer != nil {
		customerID := cart.Customer.ID
		order.CustomerID = &customerID
	}

	order.Items = make([]entity.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		order.Items = append(order.Items, entity.OrderItem{
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			ProductCode:     line.ProductCode,
			ProductName:     line.ProductName,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			UnitCost:        line.UnitCost,
			DiscountPercent: line.DiscountPercent,
			DiscountAmount:  line.DiscountAmount,
			Subtotal:        line.Subtotal,
		})
	}
	for i := range payments {
		payments[i].OrderID = order.ID
	}
	order.Payments = payments
	return order
}

// applyLoyalty accrues points and re-evaluates the tier for an attached
// member. Returns the mutated customer for the persistence transaction, or
// nil when no loyalty update applies.
func (s *CheckoutService) applyLoyalty(ctx context.Context, cart *checkout.Cart, order *entity.Order) (*entity.Customer, error) {
	if cart.Customer == nil {
		return nil, nil
	}
	customer, err := s.customerRepo.GetByID(ctx, cart.Customer.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if !customer.IsMember() {
		return customer, nil
	}

	points := checkout.AccruePoints(order.GrandTotal, s.settings.PointsDivisor)
	order.PointsEarned = points
	customer.AddPoints(points)
	customer.RecordSale(order.GrandTotal)

	band := checkout.TierFor(customer.LifetimeSpend, s.tierBands)
	customer.Tier = band.Name
	customer.MemberDiscountPercent = band.DiscountPercent
	return customer, nil
}

// creditBack compensates already-applied stock debits after a settlement
// failure. Credit errors are logged, not surfaced; the original failure is
// what the caller sees.
func (s *CheckoutService) creditBack(ctx context.Context, applied []appliedDebit) {
	for _, debit := range applied {
		if _, _, err := s.productRepo.CreditStock(ctx, debit.productID, debit.quantity); err != nil {
			logger.Get().Error("failed to credit back stock after settlement failure",
				zap.String("product_id", debit.productID.String()),
				zap.Int("quantity", debit.quantity),
				zap.Error(err),
			)
		}
	}
}

// debitBack compensates already-applied stock credits after a void failure.
// The stock was credited moments before, so the conditional debit holds in
// practice; failures are logged and the original error is what the caller
// sees.
func (s *CheckoutService) debitBack(ctx context.Context, applied []appliedDebit) {
	for _, credit := range applied {
		if _, _, ok, err := s.productRepo.TryDebitStock(ctx, credit.productID, credit.quantity); err != nil || !ok {
			logger.Get().Error("failed to debit back stock after void failure",
				zap.String("product_id", credit.productID.String()),
				zap.Int("quantity", credit.quantity),
				zap.Bool("applied", ok),
				zap.Error(err),
			)
		}
	}
}

func buildPayments(inputs []PaymentInput) ([]entity.Payment, decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, decimal.Zero, apperror.NewBadRequestError("at least one payment is required")
	}
	payments := make([]entity.Payment, 0, len(inputs))
	total := decimal.Zero
	for _, input := range inputs {
		method, ok := enum.ParsePaymentMethod(input.Method)
		if !ok {
			return nil, decimal.Zero, apperror.NewBadRequestError(fmt.Sprintf("unknown payment method %q", input.Method))
		}
		if !input.Amount.IsPositive() {
			return nil, decimal.Zero, apperror.NewValidationError([]apperror.FieldError{
				{Field: "amount", Message: "payment amount must be positive"},
			})
		}
		payments = append(payments, entity.Payment{
			Method:    method,
			Amount:    money.Round(input.Amount),
			Reference: input.Reference,
		})
		total = total.Add(input.Amount)
	}
	return payments, total, nil
}

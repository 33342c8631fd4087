package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/checkout"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/enum"
	"github.com/kasirpro/pos-api/internal/domain/repository"
	"github.com/kasirpro/pos-api/pkg/apperror"
	"github.com/kasirpro/pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo keeps products in memory with the same atomic stock
// semantics as the real gateway
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id], nil
}

func (f *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

func (f *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) TryDebitStock(ctx context.Context, id uuid.UUID, quantity int) (int, int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return 0, 0, false, errors.New("product not found")
	}
	if p.Stock < quantity {
		return 0, 0, false, nil
	}
	before := p.Stock
	p.Stock -= quantity
	return before, p.Stock, true, nil
}

func (f *fakeProductRepo) CreditStock(ctx context.Context, id uuid.UUID, quantity int) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return 0, 0, errors.New("product not found")
	}
	before := p.Stock
	p.Stock += quantity
	return before, p.Stock, nil
}

func (f *fakeProductRepo) SetStock(ctx context.Context, id uuid.UUID, newQuantity int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return 0, errors.New("product not found")
	}
	before := p.Stock
	p.Stock = newQuantity
	return before, nil
}

func (f *fakeProductRepo) stockOf(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

// fakeOrderRepo records what settlement asks it to persist
type fakeOrderRepo struct {
	mu          sync.Mutex
	seq         int
	failPersist bool
	failCancel  bool
	orders      map[uuid.UUID]*entity.Order
	movements   map[uuid.UUID][]entity.StockMovement
	customers   map[uuid.UUID]*entity.Customer
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:    make(map[uuid.UUID]*entity.Order),
		movements: make(map[uuid.UUID][]entity.StockMovement),
		customers: make(map[uuid.UUID]*entity.Customer),
	}
}

func (f *fakeOrderRepo) NextOrderNumber(ctx context.Context, date time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("TRX%s%04d", date.Format("20060102"), f.seq), nil
}

func (f *fakeOrderRepo) CreateCompleted(ctx context.Context, order *entity.Order, movements []entity.StockMovement, customer *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPersist {
		return errors.New("database unavailable")
	}
	f.orders[order.ID] = order
	f.movements[order.ID] = movements
	if customer != nil {
		f.customers[customer.ID] = customer
	}
	return nil
}

func (f *fakeOrderRepo) MarkCancelled(ctx context.Context, order *entity.Order, movements []entity.StockMovement, customer *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCancel {
		return errors.New("database unavailable")
	}
	f.orders[order.ID] = order
	f.movements[order.ID] = append(f.movements[order.ID], movements...)
	if customer != nil {
		f.customers[customer.ID] = customer
	}
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id], nil
}

func (f *fakeOrderRepo) GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) SalesSummary(ctx context.Context, start, end time.Time) (*repository.SalesSummary, error) {
	return &repository.SalesSummary{}, nil
}

func (f *fakeOrderRepo) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.ProductSales, error) {
	return nil, nil
}

// fakeCustomerRepo keeps customers in memory
type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	repo := &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
	for _, c := range customers {
		repo.customers[c.ID] = c
	}
	return repo
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error { return nil }

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) GetByMemberCode(ctx context.Context, memberCode string) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.MemberCode != nil && *c.MemberCode == memberCode {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }

func (f *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

func posSettings() checkout.Settings {
	return checkout.Settings{
		TaxPercent:         decimal.NewFromInt(11),
		ServiceCharge:      decimal.Zero,
		MaxDiscountPercent: decimal.NewFromInt(50),
		PointsDivisor:      10000,
	}
}

func newProduct(code string, price int64, stock int) *entity.Product {
	return &entity.Product{
		ID:           uuid.New(),
		Code:         code,
		Name:         code,
		SellingPrice: decimal.NewFromInt(price),
		CostPrice:    decimal.NewFromInt(price / 2),
		Stock:        stock,
		Active:       true,
	}
}

func newCheckoutFixture(products ...*entity.Product) (*CheckoutService, *CartService, *fakeProductRepo, *fakeOrderRepo, *fakeCustomerRepo) {
	productRepo := newFakeProductRepo(products...)
	orderRepo := newFakeOrderRepo()
	customerRepo := newFakeCustomerRepo()
	carts := NewCartService(productRepo, customerRepo, posSettings())
	svc := NewCheckoutService(carts, orderRepo, productRepo, customerRepo, posSettings(), checkout.DefaultTierBands())
	return svc, carts, productRepo, orderRepo, customerRepo
}

func cashPayment(amount int64) []PaymentInput {
	return []PaymentInput{{Method: "cash", Amount: decimal.NewFromInt(amount)}}
}

func TestSettleHappyPath(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	svc, carts, productRepo, orderRepo, _ := newCheckoutFixture(product)
	cashierID := uuid.New()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 3})
	require.NoError(t, err)

	order, err := svc.Settle(ctx, cashierID, cashPayment(25000))
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusCompleted, order.Status)
	assert.Equal(t, "24975", order.GrandTotal.String())
	assert.Equal(t, "25", order.ChangeDue.String())
	assert.Equal(t, 7, productRepo.stockOf(product.ID))

	movements := orderRepo.movements[order.ID]
	require.Len(t, movements, 1)
	assert.Equal(t, enum.MovementTypeOut, movements[0].Type)
	assert.Equal(t, 10, movements[0].StockBefore)
	assert.Equal(t, 7, movements[0].StockAfter)
	assert.Equal(t, 3, movements[0].Quantity)

	// cart is detached after settlement
	assert.True(t, carts.Cart(cashierID).IsEmpty())
}

func TestSettleEmptyCart(t *testing.T) {
	svc, _, _, orderRepo, _ := newCheckoutFixture()

	_, err := svc.Settle(context.Background(), uuid.New(), cashPayment(10000))

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, orderRepo.orders)
}

func TestSettleInsufficientPayment(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	svc, carts, productRepo, orderRepo, _ := newCheckoutFixture(product)
	cashierID := uuid.New()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 3})
	require.NoError(t, err)

	_, err = svc.Settle(ctx, cashierID, cashPayment(20000))

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientPayment))
	assert.Equal(t, 10, productRepo.stockOf(product.ID))
	assert.Empty(t, orderRepo.orders)
	// the cart survives a rejected settlement
	assert.False(t, carts.Cart(cashierID).IsEmpty())
}

func TestSettleSplitPayment(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	svc, carts, _, _, _ := newCheckoutFixture(product)
	cashierID := uuid.New()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 3})
	require.NoError(t, err)

	order, err := svc.Settle(ctx, cashierID, []PaymentInput{
		{Method: "cash", Amount: decimal.NewFromInt(10000)},
		{Method: "qr", Amount: decimal.NewFromInt(14975)},
	})
	require.NoError(t, err)

	assert.Equal(t, "0", order.ChangeDue.String())
	assert.Len(t, order.Payments, 2)
}

func TestSettleStockConflictRollsBackAppliedDebits(t *testing.T) {
	first := newProduct("KOPI", 7500, 10)
	second := newProduct("TEH", 5000, 5)
	svc, carts, productRepo, orderRepo, _ := newCheckoutFixture(first, second)
	cashierID := uuid.New()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 2})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, cashierID, &AddItemInput{Code: "TEH", Quantity: 4})
	require.NoError(t, err)

	// another session drains the second product between staging and settle
	_, _, ok, err := productRepo.TryDebitStock(ctx, second.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Settle(ctx, cashierID, cashPayment(100000))

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConcurrencyConflict))
	// the first product's debit was credited back
	assert.Equal(t, 10, productRepo.stockOf(first.ID))
	assert.Equal(t, 2, productRepo.stockOf(second.ID))
	assert.Empty(t, orderRepo.orders)
}

func TestSettlePersistFailureRollsBackDebits(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	svc, carts, productRepo, orderRepo, _ := newCheckoutFixture(product)
	orderRepo.failPersist = true
	cashierID := uuid.New()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 3})
	require.NoError(t, err)

	_, err = svc.Settle(ctx, cashierID, cashPayment(25000))

	require.Error(t, err)
	assert.Equal(t, 10, productRepo.stockOf(product.ID))
	assert.Empty(t, orderRepo.orders)
}

func TestSettleAccruesLoyaltyAndPromotesTier(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	memberCode := "M-001"
	member := &entity.Customer{
		ID:            uuid.New(),
		Name:          "Budi",
		MemberCode:    &memberCode,
		Points:        10,
		LifetimeSpend: decimal.NewFromInt(4_990_000),
		Tier:          checkout.TierRegular,
	}
	svc, carts, _, _, customerRepo := newCheckoutFixture(product)
	customerRepo.customers[member.ID] = member
	cashierID := uuid.New()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 3})
	require.NoError(t, err)
	_, err = carts.SetCustomer(ctx, cashierID, &SetCustomerInput{MemberCode: memberCode})
	require.NoError(t, err)

	order, err := svc.Settle(ctx, cashierID, cashPayment(25000))
	require.NoError(t, err)

	// 24975 / 10000 rounds down to 2 points
	assert.Equal(t, 2, order.PointsEarned)
	assert.Equal(t, 12, member.Points)
	assert.Equal(t, "5014975", member.LifetimeSpend.String())
	assert.Equal(t, checkout.TierSilver, member.Tier)
	assert.Equal(t, "5", member.MemberDiscountPercent.String())
	assert.Equal(t, 1, member.TransactionCount)
}

func TestSettleNonMemberEarnsNoPoints(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	walkIn := &entity.Customer{ID: uuid.New(), Name: "Tamu"}
	svc, carts, _, _, customerRepo := newCheckoutFixture(product)
	customerRepo.customers[walkIn.ID] = walkIn
	cashierID := uuid.New()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 3})
	require.NoError(t, err)
	_, err = carts.SetCustomer(ctx, cashierID, &SetCustomerInput{CustomerID: &walkIn.ID})
	require.NoError(t, err)

	order, err := svc.Settle(ctx, cashierID, cashPayment(25000))
	require.NoError(t, err)

	assert.Equal(t, 0, order.PointsEarned)
	assert.Equal(t, 0, walkIn.Points)
}

func TestVoidRestoresStockAndPoints(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	memberCode := "M-001"
	member := &entity.Customer{
		ID:         uuid.New(),
		Name:       "Budi",
		MemberCode: &memberCode,
		Points:     1,
	}
	svc, carts, productRepo, orderRepo, customerRepo := newCheckoutFixture(product)
	customerRepo.customers[member.ID] = member
	cashierID := uuid.New()
	supervisor := &entity.User{ID: uuid.New(), Username: "dewi", Role: entity.RoleSupervisor}
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 3})
	require.NoError(t, err)
	_, err = carts.SetCustomer(ctx, cashierID, &SetCustomerInput{MemberCode: memberCode})
	require.NoError(t, err)

	order, err := svc.Settle(ctx, cashierID, cashPayment(25000))
	require.NoError(t, err)
	require.Equal(t, 7, productRepo.stockOf(product.ID))
	require.Equal(t, 3, member.Points)

	voided, err := svc.Void(ctx, order.ID, "wrong items", supervisor)
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusCancelled, voided.Status)
	assert.Equal(t, 10, productRepo.stockOf(product.ID))
	// points earned by the sale are reversed, clamped at zero
	assert.Equal(t, 1, member.Points)

	var returns []entity.StockMovement
	for _, m := range orderRepo.movements[order.ID] {
		if m.Type == enum.MovementTypeReturn {
			returns = append(returns, m)
		}
	}
	require.Len(t, returns, 1)
	assert.Equal(t, 7, returns[0].StockBefore)
	assert.Equal(t, 10, returns[0].StockAfter)
}

func TestVoidPersistFailureRollsBackCredits(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	svc, carts, productRepo, orderRepo, _ := newCheckoutFixture(product)
	cashierID := uuid.New()
	supervisor := &entity.User{ID: uuid.New(), Username: "dewi", Role: entity.RoleSupervisor}
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 3})
	require.NoError(t, err)
	order, err := svc.Settle(ctx, cashierID, cashPayment(25000))
	require.NoError(t, err)
	require.Equal(t, 7, productRepo.stockOf(product.ID))

	orderRepo.failCancel = true
	_, err = svc.Void(ctx, order.ID, "wrong items", supervisor)

	require.Error(t, err)
	// the credits were debited back, nothing changed
	assert.Equal(t, 7, productRepo.stockOf(product.ID))
	for _, m := range orderRepo.movements[order.ID] {
		assert.NotEqual(t, enum.MovementTypeReturn, m.Type)
	}

	// the order stayed completed, so the void can be retried
	orderRepo.failCancel = false
	voided, err := svc.Void(ctx, order.ID, "wrong items", supervisor)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, voided.Status)
	assert.Equal(t, 10, productRepo.stockOf(product.ID))
}

func TestVoidRejectsNonCompletedOrder(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	svc, carts, _, _, _ := newCheckoutFixture(product)
	cashierID := uuid.New()
	supervisor := &entity.User{ID: uuid.New(), Username: "dewi", Role: entity.RoleSupervisor}
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 1})
	require.NoError(t, err)
	order, err := svc.Settle(ctx, cashierID, cashPayment(10000))
	require.NoError(t, err)

	_, err = svc.Void(ctx, order.ID, "first void", supervisor)
	require.NoError(t, err)

	_, err = svc.Void(ctx, order.ID, "second void", supervisor)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestVoidRequiresAuthorizedRole(t *testing.T) {
	svc, _, _, _, _ := newCheckoutFixture()
	cashier := &entity.User{ID: uuid.New(), Username: "agus", Role: entity.RoleCashier}

	_, err := svc.Void(context.Background(), uuid.New(), "oops", cashier)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestSettleUnknownPaymentMethod(t *testing.T) {
	product := newProduct("KOPI", 7500, 10)
	svc, carts, _, _, _ := newCheckoutFixture(product)
	cashierID := uuid.New()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, cashierID, &AddItemInput{Code: "KOPI", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Settle(ctx, cashierID, []PaymentInput{{Method: "cek", Amount: decimal.NewFromInt(10000)}})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

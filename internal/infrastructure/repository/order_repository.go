package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	domainRepo "github.com/kasirpro/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

// NextOrderNumber issues TRX<yyyymmdd><seq> by scanning the day's highest
// sequence. The sequence is everything after the date prefix, so it keeps
// counting past 9999 orders in a day. The unique index on order_no
// backstops a rare same-millisecond race; the caller surfaces the insert
// error.
func (r *orderRepository) NextOrderNumber(ctx context.Context, date time.Time) (string, error) {
	prefix := orderNoPrefix(date)

	var lastSeq int
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select(fmt.Sprintf("COALESCE(MAX(CAST(SUBSTRING(order_no FROM %d) AS INTEGER)), 0)", len(prefix)+1)).
		Where("order_no LIKE ?", prefix+"%").
		Scan(&lastSeq).Error
	if err != nil {
		return "", err
	}
	return formatOrderNo(prefix, lastSeq+1), nil
}

func orderNoPrefix(date time.Time) string {
	return "TRX" + date.Format("20060102")
}

// formatOrderNo pads the sequence to four digits and lets it widen
// naturally beyond 9999
func formatOrderNo(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// CreateCompleted persists the frozen order, its ledger entries, and the
// loyalty update in one transaction. Items and payments ride along as gorm
// associations on the order.
func (r *orderRepository) CreateCompleted(ctx context.Context, order *entity.Order, movements []entity.StockMovement, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if len(movements) > 0 {
			if err := tx.Create(&movements).Error; err != nil {
				return err
			}
		}
		if customer != nil {
			if err := tx.Model(&entity.Customer{}).
				Where("id = ?", customer.ID).
				Updates(map[string]interface{}{
					"points":                  customer.Points,
					"lifetime_spend":          customer.LifetimeSpend,
					"transaction_count":       customer.TransactionCount,
					"tier":                    customer.Tier,
					"member_discount_percent": customer.MemberDiscountPercent,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkCancelled records a void in one transaction: the status transition,
// the return ledger entries, and the point reversal
func (r *orderRepository) MarkCancelled(ctx context.Context, order *entity.Order, movements []entity.StockMovement, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":          order.Status,
				"cancel_reason":   order.CancelReason,
				"cancelled_by_id": order.CancelledByID,
				"cancelled_at":    order.CancelledAt,
			}).Error; err != nil {
			return err
		}
		if len(movements) > 0 {
			if err := tx.Create(&movements).Error; err != nil {
				return err
			}
		}
		if customer != nil {
			if err := tx.Model(&entity.Customer{}).
				Where("id = ?", customer.ID).
				Update("points", customer.Points).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Items").Preload("Payments").
		First(&order, "order_no = ?", orderNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Items").Preload("Payments").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if params.Search != "" {
		query = query.Where("order_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("order_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("order_date < ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "order_date"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) SalesSummary(ctx context.Context, start, end time.Time) (*domainRepo.SalesSummary, error) {
	var summary domainRepo.SalesSummary

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = 1)                          AS order_count,
			COUNT(*) FILTER (WHERE status = 2)                          AS cancelled_count,
			COALESCE(SUM(total_quantity) FILTER (WHERE status = 1), 0)  AS items_sold,
			COALESCE(SUM(subtotal) FILTER (WHERE status = 1), 0)        AS gross_sales,
			COALESCE(SUM(discount_amount) FILTER (WHERE status = 1), 0) AS discount_total,
			COALESCE(SUM(tax_amount) FILTER (WHERE status = 1), 0)      AS tax_total,
			COALESCE(SUM(grand_total) FILTER (WHERE status = 1), 0)     AS net_sales
		FROM orders
		WHERE order_date >= ? AND order_date < ? AND deleted_at IS NULL`,
		start, end).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *orderRepository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.ProductSales, error) {
	var rows []domainRepo.ProductSales

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			oi.product_id,
			oi.product_code,
			oi.product_name,
			SUM(oi.quantity) AS quantity_sold,
			SUM(oi.subtotal) AS sales_total
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status = 1 AND o.order_date >= ? AND o.order_date < ? AND o.deleted_at IS NULL
		GROUP BY oi.product_id, oi.product_code, oi.product_name
		ORDER BY quantity_sold DESC
		LIMIT ?`,
		start, end, limit).Scan(&rows).Error

	return rows, err
}

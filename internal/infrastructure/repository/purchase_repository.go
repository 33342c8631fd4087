package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/enum"
	domainRepo "github.com/kasirpro/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) domainRepo.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) NextPurchaseNumber(ctx context.Context, date time.Time) (string, error) {
	prefix := "PO" + date.Format("20060102")

	var lastSeq int
	err := r.db.WithContext(ctx).
		Model(&entity.Purchase{}).
		Select("COALESCE(MAX(CAST(RIGHT(purchase_no, 4) AS INTEGER)), 0)").
		Where("purchase_no LIKE ?", prefix+"%").
		Scan(&lastSeq).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, lastSeq+1), nil
}

// CreateReceived persists the purchase, increments stock per line, and
// writes the In ledger entries, all in one transaction. The ledger before
// and after levels come from the update's RETURNING clause.
func (r *purchaseRepository) CreateReceived(ctx context.Context, purchase *entity.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}

		movements := make([]entity.StockMovement, 0, len(purchase.Items))
		for _, item := range purchase.Items {
			var after int
			result := tx.Raw(`
				UPDATE products
				SET stock = stock + ?, cost_price = ?, updated_at = NOW()
				WHERE id = ? AND deleted_at IS NULL
				RETURNING stock`,
				item.Quantity, item.UnitCost, item.ProductID).Scan(&after)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}

			movements = append(movements, entity.StockMovement{
				ProductID:     item.ProductID,
				Type:          enum.MovementTypeIn,
				Quantity:      item.Quantity,
				StockBefore:   after - item.Quantity,
				StockAfter:    after,
				ReferenceType: entity.ReferenceTypePurchase,
				ReferenceID:   &purchase.ID,
				ReferenceNo:   purchase.PurchaseNo,
				UserID:        &purchase.UserID,
			})
		}

		return tx.Create(&movements).Error
	})
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Items").
		First(&purchase, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &purchase, err
}

func (r *purchaseRepository) List(ctx context.Context, params *domainRepo.PurchaseFilterParams) ([]entity.Purchase, int64, error) {
	var purchases []entity.Purchase
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Purchase{})

	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}

	if params.StartDate != nil {
		query = query.Where("purchase_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("purchase_date < ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Supplier").
		Order("purchase_date DESC").
		Find(&purchases).Error

	return purchases, total, err
}

package service

import (
	"context"
	"time"

	"github.com/kasirpro/pos-api/internal/domain/entity"
	"github.com/kasirpro/pos-api/internal/domain/repository"
)

// ReportService aggregates sales figures for the reporting endpoints
type ReportService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewReportService creates a new report service
func NewReportService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *ReportService {
	return &ReportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// DailyReport is the cashier's end-of-day view
type DailyReport struct {
	Date        string                    `json:"date"`
	Summary     *repository.SalesSummary  `json:"summary"`
	TopProducts []repository.ProductSales `json:"top_products"`
	LowStock    []entity.Product          `json:"low_stock"`
}

// TodayReport builds the report for the current business day
func (s *ReportService) TodayReport(ctx context.Context) (*DailyReport, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.rangeReport(ctx, start, start.AddDate(0, 0, 1))
}

// RangeReport builds the report for [start, end)
func (s *ReportService) RangeReport(ctx context.Context, start, end time.Time) (*DailyReport, error) {
	return s.rangeReport(ctx, start, end)
}

func (s *ReportService) rangeReport(ctx context.Context, start, end time.Time) (*DailyReport, error) {
	summary, err := s.orderRepo.SalesSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.orderRepo.TopProducts(ctx, start, end, 5)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &DailyReport{
		Date:        start.Format("2006-01-02"),
		Summary:     summary,
		TopProducts: topProducts,
		LowStock:    lowStock,
	}, nil
}

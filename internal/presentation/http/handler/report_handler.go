package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kasirpro/pos-api/internal/application/service"
	"github.com/kasirpro/pos-api/internal/presentation/http/dto/response"
)

// ReportHandler handles sales report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Today returns the report for the current business day
func (h *ReportHandler) Today(c *gin.Context) {
	report, err := h.reportService.TodayReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Report retrieved successfully", report)
}

// Range returns the report for a date range; end_date is inclusive
func (h *ReportHandler) Range(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		response.BadRequest(c, "start_date and end_date are required")
		return
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		response.BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		response.BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		response.BadRequest(c, "end_date must not be before start_date")
		return
	}

	report, err := h.reportService.RangeReport(c.Request.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Report retrieved successfully", report)
}

package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasirpro/pos-api/internal/application/service"
	"github.com/kasirpro/pos-api/internal/domain/enum"
	"github.com/kasirpro/pos-api/internal/domain/repository"
	"github.com/kasirpro/pos-api/internal/presentation/http/dto/request"
	"github.com/kasirpro/pos-api/internal/presentation/http/dto/response"
	"github.com/kasirpro/pos-api/pkg/pagination"
)

// OrderHandler handles settlement, order queries, and void
type OrderHandler struct {
	checkoutService *service.CheckoutService
	userService     *service.UserService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkoutService *service.CheckoutService, userService *service.UserService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		userService:     userService,
	}
}

// Settle closes the cashier's cart into a completed order
func (h *OrderHandler) Settle(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payments := make([]service.PaymentInput, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, service.PaymentInput{
			Method:    p.Method,
			Amount:    decimal.NewFromFloat(p.Amount),
			Reference: p.Reference,
		})
	}

	order, err := h.checkoutService.Settle(c.Request.Context(), *userID, payments)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order settled successfully", order)
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	var filter request.OrderFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.Status != "" {
		if status, ok := parseOrderStatus(filter.Status); ok {
			params.Status = &status
		}
	}
	if filter.CashierID != "" {
		if cashierID, err := uuid.Parse(filter.CashierID); err == nil {
			params.CashierID = &cashierID
		}
	}
	if filter.CustomerID != "" {
		if customerID, err := uuid.Parse(filter.CustomerID); err == nil {
			params.CustomerID = &customerID
		}
	}
	if filter.StartDate != "" {
		if start, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			params.StartDate = &start
		}
	}
	if filter.EndDate != "" {
		if end, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			end = end.AddDate(0, 0, 1)
			params.EndDate = &end
		}
	}

	orders, total, err := h.checkoutService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	params.Pagination.Validate()
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	response.SuccessWithPagination(c, 200, "Orders retrieved successfully",
		pagination.NewPaginatedResult(orders, pag))
}

// Get handles getting a single order with items and payments
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Void reverses a completed order. The route is restricted to supervisors
// and admins; the service re-checks the authorizer's role.
func (h *OrderHandler) Void(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.VoidOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	authorizer, err := h.userService.GetUser(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.checkoutService.Void(c.Request.Context(), id, req.Reason, authorizer)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order voided successfully", order)
}

func parseOrderStatus(s string) (enum.OrderStatus, bool) {
	switch s {
	case "pending", "Pending":
		return enum.OrderStatusPending, true
	case "completed", "Completed":
		return enum.OrderStatusCompleted, true
	case "cancelled", "Cancelled":
		return enum.OrderStatusCancelled, true
	case "refunded", "Refunded":
		return enum.OrderStatusRefunded, true
	}
	return 0, false
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/services"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// OrderTaxHandler handles order tax lifecycle operations
type OrderTaxHandler struct {
	common       *CommonServices
	orderService *services.OrderTaxService
	logger       *zap.Logger
}

// NewOrderTaxHandler creates a handler with its dependencies
func NewOrderTaxHandler(common *CommonServices, orderService *services.OrderTaxService, logger *zap.Logger) *OrderTaxHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &OrderTaxHandler{
		common:       common,
		orderService: orderService,
		logger:       logger,
	}
}

// Recalculate godoc
// @Summary Recalculate order tax
// @Description Rebuilds packages from the submitted order snapshot and computes tax for each
// @Tags orders
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param request body RecalculateRequest true "Order snapshot"
// @Success 200 {object} TaxRecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders/{order_id}/recalculate [post]
func (h *OrderTaxHandler) Recalculate(c *gin.Context) {
	orderID := c.Param("order_id")

	var req RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Order.OrderID != "" && req.Order.OrderID != orderID {
		sendError(c, http.StatusBadRequest, "Order ID in body does not match path", nil)
		return
	}
	req.Order.OrderID = orderID

	rec, err := h.orderService.Recalculate(c.Request.Context(), services.NewSnapshotView(&req.Order), req.CertificateID, req.Certificate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotPending):
			sendError(c, http.StatusConflict, "Order tax is already captured", err)
		case errors.Is(err, services.ErrMissingCertificate):
			sendError(c, http.StatusUnprocessableEntity, "Single-purchase certificate body is required", err)
		default:
			sendError(c, http.StatusInternalServerError, "Failed to recalculate order tax", err)
		}
		return
	}

	sendSuccess(c, http.StatusOK, ToTaxRecordResponse(rec))
}

// Capture godoc
// @Summary Capture order tax
// @Description Finalizes every package of a pending order with the compliance service
// @Tags orders
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} TaxRecordResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{order_id}/capture [post]
func (h *OrderTaxHandler) Capture(c *gin.Context) {
	orderID := c.Param("order_id")

	rec, err := h.orderService.Capture(c.Request.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotPending):
			sendError(c, http.StatusConflict, "Order tax is not pending", err)
		case errors.Is(err, services.ErrRefundedOrder):
			sendError(c, http.StatusConflict, "Order has refunds recorded before capture", err)
		default:
			handleStoreError(c, err, "Order tax record not found")
		}
		return
	}

	sendSuccess(c, http.StatusOK, ToTaxRecordResponse(rec))
}

// Refund godoc
// @Summary Register a refund
// @Description Reverses refunded amounts with the compliance service
// @Tags orders
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param request body RefundRequestBody true "Refund details"
// @Success 200 {object} TaxRecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders/{order_id}/refund [post]
func (h *OrderTaxHandler) Refund(c *gin.Context) {
	orderID := c.Param("order_id")

	var body RefundRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req := business.RefundRequest{
		RefundID:    body.RefundID,
		AmountCents: body.AmountCents,
		Lines:       body.Lines,
	}

	rec, err := h.orderService.Refund(c.Request.Context(), orderID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotCaptured):
			sendError(c, http.StatusConflict, "Order tax is not captured", err)
		case errors.Is(err, services.ErrNoRefundableItems):
			sendError(c, http.StatusUnprocessableEntity, "Refund matched no taxable items", err)
		default:
			handleStoreError(c, err, "Order tax record not found")
		}
		return
	}

	sendSuccess(c, http.StatusOK, ToTaxRecordResponse(rec))
}

// GetTax godoc
// @Summary Get order tax record
// @Description Returns the persisted tax state of an order
// @Tags orders
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} TaxRecordResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{order_id}/tax [get]
func (h *OrderTaxHandler) GetTax(c *gin.Context) {
	orderID := c.Param("order_id")

	rec, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		handleStoreError(c, err, "Order tax record not found")
		return
	}

	sendSuccess(c, http.StatusOK, ToTaxRecordResponse(rec))
}

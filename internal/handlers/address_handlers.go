package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/services"
)

// AddressHandler handles address verification requests
type AddressHandler struct {
	common         *CommonServices
	addressService *services.AddressService
	logger         *zap.Logger
}

// NewAddressHandler creates a handler with its dependencies
func NewAddressHandler(common *CommonServices, addressService *services.AddressService, logger *zap.Logger) *AddressHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &AddressHandler{
		common:         common,
		addressService: addressService,
		logger:         logger,
	}
}

// VerifyAddress godoc
// @Summary Verify an address
// @Description Normalizes an address against the carrier-backed validation service
// @Tags addresses
// @Accept json
// @Produce json
// @Param request body VerifyAddressRequest true "Address"
// @Success 200 {object} VerifyAddressResponse
// @Failure 400 {object} ErrorResponse
// @Router /addresses/verify [post]
func (h *AddressHandler) VerifyAddress(c *gin.Context) {
	var req VerifyAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := h.addressService.Verify(c.Request.Context(), req.Address)
	sendSuccess(c, http.StatusOK, VerifyAddressResponse{
		Address: result.Address,
		Source:  string(result.Source),
	})
}

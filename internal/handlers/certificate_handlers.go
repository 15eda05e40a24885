package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/services"
)

// CertificateHandler handles exemption certificate operations
type CertificateHandler struct {
	common             *CommonServices
	certificateService *services.CertificateService
	logger             *zap.Logger
}

// NewCertificateHandler creates a handler with its dependencies
func NewCertificateHandler(common *CommonServices, certificateService *services.CertificateService, logger *zap.Logger) *CertificateHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &CertificateHandler{
		common:             common,
		certificateService: certificateService,
		logger:             logger,
	}
}

// ListCertificates godoc
// @Summary List exemption certificates
// @Description Lists the exemption certificates on file for a customer
// @Tags certificates
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Success 200 {array} CertificateResponse
// @Router /customers/{customer_id}/certificates [get]
func (h *CertificateHandler) ListCertificates(c *gin.Context) {
	customerID := c.Param("customer_id")

	certs, err := h.certificateService.List(c.Request.Context(), customerID)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to list certificates", err)
		return
	}

	responses := make([]CertificateResponse, 0, len(certs))
	for _, cert := range certs {
		responses = append(responses, CertificateResponse{
			CertificateID: cert.CertificateID,
			Certificate:   cert,
		})
	}
	sendSuccess(c, http.StatusOK, gin.H{
		"object": "list",
		"data":   responses,
	})
}

// AddCertificate godoc
// @Summary Add an exemption certificate
// @Description Files a new exemption certificate for a customer
// @Tags certificates
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param request body AddCertificateRequest true "Certificate"
// @Success 201 {object} CertificateResponse
// @Failure 400 {object} ErrorResponse
// @Router /customers/{customer_id}/certificates [post]
func (h *CertificateHandler) AddCertificate(c *gin.Context) {
	customerID := c.Param("customer_id")

	var req AddCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	certificateID, err := h.certificateService.Add(c.Request.Context(), customerID, req.Certificate)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to add certificate", err)
		return
	}

	req.Certificate.CertificateID = certificateID
	sendSuccess(c, http.StatusCreated, CertificateResponse{
		CertificateID: certificateID,
		Certificate:   req.Certificate,
	})
}

// DeleteCertificate godoc
// @Summary Delete an exemption certificate
// @Description Removes an exemption certificate from a customer's file
// @Tags certificates
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param certificate_id path string true "Certificate ID"
// @Success 200 {object} SuccessResponse
// @Router /customers/{customer_id}/certificates/{certificate_id} [delete]
func (h *CertificateHandler) DeleteCertificate(c *gin.Context) {
	customerID := c.Param("customer_id")
	certificateID := c.Param("certificate_id")

	if err := h.certificateService.Delete(c.Request.Context(), customerID, certificateID); err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to delete certificate", err)
		return
	}

	sendSuccessMessage(c, http.StatusOK, "Certificate deleted")
}

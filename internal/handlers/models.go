package handlers

import (
	"github.com/taxbridge/taxbridge-api/internal/repository/order"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// RecalculateRequest carries the host order snapshot a recalculation runs
// against, plus an optional exemption certificate covering the whole order.
// Certificate is the inline certificate body required the first time the
// single-purchase certificate ID is used for an order.
type RecalculateRequest struct {
	Order         business.OrderSnapshot         `json:"order" binding:"required"`
	CertificateID string                         `json:"certificate_id"`
	Certificate   *business.ExemptionCertificate `json:"certificate,omitempty"`
}

// RefundRequestBody represents the request body for registering a refund
type RefundRequestBody struct {
	RefundID    string                    `json:"refund_id"`
	AmountCents int64                     `json:"amount_cents" binding:"required"`
	Lines       []business.RefundLineItem `json:"lines"`
}

// PackageResponse represents one computed package in API responses
type PackageResponse struct {
	CartID         string                 `json:"cart_id"`
	OrderID        string                 `json:"order_id"`
	Origin         business.Address       `json:"origin"`
	Destination    business.Address       `json:"destination"`
	Items          []business.CartItem    `json:"items"`
	Fees           []business.FeeLine     `json:"fees,omitempty"`
	ShippingMethod *business.ShippingLine `json:"shipping_method,omitempty"`
	CertificateID  *string                `json:"certificate_id,omitempty"`
}

// TaxRecordResponse represents the standardized API response for order tax operations
type TaxRecordResponse struct {
	Object        string            `json:"object"`
	OrderID       string            `json:"order_id"`
	Status        string            `json:"status"`
	Packages      []PackageResponse `json:"packages"`
	AppliedTaxes  map[string]int64  `json:"applied_taxes,omitempty"`
	TotalCents    int64             `json:"total_cents"`
	RefundedCents int64             `json:"refunded_cents"`
	UpdatedAt     int64             `json:"updated_at,omitempty"`
}

// CertificateResponse represents an exemption certificate in API responses
type CertificateResponse struct {
	CertificateID string                        `json:"certificate_id"`
	Certificate   business.ExemptionCertificate `json:"certificate"`
}

// AddCertificateRequest represents the request body for adding a certificate
type AddCertificateRequest struct {
	Certificate business.ExemptionCertificate `json:"certificate" binding:"required"`
}

// VerifyAddressRequest represents the request body for address verification
type VerifyAddressRequest struct {
	Address business.Address `json:"address" binding:"required"`
}

// VerifyAddressResponse represents the outcome of an address verification
type VerifyAddressResponse struct {
	Address business.Address `json:"address"`
	Source  string           `json:"source"`
}

// ToTaxRecordResponse converts a persisted record to its response form
func ToTaxRecordResponse(rec *order.Record) TaxRecordResponse {
	resp := TaxRecordResponse{
		Object:        "order_tax",
		OrderID:       rec.Order.OrderID,
		Status:        string(rec.Order.Status),
		AppliedTaxes:  rec.Snapshot.AppliedTaxes,
		TotalCents:    rec.Snapshot.TotalCents,
		RefundedCents: rec.Snapshot.RefundedCents,
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = rec.UpdatedAt.UTC().Unix()
	}
	for _, pkg := range rec.Order.Packages {
		resp.Packages = append(resp.Packages, PackageResponse{
			CartID:         pkg.CartID,
			OrderID:        pkg.OrderID,
			Origin:         pkg.Origin,
			Destination:    pkg.Destination,
			Items:          pkg.Items,
			Fees:           pkg.Fees,
			ShippingMethod: pkg.ShippingMethod,
			CertificateID:  pkg.CertificateID,
		})
	}
	return resp
}

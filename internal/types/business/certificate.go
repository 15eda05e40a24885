package business

import "time"

// ExemptState is a single state entry on an exemption certificate.
type ExemptState struct {
	State                string `json:"state"`
	ReasonForExemption   string `json:"reason_for_exemption,omitempty"`
	IdentificationNumber string `json:"identification_number,omitempty"`
}

// ExemptionCertificate asserts a purchaser's tax-exempt status. Certificates
// are owned by a customer identity and fetched by that identity; a
// single-purchase certificate is instead bound to exactly one order.
type ExemptionCertificate struct {
	CertificateID    string        `json:"certificate_id,omitempty"`
	PurchaserName    string        `json:"purchaser_name"`
	PurchaserAddress Address       `json:"purchaser_address"`
	ExemptStates     []ExemptState `json:"exempt_states"`
	TaxIDType        string        `json:"tax_id_type"`
	TaxIDNumber      string        `json:"tax_id_number"`
	BusinessType     string        `json:"business_type"`
	ExemptionReason  string        `json:"exemption_reason"`
	CreatedAt        time.Time     `json:"created_at"`

	// SinglePurchaseOrderID binds a single-purchase certificate to the one
	// order it covers. Empty for blanket certificates.
	SinglePurchaseOrderID string `json:"single_purchase_order_id,omitempty"`
}

// SinglePurchase reports whether the certificate covers exactly one order.
func (c ExemptionCertificate) SinglePurchase() bool {
	return c.SinglePurchaseOrderID != ""
}

package taxcompliance

import (
	"context"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// ComplianceClientInterface defines the operations of the external
// tax-determination service.
type ComplianceClientInterface interface {
	// Tax determination and lifecycle
	Lookup(ctx context.Context, req LookupRequest) (*LookupResponse, error)
	AuthorizedWithCapture(ctx context.Context, req AuthorizedWithCaptureRequest) error
	Returned(ctx context.Context, req ReturnedRequest) error

	// Address validation
	VerifyAddress(ctx context.Context, addr business.Address, carrierAccountID string) (business.Address, error)

	// Exemption certificates
	GetExemptCertificates(ctx context.Context, customerID string) ([]business.ExemptionCertificate, error)
	AddExemptCertificate(ctx context.Context, customerID string, cert business.ExemptionCertificate) (string, error)
	DeleteExemptCertificate(ctx context.Context, certificateID string) error
}

// Ensure ComplianceClient implements the interface
var _ ComplianceClientInterface = (*ComplianceClient)(nil)

package taxcompliance

import (
	"context"
	"fmt"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// VerifyAddress normalizes a street address against the carrier-backed
// validation endpoint. An error here means the caller should fall back to
// the unverified address; it must never abort the enclosing flow.
func (c *ComplianceClient) VerifyAddress(ctx context.Context, addr business.Address, carrierAccountID string) (business.Address, error) {
	if err := c.checkCredentials(); err != nil {
		return business.Address{}, err
	}

	req := VerifyAddressRequest{
		APILoginID:       c.apiLoginID,
		APIKey:           c.apiKey,
		CarrierAccountID: carrierAccountID,
		WireAddress:      AddressToWire(addr),
	}

	resp, err := c.httpClient.Post(ctx, "VerifyAddress", req)
	if err != nil {
		return business.Address{}, fmt.Errorf("verify-address request failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	var verifyResp VerifyAddressResponse
	if err := c.httpClient.ProcessJSONResponse(resp, &verifyResp); err != nil {
		return business.Address{}, fmt.Errorf("failed to process verify-address response: %w", err)
	}
	if verifyResp.ErrNumber != "" && verifyResp.ErrNumber != "0" {
		return business.Address{}, fmt.Errorf("address verification error %s: %s", verifyResp.ErrNumber, verifyResp.ErrDescription)
	}

	return WireToAddress(verifyResp.WireAddress), nil
}

package taxcompliance

import (
	"context"
	"fmt"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// GetExemptCertificates lists the exemption certificates owned by a customer
// identity.
func (c *ComplianceClient) GetExemptCertificates(ctx context.Context, customerID string) ([]business.ExemptionCertificate, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	req := map[string]string{
		"apiLoginID": c.apiLoginID,
		"apiKey":     c.apiKey,
		"customerID": customerID,
	}

	resp, err := c.httpClient.Post(ctx, "GetExemptCertificates", req)
	if err != nil {
		return nil, fmt.Errorf("get-exempt-certificates request failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	var certResp certificatesResponse
	if err := c.httpClient.ProcessJSONResponse(resp, &certResp); err != nil {
		return nil, fmt.Errorf("failed to process certificates response: %w", err)
	}
	if err := apiOK("GetExemptCertificates", certResp.ResponseType, certResp.Messages); err != nil {
		return nil, err
	}

	return certResp.ExemptCertificates, nil
}

// AddExemptCertificate registers a certificate for a customer identity and
// returns the identifier assigned by the service.
func (c *ComplianceClient) AddExemptCertificate(ctx context.Context, customerID string, cert business.ExemptionCertificate) (string, error) {
	if err := c.checkCredentials(); err != nil {
		return "", err
	}

	req := struct {
		APILoginID string                        `json:"apiLoginID"`
		APIKey     string                        `json:"apiKey"`
		CustomerID string                        `json:"customerID"`
		ExemptCert business.ExemptionCertificate `json:"exemptCert"`
	}{
		CustomerID: customerID,
		ExemptCert: cert,
	}
	req.APILoginID = c.apiLoginID
	req.APIKey = c.apiKey

	resp, err := c.httpClient.Post(ctx, "AddExemptCertificate", req)
	if err != nil {
		return "", fmt.Errorf("add-exempt-certificate request failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	var addResp addCertificateResponse
	if err := c.httpClient.ProcessJSONResponse(resp, &addResp); err != nil {
		return "", fmt.Errorf("failed to process add-certificate response: %w", err)
	}
	if err := apiOK("AddExemptCertificate", addResp.ResponseType, addResp.Messages); err != nil {
		return "", err
	}

	return addResp.CertificateID, nil
}

// DeleteExemptCertificate removes a certificate by its identifier.
func (c *ComplianceClient) DeleteExemptCertificate(ctx context.Context, certificateID string) error {
	if err := c.checkCredentials(); err != nil {
		return err
	}

	req := map[string]string{
		"apiLoginID":    c.apiLoginID,
		"apiKey":        c.apiKey,
		"certificateID": certificateID,
	}

	resp, err := c.httpClient.Post(ctx, "DeleteExemptCertificate", req)
	if err != nil {
		return fmt.Errorf("delete-exempt-certificate request failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	var ack apiResponse
	if err := c.httpClient.ProcessJSONResponse(resp, &ack); err != nil {
		return fmt.Errorf("failed to process delete-certificate response: %w", err)
	}
	return apiOK("DeleteExemptCertificate", ack.ResponseType, ack.Messages)
}

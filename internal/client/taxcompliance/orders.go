package taxcompliance

import (
	"context"
	"fmt"
)

// AuthorizedWithCapture finalizes a previously looked-up package with the
// compliance service, committing its tax. The service does not guarantee
// exactly-once semantics on the caller's side; resubmitting the same
// correlation identifiers is the caller's idempotency mechanism.
func (c *ComplianceClient) AuthorizedWithCapture(ctx context.Context, req AuthorizedWithCaptureRequest) error {
	if err := c.checkCredentials(); err != nil {
		return err
	}

	req.APILoginID = c.apiLoginID
	req.APIKey = c.apiKey

	resp, err := c.httpClient.Post(ctx, "AuthorizedWithCapture", req)
	if err != nil {
		return fmt.Errorf("authorized-with-capture request failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	var ack apiResponse
	if err := c.httpClient.ProcessJSONResponse(resp, &ack); err != nil {
		return fmt.Errorf("failed to process capture response: %w", err)
	}
	return apiOK("AuthorizedWithCapture", ack.ResponseType, ack.Messages)
}

// Returned reverses tax previously captured for the given subset of a
// package's items.
func (c *ComplianceClient) Returned(ctx context.Context, req ReturnedRequest) error {
	if err := c.checkCredentials(); err != nil {
		return err
	}

	req.APILoginID = c.apiLoginID
	req.APIKey = c.apiKey

	resp, err := c.httpClient.Post(ctx, "Returned", req)
	if err != nil {
		return fmt.Errorf("returned request failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	var ack apiResponse
	if err := c.httpClient.ProcessJSONResponse(resp, &ack); err != nil {
		return fmt.Errorf("failed to process returned response: %w", err)
	}
	return apiOK("Returned", ack.ResponseType, ack.Messages)
}

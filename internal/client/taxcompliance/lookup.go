package taxcompliance

import (
	"context"
	"fmt"
)

// Lookup submits a package's items for tax determination and returns the
// per-item tax amounts. The request must carry complete origin and
// destination addresses; otherwise the call fails fast without touching the
// network. Credentials on the request are overwritten with the client's own.
func (c *ComplianceClient) Lookup(ctx context.Context, req LookupRequest) (*LookupResponse, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}
	if !req.Origin.Complete() || !req.Destination.Complete() {
		return nil, ErrIncompleteAddress
	}

	req.APILoginID = c.apiLoginID
	req.APIKey = c.apiKey

	resp, err := c.httpClient.Post(ctx, "Lookup", req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	var lookupResp LookupResponse
	if err := c.httpClient.ProcessJSONResponse(resp, &lookupResp); err != nil {
		return nil, fmt.Errorf("failed to process lookup response: %w", err)
	}
	if err := apiOK("Lookup", lookupResp.ResponseType, lookupResp.Messages); err != nil {
		return nil, err
	}

	return &lookupResp, nil
}

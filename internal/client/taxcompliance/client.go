package taxcompliance

import (
	"errors"

	httpClient "github.com/taxbridge/taxbridge-api/internal/client/http"
)

// DefaultBaseURL is the production endpoint of the compliance service.
const DefaultBaseURL = "https://api.taxcompliance.net/1.0"

var (
	// ErrMissingCredentials is returned before any network call when the
	// client has no API credentials configured.
	ErrMissingCredentials = errors.New("compliance API credentials are not configured")

	// ErrIncompleteAddress is returned before any network call when the
	// origin or destination lacks city, state or zip.
	ErrIncompleteAddress = errors.New("origin and destination must include city, state and zip")
)

// ComplianceClient talks to the external tax-determination service. It holds
// no state beyond credentials and the underlying HTTP client; retries beyond
// the transport level and timeouts are the caller's responsibility.
type ComplianceClient struct {
	apiLoginID string
	apiKey     string
	httpClient *httpClient.HTTPClient
}

// NewComplianceClient creates a client against the production endpoint.
func NewComplianceClient(apiLoginID, apiKey string) *ComplianceClient {
	return NewComplianceClientWithBaseURL(apiLoginID, apiKey, DefaultBaseURL)
}

// NewComplianceClientWithBaseURL creates a client against a specific
// endpoint. Used for sandbox credentials and tests.
func NewComplianceClientWithBaseURL(apiLoginID, apiKey, baseURL string) *ComplianceClient {
	return &ComplianceClient{
		apiLoginID: apiLoginID,
		apiKey:     apiKey,
		httpClient: httpClient.NewHTTPClient(
			httpClient.WithBaseURL(baseURL),
		),
	}
}

func (c *ComplianceClient) checkCredentials() error {
	if c.apiLoginID == "" || c.apiKey == "" {
		return ErrMissingCredentials
	}
	return nil
}

// apiOK maps a generic acknowledgment to an error when the service rejected
// the request.
func apiOK(operation string, responseType int, messages []Message) error {
	if responseType == ResponseTypeOK {
		return nil
	}
	return &APIError{Operation: operation, Messages: messages}
}

package taxcompliance

import (
	"fmt"
	"math"
	"strings"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// Response types returned by the compliance API.
const (
	ResponseTypeError = 0
	ResponseTypeOK    = 3
)

// Message is a status message attached to a compliance API response.
type Message struct {
	ResponseType int    `json:"ResponseType"`
	Message      string `json:"Message"`
}

// APIError is returned when the remote service acknowledges the request but
// rejects it at the protocol level.
type APIError struct {
	Operation string
	Messages  []Message
}

func (e *APIError) Error() string {
	parts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		parts = append(parts, m.Message)
	}
	return fmt.Sprintf("%s rejected by compliance service: %s", e.Operation, strings.Join(parts, "; "))
}

// WireAddress is the address shape accepted by the compliance API.
type WireAddress struct {
	Address1 string `json:"Address1"`
	Address2 string `json:"Address2,omitempty"`
	City     string `json:"City"`
	State    string `json:"State"`
	Zip5     string `json:"Zip5"`
	Zip4     string `json:"Zip4,omitempty"`
}

// Complete reports whether the address carries the fields the service
// requires: city, state and 5-digit zip.
func (w WireAddress) Complete() bool {
	return strings.TrimSpace(w.City) != "" &&
		strings.TrimSpace(w.State) != "" &&
		strings.TrimSpace(w.Zip5) != ""
}

// AddressToWire converts a business address to its wire form.
func AddressToWire(a business.Address) WireAddress {
	return WireAddress{
		Address1: a.Street1,
		Address2: a.Street2,
		City:     a.City,
		State:    a.State,
		Zip5:     a.Zip5,
		Zip4:     a.Zip4,
	}
}

// WireToAddress converts a wire address back to the business type. The
// service only operates domestically, so the country is fixed.
func WireToAddress(w WireAddress) business.Address {
	return business.Address{
		Street1: w.Address1,
		Street2: w.Address2,
		City:    w.City,
		State:   w.State,
		Zip5:    w.Zip5,
		Zip4:    w.Zip4,
		Country: "US",
	}
}

// WireCartItem is a taxable line as submitted to the compliance API. Prices
// are dollar amounts on the wire; amounts are cents everywhere else.
type WireCartItem struct {
	Index  int     `json:"Index"`
	ItemID string  `json:"ItemID"`
	TIC    string  `json:"TIC"`
	Price  float64 `json:"Price"`
	Qty    int64   `json:"Qty"`
}

// CartItemToWire converts a cart item to its wire form.
func CartItemToWire(item business.CartItem) WireCartItem {
	return WireCartItem{
		Index:  item.Index,
		ItemID: item.Ref.RefundKey(),
		TIC:    item.TIC,
		Price:  CentsToDollars(item.PriceCents),
		Qty:    item.Qty,
	}
}

// CentsToDollars converts a cent amount to the wire's dollar representation.
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100
}

// DollarsToCents converts a wire dollar amount to cents.
func DollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// LookupRequest asks the service to compute tax for one package. Credentials
// are injected by the client; callers leave them empty.
type LookupRequest struct {
	APILoginID        string                         `json:"apiLoginID"`
	APIKey            string                         `json:"apiKey"`
	CustomerID        string                         `json:"customerID"`
	CartID            string                         `json:"cartID"`
	CartItems         []WireCartItem                 `json:"cartItems"`
	Origin            WireAddress                    `json:"origin"`
	Destination       WireAddress                    `json:"destination"`
	DeliveredBySeller bool                           `json:"deliveredBySeller"`
	ExemptCert        *business.ExemptionCertificate `json:"exemptCert,omitempty"`
}

// LookupResponseItem carries the computed tax for one cart item.
type LookupResponseItem struct {
	CartItemIndex int     `json:"CartItemIndex"`
	TaxAmount     float64 `json:"TaxAmount"`
}

// LookupResponse is the service's answer to a Lookup.
type LookupResponse struct {
	CartID            string               `json:"CartID"`
	CartItemsResponse []LookupResponseItem `json:"CartItemsResponse"`
	ResponseType      int                  `json:"ResponseType"`
	Messages          []Message            `json:"Messages,omitempty"`
}

// TaxByIndex returns the per-item tax amounts in cents, keyed by cart item
// index.
func (r *LookupResponse) TaxByIndex() map[int]int64 {
	taxes := make(map[int]int64, len(r.CartItemsResponse))
	for _, item := range r.CartItemsResponse {
		taxes[item.CartItemIndex] = DollarsToCents(item.TaxAmount)
	}
	return taxes
}

// AuthorizedWithCaptureRequest finalizes a package with the service.
type AuthorizedWithCaptureRequest struct {
	APILoginID     string `json:"apiLoginID"`
	APIKey         string `json:"apiKey"`
	CustomerID     string `json:"customerID"`
	CartID         string `json:"cartID"`
	OrderID        string `json:"orderID"`
	DateAuthorized string `json:"dateAuthorized"`
	DateCaptured   string `json:"dateCaptured"`
}

// ReturnedRequest reverses tax previously captured for some or all items in
// a package.
type ReturnedRequest struct {
	APILoginID   string         `json:"apiLoginID"`
	APIKey       string         `json:"apiKey"`
	OrderID      string         `json:"orderID"`
	CartItems    []WireCartItem `json:"cartItems"`
	ReturnedDate string         `json:"returnedDate"`
}

// VerifyAddressRequest asks the carrier-backed validation service to
// normalize an address.
type VerifyAddressRequest struct {
	APILoginID       string `json:"apiLoginID"`
	APIKey           string `json:"apiKey"`
	CarrierAccountID string `json:"carrierAccountID"`
	WireAddress
}

// VerifyAddressResponse carries the normalized address or a carrier error.
type VerifyAddressResponse struct {
	WireAddress
	ErrNumber      string `json:"ErrNumber"`
	ErrDescription string `json:"ErrDescription,omitempty"`
}

// apiResponse is the generic acknowledgment shape.
type apiResponse struct {
	ResponseType int       `json:"ResponseType"`
	Messages     []Message `json:"Messages,omitempty"`
}

// certificatesResponse wraps the certificate list endpoint.
type certificatesResponse struct {
	ExemptCertificates []business.ExemptionCertificate `json:"ExemptCertificates"`
	ResponseType       int                             `json:"ResponseType"`
	Messages           []Message                       `json:"Messages,omitempty"`
}

// addCertificateResponse wraps the certificate creation endpoint.
type addCertificateResponse struct {
	CertificateID string    `json:"CertificateID"`
	ResponseType  int       `json:"ResponseType"`
	Messages      []Message `json:"Messages,omitempty"`
}

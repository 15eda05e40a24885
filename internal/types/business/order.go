package business

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/taxbridge/taxbridge-api/internal/constants"
)

// TaxStatus is the tax lifecycle state of an order. Transitions are one-way:
// pending -> captured -> refunded, and refunded is terminal.
type TaxStatus string

const (
	TaxStatusPending  TaxStatus = "pending"
	TaxStatusCaptured TaxStatus = "captured"
	TaxStatusRefunded TaxStatus = "refunded"
)

// ItemKind classifies a taxable line within a package.
type ItemKind string

const (
	ItemKindProduct  ItemKind = "product"
	ItemKindShipping ItemKind = "shipping"
	ItemKindFee      ItemKind = "fee"
)

// ItemRef identifies the order line a CartItem was derived from.
type ItemRef struct {
	Kind        ItemKind `json:"kind"`
	ProductID   int64    `json:"product_id,omitempty"`
	VariationID int64    `json:"variation_id,omitempty"`
	Name        string   `json:"name,omitempty"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and replaces runs of non-alphanumeric characters
// with single hyphens.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// RefundKey derives the identifier used both on the wire as the cart item ID
// and for refund allocation: variation ID if present else product ID for
// products, the generic shipping token for shipping charges, and the
// slugified fee name for fees. Unknown kinds return "".
func (r ItemRef) RefundKey() string {
	switch r.Kind {
	case ItemKindProduct:
		if r.VariationID > 0 {
			return strconv.FormatInt(r.VariationID, 10)
		}
		return strconv.FormatInt(r.ProductID, 10)
	case ItemKindShipping:
		return constants.ShippingRefundKey
	case ItemKindFee:
		return Slugify(r.Name)
	default:
		return ""
	}
}

// CartItem is a single taxable line within a package. Index is assigned in
// insertion order at build time and is part of the external correlation key,
// so it must be stable across a single build.
type CartItem struct {
	Index      int     `json:"index"`
	Ref        ItemRef `json:"ref"`
	TIC        string  `json:"tic"`
	PriceCents int64   `json:"price_cents"`
	Qty        int64   `json:"qty"`
}

// LineTotalCents returns price multiplied by quantity.
func (c CartItem) LineTotalCents() int64 {
	return c.PriceCents * c.Qty
}

// OrderLine is a host-platform order line as consumed by the package builder.
type OrderLine struct {
	LineID           int64    `json:"line_id"`
	ProductID        int64    `json:"product_id"`
	VariationID      int64    `json:"variation_id,omitempty"`
	TIC              string   `json:"tic,omitempty"`
	Qty              int64    `json:"qty"`
	UnitPriceCents   int64    `json:"unit_price_cents"`
	SubtotalCents    int64    `json:"subtotal_cents"`
	RequiresShipping bool     `json:"requires_shipping"`
	ShipFrom         *Address `json:"ship_from,omitempty"`
}

// Ref returns the item reference for this line.
func (l OrderLine) Ref() ItemRef {
	return ItemRef{Kind: ItemKindProduct, ProductID: l.ProductID, VariationID: l.VariationID}
}

// FeeLine is an order-level fee (name and amount).
type FeeLine struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	TIC         string `json:"tic,omitempty"`
}

// ShippingLine is a host-platform shipping charge.
type ShippingLine struct {
	ID            int64  `json:"id"`
	MethodID      string `json:"method_id"`
	Label         string `json:"label,omitempty"`
	CostCents     int64  `json:"cost_cents"`
	IsLocalPickup bool   `json:"is_local_pickup,omitempty"`
}

// RefundLineItem is a single line of a host refund. Totals are negative, as
// delivered by the host platform.
type RefundLineItem struct {
	Ref        ItemRef `json:"ref"`
	Qty        int64   `json:"qty,omitempty"`
	TotalCents int64   `json:"total_cents"`
}

// RefundRequest describes a host refund event. Lines may be empty, in which
// case the refund applies across all order items.
type RefundRequest struct {
	RefundID    string           `json:"refund_id,omitempty"`
	AmountCents int64            `json:"amount_cents"`
	Lines       []RefundLineItem `json:"lines,omitempty"`
}

// OrderSnapshot is the tax-facing view of a host order, captured at the time
// a trigger event is delivered. It is persisted alongside the tax record so
// the reconciliation job can rebuild reference packages offline.
type OrderSnapshot struct {
	OrderID         string         `json:"order_id"`
	CustomerID      string         `json:"customer_id"`
	Lines           []OrderLine    `json:"lines"`
	Fees            []FeeLine      `json:"fees,omitempty"`
	ShippingLines   []ShippingLine `json:"shipping_lines,omitempty"`
	BillingAddress  Address        `json:"billing_address"`
	ShippingAddress Address        `json:"shipping_address"`
	TotalCents      int64          `json:"total_cents"`
	RefundedCents   int64          `json:"refunded_cents"`

	// AppliedTaxes holds per-item tax amounts written back by the last
	// recalculation, keyed by refund key. Both the host line's total and
	// subtotal tax buckets receive the same value.
	AppliedTaxes map[string]int64 `json:"applied_taxes,omitempty"`
}

// TaxOrder is the persisted tax lifecycle state of one order.
type TaxOrder struct {
	OrderID                   string                `json:"order_id"`
	Status                    TaxStatus             `json:"status"`
	Packages                  []Package             `json:"packages"`
	CertificateID             *string               `json:"certificate_id,omitempty"`
	SinglePurchaseCertificate *ExemptionCertificate `json:"single_purchase_certificate,omitempty"`

	// RemovedPackages is the audit trail of packages voided by the
	// reconciliation job.
	RemovedPackages []Package `json:"removed_packages,omitempty"`

	SchemaVersion string `json:"schema_version"`
}

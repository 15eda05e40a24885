package business

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/taxbridge/taxbridge-api/internal/constants"
)

// Package is a subset of an order's items grouped by ship-from origin and
// shipping method, submitted as one unit to the compliance service. CartID
// and OrderID are the external correlation identifiers; the raw payloads are
// retained for audit and idempotent resubmission.
type Package struct {
	CartID         string          `json:"cart_id"`
	OrderID        string          `json:"order_id"`
	Origin         Address         `json:"origin"`
	Destination    Address         `json:"destination"`
	Items          []CartItem      `json:"items"`
	Fees           []FeeLine       `json:"fees,omitempty"`
	ShippingMethod *ShippingLine   `json:"shipping_method,omitempty"`
	CertificateID  *string         `json:"certificate_id,omitempty"`
	RawRequest     json.RawMessage `json:"raw_request,omitempty"`
	RawResponse    json.RawMessage `json:"raw_response,omitempty"`
}

// normalizedItem is the structural view of a cart item used for package
// equality. Line total and subtotal are equal in the current model (tax
// compounding is not supported) but both participate in the hash.
type normalizedItem struct {
	Kind         ItemKind `json:"kind"`
	ProductID    int64    `json:"product_id"`
	VariationID  int64    `json:"variation_id"`
	Name         string   `json:"name"`
	Qty          int64    `json:"qty"`
	LineTotal    int64    `json:"line_total_cents"`
	LineSubtotal int64    `json:"line_subtotal_cents"`
}

type normalizedPackage struct {
	Origin         Address          `json:"origin"`
	Destination    Address          `json:"destination"`
	Items          []normalizedItem `json:"items"`
	Fees           []FeeLine        `json:"fees"`
	ShippingMethod string           `json:"shipping_method"`
	ShippingCost   int64            `json:"shipping_cost_cents"`
	CertificateID  string           `json:"certificate_id"`
}

// NormalizedHash returns a structural hash of the package with non-semantic
// fields (correlation IDs, raw payloads, item ordering) stripped. Two
// packages with the same hash are considered the same submission.
func (p Package) NormalizedHash() string {
	n := normalizedPackage{
		Origin:      p.Origin.Normalized(),
		Destination: p.Destination.Normalized(),
		Items:       make([]normalizedItem, 0, len(p.Items)),
		Fees:        append([]FeeLine(nil), p.Fees...),
	}
	for _, it := range p.Items {
		n.Items = append(n.Items, normalizedItem{
			Kind:         it.Ref.Kind,
			ProductID:    it.Ref.ProductID,
			VariationID:  it.Ref.VariationID,
			Name:         it.Ref.Name,
			Qty:          it.Qty,
			LineTotal:    it.LineTotalCents(),
			LineSubtotal: it.LineTotalCents(),
		})
	}
	sort.Slice(n.Items, func(i, j int) bool {
		a, b := n.Items[i], n.Items[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.VariationID != b.VariationID {
			return a.VariationID < b.VariationID
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Qty != b.Qty {
			return a.Qty < b.Qty
		}
		return a.LineTotal < b.LineTotal
	})
	sort.Slice(n.Fees, func(i, j int) bool {
		if n.Fees[i].Name != n.Fees[j].Name {
			return n.Fees[i].Name < n.Fees[j].Name
		}
		return n.Fees[i].AmountCents < n.Fees[j].AmountCents
	})
	if p.ShippingMethod != nil {
		n.ShippingMethod = p.ShippingMethod.MethodID
		n.ShippingCost = p.ShippingMethod.CostCents
	}
	if p.CertificateID != nil {
		n.CertificateID = *p.CertificateID
	}

	payload, _ := json.Marshal(n)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// packagesRecord is the versioned on-disk shape of a saved package list.
const packagesRecordVersion = 2

type packagesRecord struct {
	Version  int       `json:"version"`
	Packages []Package `json:"packages"`
}

// legacyPackage is the pre-normalization shape written by historical
// versions: bare array, abbreviated address keys, dollar floats.
type legacyPackage struct {
	CartID      string          `json:"CartID"`
	OrderID     string          `json:"OrderID"`
	Origin      legacyAddress   `json:"Origin"`
	Destination legacyAddress   `json:"Destination"`
	Items       []legacyItem    `json:"Items"`
	Certificate string          `json:"CertificateID,omitempty"`
	Request     json.RawMessage `json:"Request,omitempty"`
	Response    json.RawMessage `json:"Response,omitempty"`
}

type legacyAddress struct {
	Address1 string `json:"Address1"`
	Address2 string `json:"Address2"`
	City     string `json:"City"`
	State    string `json:"State"`
	Zip5     string `json:"Zip5"`
	Zip4     string `json:"Zip4"`
}

type legacyItem struct {
	Index  int     `json:"Index"`
	ItemID string  `json:"ItemID"`
	TIC    string  `json:"TIC"`
	Price  float64 `json:"Price"`
	Qty    int64   `json:"Qty"`
}

// EncodePackages serializes a package list in the current versioned format.
func EncodePackages(pkgs []Package) (json.RawMessage, error) {
	raw, err := json.Marshal(packagesRecord{Version: packagesRecordVersion, Packages: pkgs})
	if err != nil {
		return nil, fmt.Errorf("failed to encode packages: %w", err)
	}
	return raw, nil
}

// DecodePackages deserializes a saved package list, migrating the legacy
// bare-array format in one pass when encountered. Callers decode once per
// order on first read; use sites never branch on shape.
func DecodePackages(raw json.RawMessage) ([]Package, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	trimmed := firstNonSpace(raw)
	if trimmed == '[' {
		return migrateLegacyPackages(raw)
	}

	var rec packagesRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}
	return rec.Packages, nil
}

func migrateLegacyPackages(raw json.RawMessage) ([]Package, error) {
	var legacy []legacyPackage
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("failed to decode legacy packages: %w", err)
	}

	pkgs := make([]Package, 0, len(legacy))
	for _, lp := range legacy {
		p := Package{
			CartID:      lp.CartID,
			OrderID:     lp.OrderID,
			Origin:      lp.Origin.upgrade(),
			Destination: lp.Destination.upgrade(),
			RawRequest:  lp.Request,
			RawResponse: lp.Response,
		}
		if lp.Certificate != "" {
			cert := lp.Certificate
			p.CertificateID = &cert
		}
		for _, li := range lp.Items {
			p.Items = append(p.Items, CartItem{
				Index:      li.Index,
				Ref:        legacyItemRef(li.ItemID),
				TIC:        li.TIC,
				PriceCents: dollarsToCents(li.Price),
				Qty:        li.Qty,
			})
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, nil
}

func (a legacyAddress) upgrade() Address {
	return Address{
		Street1: a.Address1,
		Street2: a.Address2,
		City:    a.City,
		State:   a.State,
		Zip5:    a.Zip5,
		Zip4:    a.Zip4,
		Country: "US",
	}
}

func legacyItemRef(itemID string) ItemRef {
	if itemID == constants.ShippingRefundKey {
		return ItemRef{Kind: ItemKindShipping}
	}
	// Only a fully numeric ItemID is a product; fee slugs may start with a
	// digit ("2-day-handling").
	if id, err := strconv.ParseInt(itemID, 10, 64); err == nil {
		return ItemRef{Kind: ItemKindProduct, ProductID: id}
	}
	return ItemRef{Kind: ItemKindFee, Name: itemID}
}

func dollarsToCents(d float64) int64 {
	return int64(math.Round(d * 100))
}

func firstNonSpace(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}

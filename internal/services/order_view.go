package services

import (
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// OrderView is the narrow view of a host order the tax components depend on.
// Host integrations implement it with an adapter over their own order
// object; the core never reaches into host structures directly.
type OrderView interface {
	ID() string
	Customer() string
	Lines() []business.OrderLine
	FeeLines() []business.FeeLine
	ShippingLines() []business.ShippingLine
	BillingAddress() business.Address
	ShippingAddress() business.Address
	TotalCents() int64
	RefundedCents() int64

	// SetItemTax writes a computed tax amount back onto the order line
	// identified by its refund key. The host applies the same value to both
	// the line's total and subtotal tax buckets; compounding is not
	// supported.
	SetItemTax(key string, taxCents int64)
}

// snapshotView adapts a persisted order snapshot to OrderView. Written taxes
// land in the snapshot's AppliedTaxes map, which the API hands back to the
// host.
type snapshotView struct {
	snap *business.OrderSnapshot
}

// NewSnapshotView wraps an order snapshot in the OrderView interface.
func NewSnapshotView(snap *business.OrderSnapshot) OrderView {
	return &snapshotView{snap: snap}
}

func (v *snapshotView) ID() string                               { return v.snap.OrderID }
func (v *snapshotView) Customer() string                         { return v.snap.CustomerID }
func (v *snapshotView) Lines() []business.OrderLine              { return v.snap.Lines }
func (v *snapshotView) FeeLines() []business.FeeLine             { return v.snap.Fees }
func (v *snapshotView) ShippingLines() []business.ShippingLine   { return v.snap.ShippingLines }
func (v *snapshotView) BillingAddress() business.Address         { return v.snap.BillingAddress }
func (v *snapshotView) ShippingAddress() business.Address        { return v.snap.ShippingAddress }
func (v *snapshotView) TotalCents() int64                        { return v.snap.TotalCents }
func (v *snapshotView) RefundedCents() int64                     { return v.snap.RefundedCents }

func (v *snapshotView) SetItemTax(key string, taxCents int64) {
	if v.snap.AppliedTaxes == nil {
		v.snap.AppliedTaxes = make(map[string]int64)
	}
	v.snap.AppliedTaxes[key] = taxCents
}

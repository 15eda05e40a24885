package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/client/taxcompliance"
	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/constants"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/repository/order"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// State machine violations. These are caller errors detected before any
// network call is made.
var (
	ErrNotPending         = errors.New("order tax is not in the pending state")
	ErrNotCaptured        = errors.New("order tax is not in the captured state")
	ErrRefundedOrder      = errors.New("order already has refunds recorded")
	ErrNoRefundableItems  = errors.New("refund matched no taxable items")
	ErrMissingCertificate = errors.New("no single-purchase certificate on file for this order")
)

// OrderTaxService drives the tax lifecycle of an order: pending while the
// cart is still changing, captured once the transaction is finalized with
// the compliance service, refunded after full reversal. Transitions are
// one-way.
type OrderTaxService struct {
	repo      order.Repository
	client    taxcompliance.ComplianceClientInterface
	packages  *PackageService
	addresses *AddressService
	emails    *EmailService
	cfg       config.TaxConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderTaxService(
	repo order.Repository,
	client taxcompliance.ComplianceClientInterface,
	packages *PackageService,
	addresses *AddressService,
	emails *EmailService,
	cfg config.TaxConfig,
) *OrderTaxService {
	return &OrderTaxService{
		repo:      repo,
		client:    client,
		packages:  packages,
		addresses: addresses,
		emails:    emails,
		cfg:       cfg,
		logger:    logger.Log,
		now:       time.Now,
	}
}

// Get returns the persisted tax record for an order.
func (s *OrderTaxService) Get(ctx context.Context, orderID string) (*order.Record, error) {
	return s.repo.Get(ctx, orderID)
}

// verifiedView overrides the shipping address of an order view with its
// carrier-verified form.
type verifiedView struct {
	OrderView
	shipping business.Address
}

func (v verifiedView) ShippingAddress() business.Address { return v.shipping }

// Recalculate rebuilds the order's packages and computes tax for each of
// them, writing per-item amounts back onto the view. It may run any number
// of times while the order is pending; once captured the amounts are final
// and recalculation is rejected.
//
// certificateID, when non-empty, marks the whole order exempt under that
// certificate and becomes part of every package. The single-purchase sentinel
// uses inlineCert instead of a registered certificate: the first call must
// supply it, and it is stored on the record for later recalculations.
func (s *OrderTaxService) Recalculate(ctx context.Context, view OrderView, certificateID string, inlineCert *business.ExemptionCertificate) (*order.Record, error) {
	rec, err := s.repo.Get(ctx, view.ID())
	if err != nil && !errors.Is(err, order.ErrNotFound) {
		return nil, errors.Wrap(err, "loading tax record")
	}
	if rec != nil && rec.Order.Status != business.TaxStatusPending {
		return nil, ErrNotPending
	}
	if rec == nil {
		rec = &order.Record{
			Order: business.TaxOrder{
				OrderID: view.ID(),
				Status:  business.TaxStatusPending,
			},
		}
	}

	var cert *business.ExemptionCertificate
	if certificateID == constants.CertificateIDSinglePurchase {
		if inlineCert != nil {
			ic := *inlineCert
			ic.SinglePurchaseOrderID = view.ID()
			rec.Order.SinglePurchaseCertificate = &ic
		}
		if rec.Order.SinglePurchaseCertificate == nil {
			return nil, ErrMissingCertificate
		}
		cert = rec.Order.SinglePurchaseCertificate
	} else if certificateID != "" {
		cert = &business.ExemptionCertificate{CertificateID: certificateID}
	}

	verified := s.addresses.Verify(ctx, view.ShippingAddress())
	vview := verifiedView{OrderView: view, shipping: verified.Address}
	built := s.packages.Build(vview)

	if certificateID != "" {
		for i := range built {
			id := certificateID
			built[i].CertificateID = &id
		}
	}

	taxTotals := make(map[string]int64)
	for i := range built {
		pkg := &built[i]

		req := taxcompliance.LookupRequest{
			CustomerID:        view.Customer(),
			CartID:            pkg.CartID,
			Origin:            taxcompliance.AddressToWire(pkg.Origin),
			Destination:       taxcompliance.AddressToWire(pkg.Destination),
			DeliveredBySeller: pkg.ShippingMethod != nil && pkg.ShippingMethod.IsLocalPickup,
			ExemptCert:        cert,
		}
		for _, item := range pkg.Items {
			req.CartItems = append(req.CartItems, taxcompliance.CartItemToWire(item))
		}

		// Persist the request without credentials for later audit and
		// reconciliation.
		if raw, err := json.Marshal(req); err == nil {
			pkg.RawRequest = raw
		}

		resp, err := s.client.Lookup(ctx, req)
		if err != nil {
			return nil, errors.Wrapf(err, "looking up tax for cart %s", pkg.CartID)
		}
		if raw, err := json.Marshal(resp); err == nil {
			pkg.RawResponse = raw
		}

		taxes := resp.TaxByIndex()
		for _, item := range pkg.Items {
			key := item.Ref.RefundKey()
			if key == "" {
				continue
			}
			taxTotals[key] += taxes[item.Index]
		}
	}

	for key, cents := range taxTotals {
		view.SetItemTax(key, cents)
	}

	rec.Order.Packages = built
	rec.Order.SchemaVersion = constants.SchemaVersionCurrent
	if certificateID != "" {
		id := certificateID
		rec.Order.CertificateID = &id
	} else {
		rec.Order.CertificateID = nil
	}
	rec.Snapshot = snapshotFromView(vview, taxTotals)

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "saving tax record")
	}

	s.logger.Info("recalculated order tax",
		zap.String("order_id", view.ID()),
		zap.Int("packages", len(built)))
	return rec, nil
}

// Capture finalizes every package of a pending order with the compliance
// service and marks the order captured. A failure part-way through aborts
// without reversing already-captured packages: the order stays pending and
// the call can be retried, since the service treats resubmission of a
// captured cart as a no-op.
func (s *OrderTaxService) Capture(ctx context.Context, orderID string) (*order.Record, error) {
	rec, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rec.Order.Status != business.TaxStatusPending {
		return nil, ErrNotPending
	}
	if rec.Snapshot.RefundedCents > 0 {
		return nil, ErrRefundedOrder
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	for _, pkg := range rec.Order.Packages {
		req := taxcompliance.AuthorizedWithCaptureRequest{
			CustomerID:     rec.Snapshot.CustomerID,
			CartID:         pkg.CartID,
			OrderID:        pkg.OrderID,
			DateAuthorized: stamp,
			DateCaptured:   stamp,
		}
		if err := s.client.AuthorizedWithCapture(ctx, req); err != nil {
			err = errors.Wrapf(err, "capturing cart %s", pkg.CartID)
			s.logger.Error("capture aborted",
				zap.String("order_id", orderID),
				zap.Error(err))
			s.emails.SendCaptureFailure(ctx, orderID, err)
			return nil, err
		}
	}

	rec.Order.Status = business.TaxStatusCaptured
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "saving captured record")
	}

	s.logger.Info("captured order tax",
		zap.String("order_id", orderID),
		zap.Int("packages", len(rec.Order.Packages)))
	return rec, nil
}

// Refund reverses refunded amounts with the compliance service. Partial
// refunds leave the order captured; once cumulative refunds reach the order
// total the order becomes refunded, which is terminal.
func (s *OrderTaxService) Refund(ctx context.Context, orderID string, req business.RefundRequest) (*order.Record, error) {
	rec, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rec.Order.Status != business.TaxStatusCaptured {
		return nil, ErrNotCaptured
	}

	remaining := AllocateRefund(req.Lines)
	if len(remaining) == 0 {
		remaining = fullRefundAllocation(rec.Order.Packages)
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	processed := 0
	for _, pkg := range rec.Order.Packages {
		items := refundItemsForPackage(pkg, remaining)
		if len(items) == 0 {
			continue
		}

		returned := taxcompliance.ReturnedRequest{
			OrderID:      pkg.OrderID,
			CartItems:    items,
			ReturnedDate: stamp,
		}
		if err := s.client.Returned(ctx, returned); err != nil {
			return nil, errors.Wrapf(err, "returning items for cart %s", pkg.CartID)
		}
		processed++
	}
	if processed == 0 {
		return nil, ErrNoRefundableItems
	}

	amount := req.AmountCents
	if amount < 0 {
		amount = -amount
	}
	rec.Snapshot.RefundedCents += amount
	if rec.Snapshot.RefundedCents >= rec.Snapshot.TotalCents {
		rec.Order.Status = business.TaxStatusRefunded
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "saving refunded record")
	}

	s.logger.Info("processed refund",
		zap.String("order_id", orderID),
		zap.String("status", string(rec.Order.Status)),
		zap.Int64("refunded_cents", rec.Snapshot.RefundedCents))
	return rec, nil
}

// refundItemsForPackage selects the wire items of one package covered by the
// remaining refund allocation, consuming the allocation as it goes. An
// amount smaller than one unit is reversed as a single item at the residual
// price.
func refundItemsForPackage(pkg business.Package, remaining map[string]int64) []taxcompliance.WireCartItem {
	var items []taxcompliance.WireCartItem
	for _, item := range pkg.Items {
		key := item.Ref.RefundKey()
		rem := remaining[key]
		if rem <= 0 || item.PriceCents <= 0 {
			continue
		}

		qty := rem / item.PriceCents
		if qty > item.Qty {
			qty = item.Qty
		}

		wire := taxcompliance.WireCartItem{
			Index:  item.Index,
			ItemID: key,
			TIC:    item.TIC,
		}
		if qty == 0 {
			wire.Qty = 1
			wire.Price = taxcompliance.CentsToDollars(rem)
			remaining[key] = 0
		} else {
			wire.Qty = qty
			wire.Price = taxcompliance.CentsToDollars(item.PriceCents)
			remaining[key] -= qty * item.PriceCents
		}
		items = append(items, wire)
	}
	return items
}

// fullRefundAllocation covers every item in every package at its full line
// total, for refunds delivered without line detail.
func fullRefundAllocation(pkgs []business.Package) map[string]int64 {
	alloc := make(map[string]int64)
	for _, pkg := range pkgs {
		for _, item := range pkg.Items {
			key := item.Ref.RefundKey()
			if key == "" {
				continue
			}
			alloc[key] += item.LineTotalCents()
		}
	}
	return alloc
}

func snapshotFromView(view OrderView, taxes map[string]int64) business.OrderSnapshot {
	return business.OrderSnapshot{
		OrderID:         view.ID(),
		CustomerID:      view.Customer(),
		Lines:           view.Lines(),
		Fees:            view.FeeLines(),
		ShippingLines:   view.ShippingLines(),
		BillingAddress:  view.BillingAddress(),
		ShippingAddress: view.ShippingAddress(),
		TotalCents:      view.TotalCents(),
		RefundedCents:   view.RefundedCents(),
		AppliedTaxes:    taxes,
	}
}

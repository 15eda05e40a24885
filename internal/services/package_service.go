package services

import (
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/constants"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// PackageService partitions an order's line items, fees and shipping charges
// into packages suitable for submission to the compliance service. Builds
// are deterministic for a given order snapshot: cart item indices are
// assigned in insertion order and the package sequence is stable, because
// both are part of the external correlation key.
type PackageService struct {
	cfg    config.TaxConfig
	logger *zap.Logger
}

func NewPackageService(cfg config.TaxConfig) *PackageService {
	return &PackageService{cfg: cfg, logger: logger.Log}
}

// candidate is a package under construction, before origin re-keying.
type candidate struct {
	lines    []business.OrderLine
	dest     business.Address
	shipping *business.ShippingLine
	pickup   bool
}

// Build produces the package list for one order. An order with no shippable
// and no virtual items yields an empty list and no tax lookup is performed.
func (s *PackageService) Build(view OrderView) []business.Package {
	var virtual, shippable []business.OrderLine
	for _, line := range view.Lines() {
		if line.RequiresShipping {
			shippable = append(shippable, line)
		} else {
			virtual = append(virtual, line)
		}
	}

	var candidates []candidate

	// Items that never ship are taxed against the billing address.
	if len(virtual) > 0 {
		candidates = append(candidates, candidate{
			lines: virtual,
			dest:  view.BillingAddress(),
		})
	}

	shippingLines := view.ShippingLines()
	switch {
	case len(shippable) > 0 && len(shippingLines) > 0:
		// Split shippable items evenly across shipping lines, ceiling
		// division, one candidate per shipping line.
		chunk := (len(shippable) + len(shippingLines) - 1) / len(shippingLines)
		for i := range shippingLines {
			sl := shippingLines[i]
			start := i * chunk
			if start > len(shippable) {
				start = len(shippable)
			}
			end := start + chunk
			if end > len(shippable) {
				end = len(shippable)
			}
			candidates = append(candidates, candidate{
				lines:    shippable[start:end],
				dest:     view.ShippingAddress(),
				shipping: &sl,
				pickup:   sl.IsLocalPickup,
			})
		}
	case len(shippable) > 0:
		candidates = append(candidates, candidate{
			lines: shippable,
			dest:  view.ShippingAddress(),
		})
	}

	var packages []business.Package
	for _, cand := range candidates {
		packages = append(packages, s.splitByOrigin(cand)...)
	}

	// Order-level fees ride on the first package only.
	if fees := view.FeeLines(); len(fees) > 0 && len(packages) > 0 {
		first := &packages[0]
		first.Fees = append(first.Fees, fees...)
		for _, fee := range fees {
			tic := fee.TIC
			if tic == "" {
				tic = constants.TICFee
			}
			first.Items = append(first.Items, business.CartItem{
				Index:      len(first.Items),
				Ref:        business.ItemRef{Kind: business.ItemKindFee, Name: fee.Name},
				TIC:        tic,
				PriceCents: fee.AmountCents,
				Qty:        1,
			})
		}
	}

	// Correlation identifiers: the first package reuses the owning order's
	// ID so retried submissions address the same remote order; subsequent
	// packages append their sequence number.
	for i := range packages {
		packages[i].CartID = uuid.NewString()
		if i == 0 {
			packages[i].OrderID = view.ID()
		} else {
			packages[i].OrderID = view.ID() + "-" + strconv.Itoa(i)
		}
	}

	s.logger.Debug("built packages",
		zap.String("order_id", view.ID()),
		zap.Int("count", len(packages)))

	return packages
}

// splitByOrigin re-keys one candidate by ship-from origin, producing one
// package per distinct origin. The shipping charge attaches to the first
// origin's package. Packages whose resolved destination is incomplete are
// dropped.
func (s *PackageService) splitByOrigin(cand candidate) []business.Package {
	type originGroup struct {
		origin business.Address
		lines  []business.OrderLine
	}

	var groups []originGroup
	seen := make(map[string]int)
	for _, line := range cand.lines {
		origin := s.cfg.DefaultOrigin
		if line.ShipFrom != nil {
			origin = *line.ShipFrom
		}
		key := origin.Hash()
		idx, ok := seen[key]
		if !ok {
			idx = len(groups)
			seen[key] = idx
			groups = append(groups, originGroup{origin: origin})
		}
		groups[idx].lines = append(groups[idx].lines, line)
	}

	// A shipping-only candidate still yields one package so the service
	// can confirm tax on the charge itself.
	if len(groups) == 0 && cand.shipping != nil {
		groups = append(groups, originGroup{origin: s.cfg.DefaultOrigin})
	}

	var packages []business.Package
	for gi, group := range groups {
		dest := cand.dest
		if cand.pickup {
			// Local pickup is taxed at the pickup location.
			dest = group.origin
		}
		if !dest.Valid() {
			s.logger.Warn("dropping package with incomplete destination",
				zap.String("city", dest.City),
				zap.String("state", dest.State))
			continue
		}

		pkg := business.Package{
			Origin:      group.origin,
			Destination: dest,
		}
		for _, line := range group.lines {
			price, qty := s.taxableAmount(line)
			tic := line.TIC
			if tic == "" {
				tic = constants.TICGeneral
			}
			pkg.Items = append(pkg.Items, business.CartItem{
				Index:      len(pkg.Items),
				Ref:        line.Ref(),
				TIC:        tic,
				PriceCents: price,
				Qty:        qty,
			})
		}
		if gi == 0 && cand.shipping != nil {
			// Zero-cost shipping is still submitted so the service can
			// confirm zero tax.
			pkg.ShippingMethod = cand.shipping
			pkg.Items = append(pkg.Items, business.CartItem{
				Index:      len(pkg.Items),
				Ref:        business.ItemRef{Kind: business.ItemKindShipping, Name: cand.shipping.MethodID},
				TIC:        constants.TICShipping,
				PriceCents: cand.shipping.CostCents,
				Qty:        1,
			})
		}
		packages = append(packages, pkg)
	}
	return packages
}

// taxableAmount derives a cart item's price and quantity under the
// configured taxable-basis policy, preserving the invariant that
// price times quantity equals the line's taxable amount.
func (s *PackageService) taxableAmount(line business.OrderLine) (priceCents, qty int64) {
	if s.cfg.PriceBasis == config.BasisLineSubtotal {
		if line.Qty > 0 && line.SubtotalCents%line.Qty == 0 {
			return line.SubtotalCents / line.Qty, line.Qty
		}
		// Subtotal does not divide evenly; collapse to a single unit so
		// the taxable amount stays exact.
		return line.SubtotalCents, 1
	}
	return line.UnitPriceCents, line.Qty
}

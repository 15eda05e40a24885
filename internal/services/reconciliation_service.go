package services

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/client/taxcompliance"
	"github.com/taxbridge/taxbridge-api/internal/constants"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/repository/order"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// ReconciliationResults summarizes one page of reconciliation work.
type ReconciliationResults struct {
	Processed       int `json:"processed"`
	Repaired        int `json:"repaired"`
	RemovedPackages int `json:"removed_packages"`
	Failed          int `json:"failed"`
}

// ReconciliationService repairs captured orders written under the defective
// schema version, which could persist duplicate packages for the same
// shipment. For each candidate order it rebuilds the packages the order
// should have from its snapshot, keeps one stored package per expected
// structural hash, voids the surplus with the compliance service, and stamps
// the record with the current schema version so the job never revisits it.
type ReconciliationService struct {
	repo     order.Repository
	client   taxcompliance.ComplianceClientInterface
	packages *PackageService
	logger   *zap.Logger
	now      func() time.Time
}

func NewReconciliationService(
	repo order.Repository,
	client taxcompliance.ComplianceClientInterface,
	packages *PackageService,
) *ReconciliationService {
	return &ReconciliationService{
		repo:     repo,
		client:   client,
		packages: packages,
		logger:   logger.Log,
		now:      time.Now,
	}
}

// ProcessPage reconciles up to limit candidate orders. The second return
// value reports whether more candidates remain after this page.
func (s *ReconciliationService) ProcessPage(ctx context.Context, limit int32) (*ReconciliationResults, bool, error) {
	candidates, err := s.repo.ListForReconciliation(ctx,
		constants.SchemaVersionDuplicatePackages, business.TaxStatusCaptured, limit)
	if err != nil {
		return nil, false, errors.Wrap(err, "listing reconciliation candidates")
	}

	results := &ReconciliationResults{}
	for i := range candidates {
		rec := &candidates[i]
		removed, err := s.reconcileOrder(ctx, rec)
		if err != nil {
			results.Failed++
			s.logger.Error("failed to reconcile order",
				zap.String("order_id", rec.Order.OrderID),
				zap.Error(err))
			continue
		}
		results.Processed++
		if removed > 0 {
			results.Repaired++
			results.RemovedPackages += removed
		}
	}

	count, err := s.repo.CountForReconciliation(ctx,
		constants.SchemaVersionDuplicatePackages, business.TaxStatusCaptured)
	if err != nil {
		return results, false, errors.Wrap(err, "counting remaining candidates")
	}

	s.logger.Info("reconciliation page complete",
		zap.Int("processed", results.Processed),
		zap.Int("repaired", results.Repaired),
		zap.Int("removed_packages", results.RemovedPackages),
		zap.Int("failed", results.Failed),
		zap.Int64("remaining", count))
	return results, count > 0, nil
}

// reconcileOrder repairs one order and returns the number of packages it
// voided. Orders whose stored packages already match the rebuilt set are
// only restamped.
func (s *ReconciliationService) reconcileOrder(ctx context.Context, rec *order.Record) (int, error) {
	expected := s.packages.Build(NewSnapshotView(&rec.Snapshot))
	if rec.Order.CertificateID != nil {
		for i := range expected {
			id := *rec.Order.CertificateID
			expected[i].CertificateID = &id
		}
	}

	// Multiset of expected structural hashes. Two legitimate packages can
	// hash identically, so counts matter.
	want := make(map[string]int, len(expected))
	for _, pkg := range expected {
		want[pkg.NormalizedHash()]++
	}

	var kept, removed []business.Package
	for _, pkg := range rec.Order.Packages {
		hash := pkg.NormalizedHash()
		if want[hash] > 0 {
			want[hash]--
			kept = append(kept, pkg)
		} else {
			removed = append(removed, pkg)
		}
	}

	if len(removed) == 0 {
		rec.Order.SchemaVersion = constants.SchemaVersionCurrent
		return 0, s.repo.Save(ctx, rec)
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	for _, pkg := range removed {
		s.logger.Debug("voiding duplicate package",
			zap.String("order_id", rec.Order.OrderID),
			zap.String("cart_id", pkg.CartID),
			zap.String("package", spew.Sdump(pkg)))

		req := taxcompliance.ReturnedRequest{
			OrderID:      pkg.OrderID,
			ReturnedDate: stamp,
		}
		for _, item := range pkg.Items {
			req.CartItems = append(req.CartItems, taxcompliance.CartItemToWire(item))
		}

		// Voiding is best effort. The duplicate may never have been captured
		// upstream, in which case the service rejects the return; the
		// package is still dropped locally either way.
		if err := s.client.Returned(ctx, req); err != nil {
			s.logger.Warn("could not void duplicate package upstream",
				zap.String("order_id", rec.Order.OrderID),
				zap.String("cart_id", pkg.CartID),
				zap.Error(err))
		}
	}

	rec.Order.Packages = kept
	rec.Order.RemovedPackages = append(rec.Order.RemovedPackages, removed...)
	rec.Order.SchemaVersion = constants.SchemaVersionCurrent
	if err := s.repo.Save(ctx, rec); err != nil {
		return 0, errors.Wrap(err, "saving reconciled record")
	}
	return len(removed), nil
}

package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/taxbridge/taxbridge-api/internal/client/taxcompliance"
	"github.com/taxbridge/taxbridge-api/internal/constants"
	"github.com/taxbridge/taxbridge-api/internal/mocks"
	"github.com/taxbridge/taxbridge-api/internal/repository/addresscache"
	"github.com/taxbridge/taxbridge-api/internal/repository/order"
	"github.com/taxbridge/taxbridge-api/internal/services"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

type orderServiceFixture struct {
	repo    *mocks.MockOrderRepository
	client  *mocks.MockComplianceClientInterface
	cache   *mocks.MockAddressCacheRepository
	service *services.OrderTaxService
}

func newOrderServiceFixture(t *testing.T) *orderServiceFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockOrderRepository(ctrl)
	client := mocks.NewMockComplianceClientInterface(ctrl)
	cache := mocks.NewMockAddressCacheRepository(ctrl)

	cfg := testTaxConfig()
	packageService := services.NewPackageService(cfg)
	addressService := services.NewAddressService(client, cache, cfg)
	emailService := services.NewEmailService("", "", "")

	return &orderServiceFixture{
		repo:    repo,
		client:  client,
		cache:   cache,
		service: services.NewOrderTaxService(repo, client, packageService, addressService, emailService, cfg),
	}
}

func capturedRecord() *order.Record {
	snap := snapshotWith(nil)
	return &order.Record{
		Order: business.TaxOrder{
			OrderID: "1001",
			Status:  business.TaxStatusCaptured,
			Packages: []business.Package{
				{
					CartID:      "cart-1",
					OrderID:     "1001",
					Origin:      originAustin,
					Destination: destHouston,
					Items: []business.CartItem{
						{Index: 0, Ref: business.ItemRef{Kind: business.ItemKindProduct, ProductID: 55}, TIC: constants.TICGeneral, PriceCents: 1999, Qty: 2},
						{Index: 1, Ref: business.ItemRef{Kind: business.ItemKindShipping, Name: "flat_rate"}, TIC: constants.TICShipping, PriceCents: 500, Qty: 1},
					},
					ShippingMethod: &business.ShippingLine{MethodID: "flat_rate", CostCents: 500},
				},
			},
			SchemaVersion: constants.SchemaVersionCurrent,
		},
		Snapshot: *snap,
	}
}

func TestRecalculateComputesAndPersists(t *testing.T) {
	f := newOrderServiceFixture(t)
	ctx := context.Background()
	snap := snapshotWith(nil)

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(nil, order.ErrNotFound)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, addresscache.ErrNotFound)
	f.client.EXPECT().VerifyAddress(gomock.Any(), gomock.Any(), gomock.Any()).Return(destHouston, nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any(), destHouston).Return(nil)

	f.client.EXPECT().Lookup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req taxcompliance.LookupRequest) (*taxcompliance.LookupResponse, error) {
			require.Len(t, req.CartItems, 2)
			assert.Equal(t, "cust-1", req.CustomerID)
			assert.Equal(t, "55", req.CartItems[0].ItemID)
			assert.Equal(t, constants.ShippingRefundKey, req.CartItems[1].ItemID)
			return &taxcompliance.LookupResponse{
				CartID:       req.CartID,
				ResponseType: taxcompliance.ResponseTypeOK,
				CartItemsResponse: []taxcompliance.LookupResponseItem{
					{CartItemIndex: 0, TaxAmount: 3.30},
					{CartItemIndex: 1, TaxAmount: 0.41},
				},
			}, nil
		})

	var saved *order.Record
	f.repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *order.Record) error {
			saved = rec
			return nil
		})

	rec, err := f.service.Recalculate(ctx, services.NewSnapshotView(snap), "", nil)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, business.TaxStatusPending, rec.Order.Status)
	assert.Equal(t, constants.SchemaVersionCurrent, rec.Order.SchemaVersion)
	require.Len(t, rec.Order.Packages, 1)
	assert.NotEmpty(t, rec.Order.Packages[0].RawRequest)
	assert.NotEmpty(t, rec.Order.Packages[0].RawResponse)

	// Per-item taxes land on the snapshot keyed by refund key, in cents.
	assert.Equal(t, int64(330), snap.AppliedTaxes["55"])
	assert.Equal(t, int64(41), snap.AppliedTaxes[constants.ShippingRefundKey])
}

func TestRecalculateAttachesCertificate(t *testing.T) {
	f := newOrderServiceFixture(t)
	snap := snapshotWith(nil)

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(nil, order.ErrNotFound)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(&destHouston, nil)

	f.client.EXPECT().Lookup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req taxcompliance.LookupRequest) (*taxcompliance.LookupResponse, error) {
			require.NotNil(t, req.ExemptCert)
			assert.Equal(t, "cert-42", req.ExemptCert.CertificateID)
			return &taxcompliance.LookupResponse{ResponseType: taxcompliance.ResponseTypeOK}, nil
		})
	f.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	rec, err := f.service.Recalculate(context.Background(), services.NewSnapshotView(snap), "cert-42", nil)
	require.NoError(t, err)

	require.NotNil(t, rec.Order.CertificateID)
	assert.Equal(t, "cert-42", *rec.Order.CertificateID)
	require.Len(t, rec.Order.Packages, 1)
	require.NotNil(t, rec.Order.Packages[0].CertificateID)
	assert.Equal(t, "cert-42", *rec.Order.Packages[0].CertificateID)
}

func TestRecalculateStoresSinglePurchaseCertificate(t *testing.T) {
	f := newOrderServiceFixture(t)
	snap := snapshotWith(nil)
	inline := &business.ExemptionCertificate{
		PurchaserName:   "Acme Supply Co",
		ExemptionReason: "Resale",
	}

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(nil, order.ErrNotFound)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(&destHouston, nil)

	f.client.EXPECT().Lookup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req taxcompliance.LookupRequest) (*taxcompliance.LookupResponse, error) {
			require.NotNil(t, req.ExemptCert)
			assert.Equal(t, "Acme Supply Co", req.ExemptCert.PurchaserName)
			assert.Equal(t, "1001", req.ExemptCert.SinglePurchaseOrderID)
			return &taxcompliance.LookupResponse{ResponseType: taxcompliance.ResponseTypeOK}, nil
		})
	f.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	rec, err := f.service.Recalculate(context.Background(), services.NewSnapshotView(snap), constants.CertificateIDSinglePurchase, inline)
	require.NoError(t, err)

	require.NotNil(t, rec.Order.SinglePurchaseCertificate)
	assert.Equal(t, "1001", rec.Order.SinglePurchaseCertificate.SinglePurchaseOrderID)
	require.NotNil(t, rec.Order.CertificateID)
	assert.Equal(t, constants.CertificateIDSinglePurchase, *rec.Order.CertificateID)
	require.Len(t, rec.Order.Packages, 1)
	require.NotNil(t, rec.Order.Packages[0].CertificateID)
	assert.Equal(t, constants.CertificateIDSinglePurchase, *rec.Order.Packages[0].CertificateID)
}

func TestRecalculateReusesStoredSinglePurchaseCertificate(t *testing.T) {
	f := newOrderServiceFixture(t)
	existing := &order.Record{
		Order: business.TaxOrder{
			OrderID: "1001",
			Status:  business.TaxStatusPending,
			SinglePurchaseCertificate: &business.ExemptionCertificate{
				PurchaserName:         "Acme Supply Co",
				SinglePurchaseOrderID: "1001",
			},
		},
	}

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(existing, nil)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(&destHouston, nil)
	f.client.EXPECT().Lookup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req taxcompliance.LookupRequest) (*taxcompliance.LookupResponse, error) {
			require.NotNil(t, req.ExemptCert)
			assert.Equal(t, "Acme Supply Co", req.ExemptCert.PurchaserName)
			return &taxcompliance.LookupResponse{ResponseType: taxcompliance.ResponseTypeOK}, nil
		})
	f.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.service.Recalculate(context.Background(), services.NewSnapshotView(snapshotWith(nil)), constants.CertificateIDSinglePurchase, nil)
	require.NoError(t, err)
}

func TestRecalculateSinglePurchaseWithoutCertificateOnFile(t *testing.T) {
	f := newOrderServiceFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(nil, order.ErrNotFound)
	// No lookup, no verification, no save: the call fails before any
	// network activity.

	_, err := f.service.Recalculate(context.Background(), services.NewSnapshotView(snapshotWith(nil)), constants.CertificateIDSinglePurchase, nil)
	assert.ErrorIs(t, err, services.ErrMissingCertificate)
}

func TestRecalculateRejectsCapturedOrder(t *testing.T) {
	f := newOrderServiceFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(capturedRecord(), nil)

	_, err := f.service.Recalculate(context.Background(), services.NewSnapshotView(snapshotWith(nil)), "", nil)
	assert.ErrorIs(t, err, services.ErrNotPending)
}

func TestCaptureTransitionsToCaptured(t *testing.T) {
	f := newOrderServiceFixture(t)
	rec := capturedRecord()
	rec.Order.Status = business.TaxStatusPending

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(rec, nil)
	f.client.EXPECT().AuthorizedWithCapture(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req taxcompliance.AuthorizedWithCaptureRequest) error {
			assert.Equal(t, "cart-1", req.CartID)
			assert.Equal(t, "1001", req.OrderID)
			assert.NotEmpty(t, req.DateAuthorized)
			assert.Equal(t, req.DateAuthorized, req.DateCaptured)
			return nil
		})
	f.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	got, err := f.service.Capture(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, business.TaxStatusCaptured, got.Order.Status)
}

func TestCaptureAbortsOnFirstFailureWithoutRollback(t *testing.T) {
	f := newOrderServiceFixture(t)
	rec := capturedRecord()
	rec.Order.Status = business.TaxStatusPending
	second := rec.Order.Packages[0]
	second.CartID = "cart-2"
	second.OrderID = "1001-1"
	rec.Order.Packages = append(rec.Order.Packages, second)

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(rec, nil)
	gomock.InOrder(
		f.client.EXPECT().AuthorizedWithCapture(gomock.Any(), gomock.Any()).Return(nil),
		f.client.EXPECT().AuthorizedWithCapture(gomock.Any(), gomock.Any()).Return(errors.New("service unavailable")),
	)
	// No Save: the order stays pending and the call is retryable.

	_, err := f.service.Capture(context.Background(), "1001")
	require.Error(t, err)
	assert.Equal(t, business.TaxStatusPending, rec.Order.Status)
}

func TestCaptureStateChecks(t *testing.T) {
	t.Run("already captured", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), "1001").Return(capturedRecord(), nil)

		_, err := f.service.Capture(context.Background(), "1001")
		assert.ErrorIs(t, err, services.ErrNotPending)
	})

	t.Run("refund recorded before capture", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		rec := capturedRecord()
		rec.Order.Status = business.TaxStatusPending
		rec.Snapshot.RefundedCents = 100
		f.repo.EXPECT().Get(gomock.Any(), "1001").Return(rec, nil)

		_, err := f.service.Capture(context.Background(), "1001")
		assert.ErrorIs(t, err, services.ErrRefundedOrder)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), "1001").Return(nil, order.ErrNotFound)

		_, err := f.service.Capture(context.Background(), "1001")
		assert.ErrorIs(t, err, order.ErrNotFound)
	})
}

func TestRefundPartialKeepsOrderCaptured(t *testing.T) {
	f := newOrderServiceFixture(t)
	rec := capturedRecord()

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(rec, nil)
	f.client.EXPECT().Returned(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req taxcompliance.ReturnedRequest) error {
			assert.Equal(t, "1001", req.OrderID)
			require.Len(t, req.CartItems, 1)
			assert.Equal(t, "55", req.CartItems[0].ItemID)
			assert.Equal(t, int64(1), req.CartItems[0].Qty)
			return nil
		})
	f.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	got, err := f.service.Refund(context.Background(), "1001", business.RefundRequest{
		AmountCents: -1999,
		Lines: []business.RefundLineItem{
			{Ref: business.ItemRef{Kind: business.ItemKindProduct, ProductID: 55}, Qty: 1, TotalCents: -1999},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, business.TaxStatusCaptured, got.Order.Status)
	assert.Equal(t, int64(1999), got.Snapshot.RefundedCents)
}

func TestRefundFullTransitionsToRefunded(t *testing.T) {
	f := newOrderServiceFixture(t)
	rec := capturedRecord()

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(rec, nil)
	f.client.EXPECT().Returned(gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	// No line detail: the whole order is reversed.
	got, err := f.service.Refund(context.Background(), "1001", business.RefundRequest{AmountCents: -4498})
	require.NoError(t, err)
	assert.Equal(t, business.TaxStatusRefunded, got.Order.Status)
	assert.Equal(t, int64(4498), got.Snapshot.RefundedCents)
}

func TestRefundStateChecks(t *testing.T) {
	t.Run("pending order", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		rec := capturedRecord()
		rec.Order.Status = business.TaxStatusPending
		f.repo.EXPECT().Get(gomock.Any(), "1001").Return(rec, nil)

		_, err := f.service.Refund(context.Background(), "1001", business.RefundRequest{AmountCents: -100})
		assert.ErrorIs(t, err, services.ErrNotCaptured)
	})

	t.Run("refunded order is terminal", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		rec := capturedRecord()
		rec.Order.Status = business.TaxStatusRefunded
		f.repo.EXPECT().Get(gomock.Any(), "1001").Return(rec, nil)

		_, err := f.service.Refund(context.Background(), "1001", business.RefundRequest{AmountCents: -100})
		assert.ErrorIs(t, err, services.ErrNotCaptured)
	})

	t.Run("no matching items", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), "1001").Return(capturedRecord(), nil)

		_, err := f.service.Refund(context.Background(), "1001", business.RefundRequest{
			AmountCents: -100,
			Lines: []business.RefundLineItem{
				{Ref: business.ItemRef{Kind: business.ItemKindProduct, ProductID: 999}, TotalCents: -100},
			},
		})
		assert.ErrorIs(t, err, services.ErrNoRefundableItems)
	})
}

func TestRefundSubUnitAmountReversedAsResidual(t *testing.T) {
	f := newOrderServiceFixture(t)
	rec := capturedRecord()

	f.repo.EXPECT().Get(gomock.Any(), "1001").Return(rec, nil)
	f.client.EXPECT().Returned(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req taxcompliance.ReturnedRequest) error {
			require.Len(t, req.CartItems, 1)
			assert.Equal(t, int64(1), req.CartItems[0].Qty)
			assert.InDelta(t, 5.00, req.CartItems[0].Price, 0.001)
			return nil
		})
	f.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	// 500 cents against a 1999-cent unit: less than one unit, reversed as
	// a single residual-priced item.
	_, err := f.service.Refund(context.Background(), "1001", business.RefundRequest{
		AmountCents: -500,
		Lines: []business.RefundLineItem{
			{Ref: business.ItemRef{Kind: business.ItemKindProduct, ProductID: 55}, TotalCents: -500},
		},
	})
	require.NoError(t, err)
}

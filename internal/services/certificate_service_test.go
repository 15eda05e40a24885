package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/mocks"
	"github.com/taxbridge/taxbridge-api/internal/services"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

func certificateFixture(t *testing.T, ttl time.Duration) (*mocks.MockComplianceClientInterface, *services.CertificateService) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	client := mocks.NewMockComplianceClientInterface(ctrl)
	cfg := config.TaxConfig{CertificateCacheTTL: ttl}
	return client, services.NewCertificateService(client, cfg)
}

func TestListCachesPerCustomer(t *testing.T) {
	client, svc := certificateFixture(t, time.Hour)
	ctx := context.Background()

	certs := []business.ExemptionCertificate{{CertificateID: "cert-1"}}
	client.EXPECT().GetExemptCertificates(gomock.Any(), "cust-1").Return(certs, nil).Times(1)

	first, err := svc.List(ctx, "cust-1")
	require.NoError(t, err)
	second, err := svc.List(ctx, "cust-1")
	require.NoError(t, err)

	assert.Equal(t, certs, first)
	assert.Equal(t, certs, second)
}

func TestListExpiredEntryRefetches(t *testing.T) {
	client, svc := certificateFixture(t, 0)
	ctx := context.Background()

	client.EXPECT().GetExemptCertificates(gomock.Any(), "cust-1").
		Return([]business.ExemptionCertificate{{CertificateID: "cert-1"}}, nil).Times(2)

	_, err := svc.List(ctx, "cust-1")
	require.NoError(t, err)
	_, err = svc.List(ctx, "cust-1")
	require.NoError(t, err)
}

func TestAddInvalidatesCache(t *testing.T) {
	client, svc := certificateFixture(t, time.Hour)
	ctx := context.Background()

	client.EXPECT().GetExemptCertificates(gomock.Any(), "cust-1").
		Return([]business.ExemptionCertificate{}, nil).Times(2)
	client.EXPECT().AddExemptCertificate(gomock.Any(), "cust-1", gomock.Any()).Return("cert-2", nil)

	_, err := svc.List(ctx, "cust-1")
	require.NoError(t, err)

	certID, err := svc.Add(ctx, "cust-1", business.ExemptionCertificate{PurchaserName: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "cert-2", certID)

	// Cache was invalidated; next list hits the service again.
	_, err = svc.List(ctx, "cust-1")
	require.NoError(t, err)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	client, svc := certificateFixture(t, time.Hour)
	ctx := context.Background()

	client.EXPECT().GetExemptCertificates(gomock.Any(), "cust-1").
		Return([]business.ExemptionCertificate{{CertificateID: "cert-1"}}, nil).Times(2)
	client.EXPECT().DeleteExemptCertificate(gomock.Any(), "cert-1").Return(nil)

	_, err := svc.List(ctx, "cust-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "cust-1", "cert-1"))

	_, err = svc.List(ctx, "cust-1")
	require.NoError(t, err)
}

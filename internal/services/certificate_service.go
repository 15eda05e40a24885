package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/client/taxcompliance"
	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// CertificateService fetches exemption certificates from the compliance
// service, caching per customer identity with a TTL. Single-purchase
// certificates bypass this service entirely; they live inline on their
// order's tax record.
type CertificateService struct {
	client taxcompliance.ComplianceClientInterface
	cfg    config.TaxConfig
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]certificateCacheEntry
}

type certificateCacheEntry struct {
	certs     []business.ExemptionCertificate
	fetchedAt time.Time
}

func NewCertificateService(client taxcompliance.ComplianceClientInterface, cfg config.TaxConfig) *CertificateService {
	return &CertificateService{
		client: client,
		cfg:    cfg,
		logger: logger.Log,
		cache:  make(map[string]certificateCacheEntry),
	}
}

// List returns the certificates owned by a customer, served from cache when
// fresh.
func (s *CertificateService) List(ctx context.Context, customerID string) ([]business.ExemptionCertificate, error) {
	s.mu.RLock()
	entry, ok := s.cache[customerID]
	s.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < s.cfg.CertificateCacheTTL {
		return entry.certs, nil
	}

	certs, err := s.client.GetExemptCertificates(ctx, customerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[customerID] = certificateCacheEntry{certs: certs, fetchedAt: time.Now()}
	s.mu.Unlock()

	return certs, nil
}

// Add registers a certificate for a customer and invalidates the cache.
func (s *CertificateService) Add(ctx context.Context, customerID string, cert business.ExemptionCertificate) (string, error) {
	certID, err := s.client.AddExemptCertificate(ctx, customerID, cert)
	if err != nil {
		return "", err
	}

	s.invalidate(customerID)
	s.logger.Info("added exemption certificate",
		zap.String("customer_id", customerID),
		zap.String("certificate_id", certID))
	return certID, nil
}

// Delete removes a certificate and invalidates the owner's cache.
func (s *CertificateService) Delete(ctx context.Context, customerID, certificateID string) error {
	if err := s.client.DeleteExemptCertificate(ctx, certificateID); err != nil {
		return err
	}

	s.invalidate(customerID)
	s.logger.Info("deleted exemption certificate",
		zap.String("customer_id", customerID),
		zap.String("certificate_id", certificateID))
	return nil
}

func (s *CertificateService) invalidate(customerID string) {
	s.mu.Lock()
	delete(s.cache, customerID)
	s.mu.Unlock()
}

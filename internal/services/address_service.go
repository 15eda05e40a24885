package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/client/taxcompliance"
	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/repository/addresscache"
	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// VerificationSource records where a verification result came from.
type VerificationSource string

const (
	SourceVerified VerificationSource = "verified"
	SourceCache    VerificationSource = "cache"
	SourceFallback VerificationSource = "fallback"
)

// VerificationResult is the outcome of an address verification. A failed
// remote verification is an expected condition, not a fault: the result then
// carries the original address with SourceFallback.
type VerificationResult struct {
	Address business.Address
	Source  VerificationSource
}

// AddressService verifies addresses against the compliance service's
// carrier-backed endpoint, caching results by content hash with a TTL so
// repeated checkouts against the same address skip the network.
type AddressService struct {
	client taxcompliance.ComplianceClientInterface
	cache  addresscache.Repository
	cfg    config.TaxConfig
	logger *zap.Logger
}

func NewAddressService(client taxcompliance.ComplianceClientInterface, cache addresscache.Repository, cfg config.TaxConfig) *AddressService {
	return &AddressService{
		client: client,
		cache:  cache,
		cfg:    cfg,
		logger: logger.Log,
	}
}

// Verify normalizes an address, consulting the cache first. It never fails
// the enclosing flow: on any error the original address comes back as a
// fallback result.
func (s *AddressService) Verify(ctx context.Context, addr business.Address) VerificationResult {
	hash := addr.Hash()

	if cached, err := s.cache.Get(ctx, hash, s.cfg.AddressCacheTTL); err == nil {
		return VerificationResult{Address: *cached, Source: SourceCache}
	} else if !errors.Is(err, addresscache.ErrNotFound) {
		s.logger.Warn("address cache read failed", zap.Error(err))
	}

	verified, err := s.client.VerifyAddress(ctx, addr, s.cfg.CarrierAccountID)
	if err != nil {
		s.logger.Info("address verification fell back to original",
			zap.String("city", addr.City),
			zap.String("state", addr.State),
			zap.Error(err))
		return VerificationResult{Address: addr, Source: SourceFallback}
	}

	if err := s.cache.Put(ctx, hash, verified); err != nil {
		s.logger.Warn("address cache write failed", zap.Error(err))
	}
	return VerificationResult{Address: verified, Source: SourceVerified}
}

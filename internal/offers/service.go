package offers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pos/internal/promo"
)

// Source lists the active offers for a tenant, typically from Postgres.
type Source interface {
	ListActive(ctx context.Context, tenantID string, now time.Time) ([]promo.Offer, error)
}

// Service is the read path of the offer catalog: Redis first, Postgres on a
// miss. Cache failures degrade to the database rather than failing the call.
type Service struct {
	Source Source
	Cache  *Cache
	Log    zerolog.Logger
}

// ActiveOffers returns the tenant's active offer set in catalog order.
func (s *Service) ActiveOffers(ctx context.Context, tenantID string, now time.Time) ([]promo.Offer, error) {
	cached, ok, err := s.Cache.Get(ctx, tenantID)
	if err != nil {
		s.Log.Warn().Err(err).Str("tenant_id", tenantID).Msg("offer cache read failed")
	}
	if ok {
		return cached, nil
	}

	fetched, err := s.Source.ListActive(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, tenantID, fetched); err != nil {
		s.Log.Warn().Err(err).Str("tenant_id", tenantID).Msg("offer cache write failed")
	}
	return fetched, nil
}

package offers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/promo"
	"github.com/noah-isme/backend-pos/internal/tenant"
)

const cacheKeySuffix = "offers:active"

// Cache holds the per-tenant active offer set in Redis for a short TTL so
// quote evaluation does not hit Postgres on every cart.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client or non-positive TTL
// yields a cache that always misses.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached offer set for a tenant. The second result reports
// whether the key existed.
func (c *Cache) Get(ctx context.Context, tenantID string) ([]promo.Offer, bool, error) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, tenant.PrefixKey(tenantID, cacheKeySuffix)).Bytes()
	if err != nil {
		if err == redis.Nil {
			countCacheLookup("miss")
			return nil, false, nil
		}
		countCacheLookup("error")
		return nil, false, err
	}
	var offers []promo.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		countCacheLookup("error")
		return nil, false, err
	}
	countCacheLookup("hit")
	return offers, true, nil
}

// Set stores the offer set for a tenant with the configured TTL.
func (c *Cache) Set(ctx context.Context, tenantID string, offers []promo.Offer) error {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(offers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tenant.PrefixKey(tenantID, cacheKeySuffix), data, c.ttl).Err()
}

// Invalidate drops the cached offer set for a tenant.
func (c *Cache) Invalidate(ctx context.Context, tenantID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, tenant.PrefixKey(tenantID, cacheKeySuffix)).Err()
}

func countCacheLookup(result string) {
	if obs.OfferCacheTotal != nil {
		obs.OfferCacheTotal.WithLabelValues(result).Inc()
	}
}

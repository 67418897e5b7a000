package offers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-pos/internal/promo"
)

// Store reads and writes the per-tenant offer catalog in Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const listActiveSQL = `
SELECT id, name, offer_type, status, applicable_on, category_id, product_ids,
       min_purchase, max_discount, value, rule, starts_at, ends_at
FROM offers
WHERE tenant_id = $1
  AND status = 'active'
  AND (ends_at IS NULL OR ends_at >= $2)
ORDER BY created_at, id`

// ListActive returns the active offers for a tenant in catalog order. Offers
// whose variant payload cannot be decoded are returned without that payload
// so the engine can skip them.
func (s *Store) ListActive(ctx context.Context, tenantID string, now time.Time) ([]promo.Offer, error) {
	rows, err := s.Pool.Query(ctx, listActiveSQL, tenantID, now)
	if err != nil {
		return nil, fmt.Errorf("list active offers: %w", err)
	}
	defer rows.Close()

	var offers []promo.Offer
	for rows.Next() {
		var (
			o          promo.Offer
			categoryID *string
			rule       []byte
			startsAt   *time.Time
			endsAt     *time.Time
		)
		if err := rows.Scan(
			&o.ID, &o.Name, &o.Type, &o.Status, &o.ApplicableOn, &categoryID,
			&o.ProductIDs, &o.MinPurchase, &o.MaxDiscount, &o.Value, &rule,
			&startsAt, &endsAt,
		); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		if categoryID != nil {
			o.CategoryID = *categoryID
		}
		if startsAt != nil {
			o.StartsAt = *startsAt
		}
		if endsAt != nil {
			o.EndsAt = *endsAt
		}
		decodeRule(&o, rule)
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return offers, nil
}

const insertSQL = `
INSERT INTO offers (
	id, tenant_id, name, offer_type, status, applicable_on, category_id,
	product_ids, min_purchase, max_discount, value, rule, starts_at, ends_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	offer_type = EXCLUDED.offer_type,
	status = EXCLUDED.status,
	applicable_on = EXCLUDED.applicable_on,
	category_id = EXCLUDED.category_id,
	product_ids = EXCLUDED.product_ids,
	min_purchase = EXCLUDED.min_purchase,
	max_discount = EXCLUDED.max_discount,
	value = EXCLUDED.value,
	rule = EXCLUDED.rule,
	starts_at = EXCLUDED.starts_at,
	ends_at = EXCLUDED.ends_at`

// Upsert writes one offer for a tenant. Used by the seeder tool.
func (s *Store) Upsert(ctx context.Context, tenantID string, o promo.Offer) error {
	rule, err := encodeRule(o)
	if err != nil {
		return fmt.Errorf("encode offer rule: %w", err)
	}
	var categoryID *string
	if o.CategoryID != "" {
		categoryID = &o.CategoryID
	}
	var startsAt, endsAt *time.Time
	if !o.StartsAt.IsZero() {
		startsAt = &o.StartsAt
	}
	if !o.EndsAt.IsZero() {
		endsAt = &o.EndsAt
	}
	_, err = s.Pool.Exec(ctx, insertSQL,
		o.ID, tenantID, o.Name, o.Type, o.Status, o.ApplicableOn, categoryID,
		o.ProductIDs, o.MinPurchase, o.MaxDiscount, o.Value, rule, startsAt, endsAt,
	)
	if err != nil {
		return fmt.Errorf("upsert offer %s: %w", o.ID, err)
	}
	return nil
}

func decodeRule(o *promo.Offer, raw []byte) {
	if len(raw) == 0 {
		return
	}
	switch o.Type {
	case promo.TypeBuyXGetY:
		var rule promo.BuyXGetYRule
		if err := json.Unmarshal(raw, &rule); err == nil {
			o.BuyXGetY = &rule
		}
	case promo.TypeBundle:
		var rule promo.BundleRule
		if err := json.Unmarshal(raw, &rule); err == nil {
			o.Bundle = &rule
		}
	}
}

func encodeRule(o promo.Offer) ([]byte, error) {
	switch {
	case o.BuyXGetY != nil:
		return json.Marshal(o.BuyXGetY)
	case o.Bundle != nil:
		return json.Marshal(o.Bundle)
	default:
		return nil, nil
	}
}

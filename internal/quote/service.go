package quote

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/pricing"
	"github.com/noah-isme/backend-pos/internal/promo"
)

// OfferSource supplies the tenant's active offer catalog.
type OfferSource interface {
	ActiveOffers(ctx context.Context, tenantID string, now time.Time) ([]promo.Offer, error)
}

// Service evaluates a cart snapshot against the tenant's offers and folds
// the winning discount into cart totals.
type Service struct {
	Offers     OfferSource
	TaxRateBPS int
	Now        func() time.Time
	Log        zerolog.Logger
}

// Evaluation combines the engine result with the priced summary.
type Evaluation struct {
	Result  promo.Result
	Summary pricing.Summary
}

// Evaluate prices the given cart lines for a tenant. The offer catalog is
// fetched once per call; evaluation itself is pure.
func (s *Service) Evaluate(ctx context.Context, tenantID string, lines []promo.Line) (Evaluation, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	offers, err := s.Offers.ActiveOffers(ctx, tenantID, now)
	if err != nil {
		countEvaluation("error")
		return Evaluation{}, common.NewAppError(common.CodeInternal, "offer catalog unavailable", http.StatusServiceUnavailable, err)
	}

	started := time.Now()
	result := promo.Evaluate(lines, offers, now)
	observeEvaluation(time.Since(started), result)

	summary := pricing.Compute(lines, result.TotalDiscount, s.TaxRateBPS)

	s.Log.Debug().
		Str("tenant_id", tenantID).
		Int("lines", len(lines)).
		Int("offers", len(offers)).
		Int("applied", len(result.Applied)).
		Str("discount", result.TotalDiscount.String()).
		Msg("quote evaluated")

	return Evaluation{Result: result, Summary: summary}, nil
}

func observeEvaluation(elapsed time.Duration, result promo.Result) {
	if obs.EvaluationDuration != nil {
		obs.EvaluationDuration.Observe(float64(elapsed.Microseconds()) / 1000.0)
	}
	outcome := "none"
	if len(result.Applied) > 0 {
		outcome = "applied"
	}
	countEvaluation(outcome)
	if obs.OfferAppliedTotal != nil {
		for _, offer := range result.Applied {
			obs.OfferAppliedTotal.WithLabelValues(string(offer.Type)).Inc()
		}
	}
}

func countEvaluation(outcome string) {
	if obs.QuoteEvaluationsTotal != nil {
		obs.QuoteEvaluationsTotal.WithLabelValues(outcome).Inc()
	}
}

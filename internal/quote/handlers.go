package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/promo"
	"github.com/noah-isme/backend-pos/internal/tenant"
)

// Handler exposes the quote evaluation endpoint.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
	Currency string
}

type cartLinePayload struct {
	ItemID     string          `json:"itemId" validate:"required"`
	ProductID  string          `json:"productId"`
	CategoryID string          `json:"categoryId"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type quoteRequest struct {
	Lines []cartLinePayload `json:"lines" validate:"required,min=1,dive"`
}

type appliedOfferView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type lineDiscountView struct {
	ItemID    string          `json:"itemId"`
	ProductID string          `json:"productId,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	OfferID   string          `json:"offerId"`
	OfferName string          `json:"offerName"`
}

type quoteResponse struct {
	Currency      string             `json:"currency"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	AppliedOffers []appliedOfferView `json:"appliedOffers"`
	LineDiscounts []lineDiscountView `json:"lineDiscounts"`
}

// Evaluate prices a cart snapshot against the tenant's active offers.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "quote service not configured", nil)
		return
	}
	tenantID, ok := tenant.FromContext(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "TENANT_REQUIRED", "tenant could not be resolved", nil)
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", validationDetails(err))
			return
		}
	}
	lines, err := toEngineLines(req.Lines)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
		return
	}

	evaluation, err := h.Svc.Evaluate(r.Context(), tenantID, lines)
	if err != nil {
		if appErr, ok := common.AsAppError(err); ok {
			common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to evaluate quote", nil)
		return
	}
	common.JSONData(w, http.StatusOK, h.toResponse(evaluation))
}

func (h *Handler) toResponse(evaluation Evaluation) quoteResponse {
	applied := make([]appliedOfferView, 0, len(evaluation.Result.Applied))
	for _, offer := range evaluation.Result.Applied {
		applied = append(applied, appliedOfferView{
			ID:   offer.ID,
			Name: offer.Name,
			Type: string(offer.Type),
		})
	}
	lines := make([]lineDiscountView, 0, len(evaluation.Result.Lines))
	for _, ld := range evaluation.Result.Lines {
		lines = append(lines, lineDiscountView{
			ItemID:    ld.ItemID,
			ProductID: ld.ProductID,
			Amount:    ld.Amount,
			OfferID:   ld.OfferID,
			OfferName: ld.OfferName,
		})
	}
	return quoteResponse{
		Currency:      h.Currency,
		Subtotal:      evaluation.Summary.Subtotal,
		Discount:      evaluation.Summary.Discount,
		Tax:           evaluation.Summary.Tax,
		Total:         evaluation.Summary.Total,
		AppliedOffers: applied,
		LineDiscounts: lines,
	}
}

func toEngineLines(payload []cartLinePayload) ([]promo.Line, error) {
	lines := make([]promo.Line, 0, len(payload))
	for _, p := range payload {
		itemID := strings.TrimSpace(p.ItemID)
		if itemID == "" {
			return nil, errors.New("itemId is required")
		}
		if p.UnitPrice.IsNegative() {
			return nil, errors.New("unitPrice must not be negative")
		}
		if !p.Quantity.IsPositive() {
			return nil, errors.New("quantity must be positive")
		}
		lines = append(lines, promo.Line{
			ItemID:     itemID,
			ProductID:  strings.TrimSpace(p.ProductID),
			CategoryID: strings.TrimSpace(p.CategoryID),
			UnitPrice:  p.UnitPrice,
			Quantity:   p.Quantity,
		})
	}
	return lines, nil
}

func validationDetails(err error) any {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Namespace()] = fe.Tag()
	}
	return details
}

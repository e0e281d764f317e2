package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-vitrine/internal/common"
	"github.com/noah-isme/backend-vitrine/internal/settlement"
	"github.com/noah-isme/backend-vitrine/internal/tenant"
)

// Handler wires the settlement service to HTTP.
type Handler struct {
	Svc *Service
}

// Preview computes the charge schedule and commission ledger without side effects.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(checkoutID string, in Input) (Output, error) {
		return h.Svc.Preview(r.Context(), checkoutID, in)
	})
}

// Settle computes the settlement and dispatches the ledger for payout.
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(checkoutID string, in Input) (Output, error) {
		return h.Svc.Settle(r.Context(), checkoutID, in)
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, run func(string, Input) (Output, error)) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	checkoutID := strings.TrimSpace(chi.URLParam(r, "id"))
	if checkoutID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "checkout id is required", nil)
		return
	}
	var payload Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := run(checkoutID, payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// writeError translates engine sentinels and validation failures into the
// canonical error shape. The engine's errors stay typed so callers can map
// them per locale.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tenant.ErrCheckoutNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "checkout not found", nil)
	case errors.Is(err, settlement.ErrInvalidInstallmentCount):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_INSTALLMENT_COUNT", "installment count not allowed for this checkout", nil)
	case errors.Is(err, settlement.ErrMissingShippingQuote):
		common.JSONError(w, http.StatusUnprocessableEntity, "MISSING_SHIPPING_QUOTE", "calculated shipping requires a quote", nil)
	case errors.Is(err, settlement.ErrInvalidDiscountPercent):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_DISCOUNT_PERCENT", "discount or fee percent out of range", nil)
	case errors.Is(err, settlement.ErrUnknownPaymentMethod):
		common.JSONError(w, http.StatusBadRequest, "UNKNOWN_PAYMENT_METHOD", "unsupported payment method", nil)
	case errors.Is(err, settlement.ErrUnknownShippingMode):
		common.JSONError(w, http.StatusBadRequest, "UNKNOWN_SHIPPING_MODE", "unsupported shipping mode", nil)
	case errors.Is(err, settlement.ErrInvalidOrderLine):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_ORDER_LINE", "order line quantity, kit size or price is invalid", nil)
	case errors.Is(err, settlement.ErrUnknownAttributionModel):
		common.JSONError(w, http.StatusUnprocessableEntity, "UNKNOWN_ATTRIBUTION_MODEL", "checkout attribution model is misconfigured", nil)
	case errors.Is(err, settlement.ErrInvalidCommissionValue):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_COMMISSION_VALUE", "commission terms are misconfigured", nil)
	default:
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fe.Namespace())
			}
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid request fields", details)
			return
		}
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			status := appErr.HTTPStatus
			if status == 0 {
				status = http.StatusBadRequest
			}
			common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
}

package attribution

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-vitrine/internal/common"
	"github.com/noah-isme/backend-vitrine/internal/obs"
)

// Handler wires referral tracking to HTTP.
type Handler struct {
	Store *Store
}

// RecordReferral registers a referral click for a checkout session.
func (h *Handler) RecordReferral(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "attribution store not configured", nil)
		return
	}
	checkoutID := strings.TrimSpace(chi.URLParam(r, "id"))
	if checkoutID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "checkout id is required", nil)
		return
	}
	var payload struct {
		SessionID   string     `json:"sessionId"`
		AffiliateID string     `json:"affiliateId"`
		OccurredAt  *time.Time `json:"occurredAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if strings.TrimSpace(payload.SessionID) == "" || strings.TrimSpace(payload.AffiliateID) == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "sessionId and affiliateId are required", nil)
		return
	}
	at := time.Time{}
	if payload.OccurredAt != nil {
		at = *payload.OccurredAt
	}
	if err := h.Store.Record(r.Context(), checkoutID, payload.SessionID, payload.AffiliateID, at); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to record referral", nil)
		return
	}
	if obs.AttributionEventsTotal != nil {
		obs.AttributionEventsTotal.WithLabelValues("recorded").Inc()
	}
	common.JSON(w, http.StatusAccepted, map[string]any{
		"data": map[string]any{
			"checkoutId":  checkoutID,
			"sessionId":   payload.SessionID,
			"affiliateId": payload.AffiliateID,
		},
	})
}

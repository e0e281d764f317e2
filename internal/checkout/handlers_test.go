package checkout

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-vitrine/internal/tenant"
)

func newTestRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	h := &Handler{Svc: svc}
	r.Post("/v1/checkouts/{id}/settlement/preview", h.Preview)
	r.Post("/v1/checkouts/{id}/settlement", h.Settle)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPreviewEndpoint(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{events: testEvents()},
	}
	rec := postJSON(t, newTestRouter(svc), "/v1/checkouts/chk-1/settlement/preview", testInput())
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data Output `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "chk-1", body.Data.CheckoutID)
	require.Equal(t, int64(11_629), body.Data.Charge.PayableCents)
	require.Equal(t, int64(10_429), body.Data.CommissionableBaseCents)
}

func TestPreviewEndpointMapsEngineErrors(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{},
	}
	in := testInput()
	in.Installments = 13
	rec := postJSON(t, newTestRouter(svc), "/v1/checkouts/chk-1/settlement/preview", in)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_INSTALLMENT_COUNT")

	in = testInput()
	in.Shipping = ShippingInput{Mode: "calculated"}
	rec = postJSON(t, newTestRouter(svc), "/v1/checkouts/chk-1/settlement/preview", in)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "MISSING_SHIPPING_QUOTE")

	in = testInput()
	in.PaymentMethod = "cash"
	rec = postJSON(t, newTestRouter(svc), "/v1/checkouts/chk-1/settlement/preview", in)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "UNKNOWN_PAYMENT_METHOD")
}

func TestPreviewEndpointUnknownCheckout(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{err: tenant.ErrCheckoutNotFound},
		Tracking: stubTracking{},
	}
	rec := postJSON(t, newTestRouter(svc), "/v1/checkouts/missing/settlement/preview", testInput())
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettleEndpointDispatches(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{events: testEvents()},
		Payouts:  dispatcher,
	}
	in := testInput()
	in.OrderRef = "ord-9"
	rec := postJSON(t, newTestRouter(svc), "/v1/checkouts/chk-1/settlement", in)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, dispatcher.calls)
}

func TestSettleEndpointRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{},
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/checkouts/chk-1/settlement", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

package verify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/payment-simulator/internal/session"
)

func newRouter(store *session.Store) http.Handler {
	h := &Handler{Store: store}
	r := chi.NewRouter()
	r.Get("/verify/{method}/{sessionID}", h.Page)
	r.Post("/verify/approve/{sessionID}", h.Approve)
	return r
}

func TestPageShowsSessionOTP(t *testing.T) {
	store := session.NewStore()
	sess := store.Create(session.MethodSTCPay, decimal.NewFromInt(120), "SAR", "https://merchant.test/done")

	router := newRouter(store)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/stcpay/"+sess.ID, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	require.Contains(t, body, sess.OTP, "the page must display the session's OTP")
	require.Contains(t, body, "STC Pay")
	require.Contains(t, body, "120")
	require.Contains(t, body, "/verify/approve/"+sess.ID)
}

func TestPageShowsInstallmentsForTabby(t *testing.T) {
	store := session.NewStore()
	sess := store.Create(session.MethodTabby, decimal.NewFromInt(400), "SAR", "")

	router := newRouter(store)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/tabby/"+sess.ID, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "100.00", "four installments of a 400 SAR order")
}

func TestPageUnknownSessionRendersNotFound(t *testing.T) {
	store := session.NewStore()
	router := newRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/stcpay/stcpay_0_missing", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "Session Not Found")
}

func TestPageUnknownMethodRendersNotFound(t *testing.T) {
	store := session.NewStore()
	sess := store.Create(session.MethodSTCPay, decimal.NewFromInt(10), "SAR", "")

	router := newRouter(store)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/paypal/"+sess.ID, nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "Session Not Found")
}

func TestApproveCompletesSession(t *testing.T) {
	store := session.NewStore()
	sess := store.Create(session.MethodSTCPay, decimal.NewFromInt(75), "SAR", "https://merchant.test/done")

	router := newRouter(store)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/verify/approve/"+sess.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
		ReturnURL string `json:"returnUrl"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "Payment approved", resp.Message)
	require.Equal(t, sess.ID, resp.SessionID)
	require.Equal(t, "https://merchant.test/done", resp.ReturnURL)

	updated, ok := store.Get(sess.ID)
	require.True(t, ok)
	require.Equal(t, session.StatusSucceeded, updated.Status)
	require.NotNil(t, updated.ApprovedAt)
}

func TestApproveUnknownSession(t *testing.T) {
	store := session.NewStore()
	router := newRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/verify/approve/stcpay_0_missing", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "Session not found")
}

// Full flow: open a session, read the OTP off the page, approve, observe
// the terminal state. Mirrors what a browser does against the simulator.
func TestVerificationFlow(t *testing.T) {
	store := session.NewStore()
	sess := store.Create(session.MethodTabby, decimal.NewFromFloat(199.99), "SAR", "https://shop.test/thanks")
	router := newRouter(store)

	page := httptest.NewRecorder()
	router.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/verify/tabby/"+sess.ID, nil))
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), sess.OTP)

	created, _ := store.Get(sess.ID)
	require.Equal(t, session.StatusRequiresAction, created.Status)

	approve := httptest.NewRecorder()
	router.ServeHTTP(approve, httptest.NewRequest(http.MethodPost, "/verify/approve/"+sess.ID, nil))
	require.Equal(t, http.StatusOK, approve.Code)

	done, _ := store.Get(sess.ID)
	require.Equal(t, session.StatusSucceeded, done.Status)
}

package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/payment-simulator/internal/apikey"
	"github.com/noah-isme/payment-simulator/internal/session"
)

func newHandler() *Handler {
	return &Handler{
		Registry: apikey.NewRegistry("", "", ""),
		Log:      zerolog.Nop(),
	}
}

func TestListKeysReturnsAllMethods(t *testing.T) {
	h := newHandler()

	rr := httptest.NewRecorder()
	h.ListKeys(rr, httptest.NewRequest(http.MethodGet, "/admin/api-keys", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool `json:"success"`
		APIKeys map[string]struct {
			Key  string `json:"key"`
			Name string `json:"name"`
		} `json:"apiKeys"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.APIKeys, 3)
	require.Equal(t, apikey.DefaultCreditCardKey, resp.APIKeys["CREDIT_CARD"].Key)
	require.Equal(t, apikey.DefaultSTCPayKey, resp.APIKeys["STC_PAY"].Key)
	require.Equal(t, apikey.DefaultTabbyKey, resp.APIKeys["TABBY"].Key)
}

func TestUpdateKey(t *testing.T) {
	h := newHandler()

	body := `{"method":"STC_PAY","apiKey":"stc_custom_key_123"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/api-keys", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.UpdateKey(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	key, ok := h.Registry.Key(session.MethodSTCPay)
	require.True(t, ok)
	require.Equal(t, "stc_custom_key_123", key)
}

func TestUpdateKeyRejectsUnknownMethod(t *testing.T) {
	h := newHandler()

	body := `{"method":"PAYPAL","apiKey":"x"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/api-keys", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.UpdateKey(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "Unknown payment method")
}

func TestUpdateKeyRequiresFields(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPut, "/admin/api-keys", strings.NewReader(`{"method":"TABBY"}`))
	rr := httptest.NewRecorder()
	h.UpdateKey(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Method and apiKey are required")
}

func TestRegenerateKeyRotatesImmediately(t *testing.T) {
	h := newHandler()
	before, ok := h.Registry.Key(session.MethodTabby)
	require.True(t, ok)

	req := httptest.NewRequest(http.MethodPost, "/admin/api-keys/regenerate", strings.NewReader(`{"method":"TABBY"}`))
	rr := httptest.NewRecorder()
	h.RegenerateKey(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool   `json:"success"`
		NewKey  string `json:"newKey"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEqual(t, before, resp.NewKey)
	require.True(t, strings.HasPrefix(resp.NewKey, "tby_sim_pk_test_"))
	current, ok := h.Registry.Key(session.MethodTabby)
	require.True(t, ok)
	require.Equal(t, resp.NewKey, current)
}

func TestDashboardRendersKeys(t *testing.T) {
	h := newHandler()

	rr := httptest.NewRecorder()
	h.Dashboard(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	require.Contains(t, body, apikey.DefaultCreditCardKey)
	require.Contains(t, body, "STC Pay Simulator")
	require.Contains(t, body, "Tabby Simulator")
}

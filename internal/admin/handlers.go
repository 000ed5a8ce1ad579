// Package admin exposes the API key management surface: a small HTML
// dashboard plus JSON endpoints to inspect, rotate and override the
// per-method keys held by the apikey registry.
package admin

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/payment-simulator/internal/apikey"
	"github.com/noah-isme/payment-simulator/internal/common"
	"github.com/noah-isme/payment-simulator/internal/obs"
	"github.com/noah-isme/payment-simulator/internal/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Admin-facing method names differ from the wire method slugs.
var adminNames = map[string]session.Method{
	"CREDIT_CARD": session.MethodCreditCard,
	"STC_PAY":     session.MethodSTCPay,
	"TABBY":       session.MethodTabby,
}

func adminName(m session.Method) string {
	for name, method := range adminNames {
		if method == m {
			return name
		}
	}
	return strings.ToUpper(string(m))
}

type Handler struct {
	Registry *apikey.Registry
	Log      zerolog.Logger
}

type keyView struct {
	Method string
	Name   string
	Key    string
}

func (h *Handler) keyViews() []keyView {
	snapshot := h.Registry.Snapshot()
	views := make([]keyView, 0, len(snapshot))
	for _, m := range []session.Method{session.MethodCreditCard, session.MethodSTCPay, session.MethodTabby} {
		views = append(views, keyView{
			Method: adminName(m),
			Name:   m.DisplayName(),
			Key:    snapshot[m],
		})
	}
	return views
}

// Dashboard renders the HTML key management page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Keys []keyView }{Keys: h.keyViews()}
	if err := pages.ExecuteTemplate(w, "dashboard.html.tmpl", data); err != nil {
		h.Log.Error().Err(err).Msg("render admin dashboard")
	}
}

// ListKeys returns the current key for every payment method.
func (h *Handler) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys := make(map[string]map[string]string)
	for _, v := range h.keyViews() {
		keys[v.Method] = map[string]string{
			"key":  v.Key,
			"name": v.Name,
		}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"apiKeys": keys,
	})
}

type updateKeyRequest struct {
	Method string `json:"method"`
	APIKey string `json:"apiKey"`
}

// UpdateKey replaces the key for one method with a caller-supplied value.
func (h *Handler) UpdateKey(w http.ResponseWriter, r *http.Request) {
	var req updateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.Method == "" || req.APIKey == "" {
		common.JSONError(w, http.StatusBadRequest, "Method and apiKey are required", "")
		return
	}
	method, ok := adminNames[strings.ToUpper(req.Method)]
	if !ok {
		common.JSONError(w, http.StatusNotFound, "Unknown payment method", "")
		return
	}
	if !h.Registry.Set(method, req.APIKey) {
		common.JSONError(w, http.StatusNotFound, "Unknown payment method", "")
		return
	}
	if obs.KeyRotationsTotal != nil {
		obs.KeyRotationsTotal.WithLabelValues(string(method)).Inc()
	}
	h.Log.Info().Str("method", string(method)).Msg("api key updated")
	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": method.DisplayName() + " API key updated",
	})
}

type regenerateRequest struct {
	Method string `json:"method"`
}

// RegenerateKey rotates the key for one method to a fresh random value.
func (h *Handler) RegenerateKey(w http.ResponseWriter, r *http.Request) {
	var req regenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.Method == "" {
		common.JSONError(w, http.StatusBadRequest, "Method is required", "")
		return
	}
	method, ok := adminNames[strings.ToUpper(req.Method)]
	if !ok {
		common.JSONError(w, http.StatusNotFound, "Unknown payment method", "")
		return
	}
	newKey, ok := h.Registry.Regenerate(method)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "Unknown payment method", "")
		return
	}
	if obs.KeyRotationsTotal != nil {
		obs.KeyRotationsTotal.WithLabelValues(string(method)).Inc()
	}
	h.Log.Info().Str("method", string(method)).Msg("api key regenerated")
	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": method.DisplayName() + " API key regenerated",
		"newKey":  newKey,
	})
}

package creditcard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/payment-simulator/internal/common"
	"github.com/noah-isme/payment-simulator/internal/obs"
	"github.com/noah-isme/payment-simulator/internal/session"
)

// Handler exposes the credit card simulation endpoints. The card rail is
// stateless: no verification session is opened, and the advertised
// verification link resolves to the not-found page.
type Handler struct {
	PublicBaseURL string
}

type intentReq struct {
	CardNumber     string          `json:"card_number"`
	ExpiryDate     string          `json:"expiry_date"`
	CVV            string          `json:"cvv"`
	CardholderName string          `json:"cardholder_name"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	ReturnURL      string          `json:"return_url"`
}

// PaymentIntent validates card details and returns a simulated intent with
// a redirect-style next action.
func (h *Handler) PaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req intentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if details := validateIntent(req); len(details) > 0 {
		if obs.PaymentRequestTotal != nil {
			obs.PaymentRequestTotal.WithLabelValues(string(session.MethodCreditCard), "invalid").Inc()
		}
		common.JSONValidation(w, details)
		return
	}
	if obs.PaymentRequestTotal != nil {
		obs.PaymentRequestTotal.WithLabelValues(string(session.MethodCreditCard), "accepted").Inc()
	}

	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}
	base := common.BaseURL(r, h.PublicBaseURL)
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = base + "/api/v1/creditcard/callback"
	}
	paymentID := uuid.New().String()
	now := time.Now().UTC()
	common.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"payment_id":    paymentID,
		"status":        "requires_action",
		"amount":        req.Amount.InexactFloat64(),
		"currency":      currency,
		"client_secret": fmt.Sprintf("pi_%s_secret_%d", paymentID, now.UnixMilli()),
		"next_action": map[string]any{
			"type": "redirect_to_url",
			"redirect_to_url": map[string]any{
				"url":        fmt.Sprintf("%s/verify/creditcard/%s", base, paymentID),
				"return_url": returnURL,
			},
		},
		"created_at": now,
	})
}

// PaymentStatus reports a simulated (always succeeded) payment status.
func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"payment_id":   chi.URLParam(r, "paymentId"),
		"status":       "succeeded",
		"amount":       100.00,
		"currency":     "SAR",
		"processed_at": time.Now().UTC(),
	})
}

type callbackReq struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// Callback acknowledges a merchant callback.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	var req callbackReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	status := req.Status
	if status == "" {
		status = "succeeded"
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Payment callback processed",
		"payment_id":   req.PaymentID,
		"status":       status,
		"processed_at": time.Now().UTC(),
	})
}

type refundReq struct {
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
}

// Refund simulates a refund for a previous payment.
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	var req refundReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.PaymentID == "" {
		common.JSON(w, http.StatusBadRequest, common.ErrorBody{Error: "Payment ID is required for refund"})
		return
	}
	amount := any("full")
	if !req.Amount.IsZero() {
		amount = req.Amount.InexactFloat64()
	}
	reason := req.Reason
	if reason == "" {
		reason = "requested_by_customer"
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"refund_id":    uuid.New().String(),
		"payment_id":   req.PaymentID,
		"amount":       amount,
		"reason":       reason,
		"status":       "succeeded",
		"processed_at": time.Now().UTC(),
	})
}

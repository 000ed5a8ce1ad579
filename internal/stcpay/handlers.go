package stcpay

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/payment-simulator/internal/common"
	"github.com/noah-isme/payment-simulator/internal/obs"
	"github.com/noah-isme/payment-simulator/internal/session"
)

// Handler exposes the STC Pay simulation endpoints. Payment creation is
// the only stateful operation: it opens a verification session the user
// approves through the OTP page.
type Handler struct {
	Store         *session.Store
	PublicBaseURL string
	SessionTTL    time.Duration
}

type paymentReq struct {
	MobileNumber   string          `json:"mobile_number"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	OrderReference string          `json:"order_reference"`
	ReturnURL      string          `json:"return_url"`
}

type redirectToURL struct {
	URL       string `json:"url"`
	ReturnURL string `json:"return_url"`
}

type nextAction struct {
	Type          string        `json:"type"`
	RedirectToURL redirectToURL `json:"redirect_to_url"`
}

type paymentResp struct {
	Success              bool       `json:"success"`
	PaymentID            string     `json:"payment_id"`
	TransactionReference string     `json:"transaction_reference"`
	Status               string     `json:"status"`
	Amount               float64    `json:"amount"`
	Currency             string     `json:"currency"`
	MobileNumber         string     `json:"mobile_number"`
	OrderReference       string     `json:"order_reference"`
	OTPRequired          bool       `json:"otp_required"`
	NextAction           nextAction `json:"next_action"`
	ExpiresAt            time.Time  `json:"expires_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Payment validates the request, opens a verification session and returns
// the redirect target for the OTP page. STC Pay settles in SAR only.
func (h *Handler) Payment(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "STC Pay payment processing failed", "session store not configured")
		return
	}
	var req paymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if details := validatePayment(req); len(details) > 0 {
		if obs.PaymentRequestTotal != nil {
			obs.PaymentRequestTotal.WithLabelValues(string(session.MethodSTCPay), "invalid").Inc()
		}
		common.JSONValidation(w, details)
		return
	}

	sess := h.Store.Create(session.MethodSTCPay, req.Amount, "SAR", req.ReturnURL)
	if obs.SessionsCreatedTotal != nil {
		obs.SessionsCreatedTotal.WithLabelValues(string(session.MethodSTCPay)).Inc()
	}
	if obs.PaymentRequestTotal != nil {
		obs.PaymentRequestTotal.WithLabelValues(string(session.MethodSTCPay), "accepted").Inc()
	}

	base := common.BaseURL(r, h.PublicBaseURL)
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = base + "/api/v1/stcpay/callback"
	}
	ttl := h.SessionTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	now := time.Now().UTC()
	common.JSON(w, http.StatusOK, paymentResp{
		Success:              true,
		PaymentID:            uuid.New().String(),
		TransactionReference: transactionRef("STC"),
		Status:               "pending_otp",
		Amount:               req.Amount.InexactFloat64(),
		Currency:             "SAR",
		MobileNumber:         common.FormatSaudiMobile(req.MobileNumber),
		OrderReference:       req.OrderReference,
		OTPRequired:          true,
		NextAction: nextAction{
			Type: "redirect_to_url",
			RedirectToURL: redirectToURL{
				URL:       fmt.Sprintf("%s/verify/stcpay/%s", base, sess.ID),
				ReturnURL: returnURL,
			},
		},
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
}

type verifyOTPReq struct {
	PaymentID string `json:"payment_id"`
	OTP       string `json:"otp"`
}

// VerifyOTP simulates server-side OTP verification: any presented code is
// accepted, matching the original simulator.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentID == "" || req.OTP == "" {
		common.JSON(w, http.StatusBadRequest, common.ErrorBody{Error: "Payment ID and OTP are required"})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":               true,
		"payment_id":            req.PaymentID,
		"status":                "succeeded",
		"message":               "Payment completed successfully",
		"transaction_reference": transactionRef("STC"),
		"verified_at":           time.Now().UTC(),
	})
}

// PaymentStatus reports a simulated (always succeeded) payment status.
func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"success":               true,
		"payment_id":            chi.URLParam(r, "paymentId"),
		"status":                "succeeded",
		"amount":                100.00,
		"currency":              "SAR",
		"transaction_reference": transactionRef("STC"),
		"processed_at":          time.Now().UTC(),
	})
}

type callbackReq struct {
	PaymentID            string `json:"payment_id"`
	Status               string `json:"status"`
	TransactionReference string `json:"transaction_reference"`
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
		"success":               true,
		"message":               "STC Pay callback processed",
		"payment_id":            req.PaymentID,
		"status":                status,
		"transaction_reference": req.TransactionReference,
		"processed_at":          time.Now().UTC(),
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
		"success":               true,
		"refund_id":             uuid.New().String(),
		"payment_id":            req.PaymentID,
		"amount":                amount,
		"reason":                reason,
		"status":                "succeeded",
		"transaction_reference": transactionRef("STCR"),
		"processed_at":          time.Now().UTC(),
	})
}

func transactionRef(prefix string) string {
	return fmt.Sprintf("%s%d%d", prefix, time.Now().UnixMilli(), rand.IntN(1000))
}

package tabby

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

const installmentsCount = 4

// Handler exposes the Tabby buy-now-pay-later simulation endpoints.
// Checkout opens a verification session; the remaining endpoints return
// simulated lifecycle responses only.
type Handler struct {
	Store         *session.Store
	PublicBaseURL string
	SessionTTL    time.Duration
}

type buyer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	DOB   string `json:"dob"`
}

type shippingAddress struct {
	City         string `json:"city"`
	AddressLine1 string `json:"address_line_1"`
	Zip          string `json:"zip"`
}

type orderItem struct {
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type order struct {
	Items []orderItem `json:"items"`
}

type merchantURLs struct {
	Success string `json:"success"`
	Cancel  string `json:"cancel"`
	Failure string `json:"failure"`
}

type checkoutReq struct {
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency"`
	Buyer           *buyer           `json:"buyer"`
	ShippingAddress *shippingAddress `json:"shipping_address"`
	Order           *order           `json:"order"`
	MerchantURLs    *merchantURLs    `json:"merchant_urls"`
}

type installmentProduct struct {
	Type   string `json:"type"`
	Count  int    `json:"count"`
	WebURL string `json:"web_url"`
}

type availableProducts struct {
	Installments []installmentProduct `json:"installments"`
}

type configuration struct {
	ID                string            `json:"id"`
	AvailableProducts availableProducts `json:"available_products"`
}

type paymentMethod struct {
	Type              string `json:"type"`
	InstallmentsCount int    `json:"installments_count"`
}

type checkoutResp struct {
	Success           bool          `json:"success"`
	PaymentID         string        `json:"payment_id"`
	Status            string        `json:"status"`
	Amount            float64       `json:"amount"`
	Currency          string        `json:"currency"`
	InstallmentsCount int           `json:"installments_count"`
	InstallmentAmount float64       `json:"installment_amount"`
	Configuration     configuration `json:"configuration"`
	PaymentMethod     paymentMethod `json:"payment_method"`
	MerchantURLs      merchantURLs  `json:"merchant_urls"`
	CreatedAt         time.Time     `json:"created_at"`
	ExpiresAt         time.Time     `json:"expires_at"`
}

// Checkout validates the request, opens a verification session and returns
// the installment configuration with the hosted verification link.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "Tabby checkout creation failed", "session store not configured")
		return
	}
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if details := validateCheckout(req); len(details) > 0 {
		if obs.PaymentRequestTotal != nil {
			obs.PaymentRequestTotal.WithLabelValues(string(session.MethodTabby), "invalid").Inc()
		}
		common.JSONValidation(w, details)
		return
	}

	var returnURL string
	if req.MerchantURLs != nil {
		returnURL = req.MerchantURLs.Success
	}
	sess := h.Store.Create(session.MethodTabby, req.Amount, req.Currency, returnURL)
	if obs.SessionsCreatedTotal != nil {
		obs.SessionsCreatedTotal.WithLabelValues(string(session.MethodTabby)).Inc()
	}
	if obs.PaymentRequestTotal != nil {
		obs.PaymentRequestTotal.WithLabelValues(string(session.MethodTabby), "accepted").Inc()
	}

	base := common.BaseURL(r, h.PublicBaseURL)
	urls := merchantURLs{
		Success: base + "/api/v1/tabby/callback?status=approved",
		Cancel:  base + "/api/v1/tabby/callback?status=rejected",
		Failure: base + "/api/v1/tabby/callback?status=failed",
	}
	if req.MerchantURLs != nil {
		if req.MerchantURLs.Success != "" {
			urls.Success = req.MerchantURLs.Success
		}
		if req.MerchantURLs.Cancel != "" {
			urls.Cancel = req.MerchantURLs.Cancel
		}
		if req.MerchantURLs.Failure != "" {
			urls.Failure = req.MerchantURLs.Failure
		}
	}
	ttl := h.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	now := time.Now().UTC()
	common.JSON(w, http.StatusOK, checkoutResp{
		Success:           true,
		PaymentID:         uuid.New().String(),
		Status:            "created",
		Amount:            req.Amount.InexactFloat64(),
		Currency:          req.Currency,
		InstallmentsCount: installmentsCount,
		InstallmentAmount: sess.InstallmentAmount(installmentsCount).InexactFloat64(),
		Configuration: configuration{
			ID: fmt.Sprintf("conf_%d", now.UnixMilli()),
			AvailableProducts: availableProducts{
				Installments: []installmentProduct{{
					Type:   "monthly",
					Count:  installmentsCount,
					WebURL: fmt.Sprintf("%s/verify/tabby/%s", base, sess.ID),
				}},
			},
		},
		PaymentMethod: paymentMethod{Type: "installments", InstallmentsCount: installmentsCount},
		MerchantURLs:  urls,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	})
}

type captureReq struct {
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Capture simulates completing the installment setup for a payment.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	var req captureReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.PaymentID == "" {
		common.JSON(w, http.StatusBadRequest, common.ErrorBody{Error: "Payment ID is required"})
		return
	}
	amount := 100.00
	if !req.Amount.IsZero() {
		amount = req.Amount.InexactFloat64()
	}
	now := time.Now().UTC()
	common.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"id":       req.PaymentID,
		"status":   "authorized",
		"amount":   amount,
		"currency": "SAR",
		"captures": []map[string]any{{
			"id":         "cap_" + uuid.New().String(),
			"amount":     amount,
			"created_at": now,
		}},
		"captured_at": now,
	})
}

// PaymentStatus reports a simulated installment schedule for a payment.
func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	schedule := make([]map[string]any, 0, installmentsCount)
	for i := 0; i < installmentsCount; i++ {
		schedule = append(schedule, map[string]any{
			"due_date": now.AddDate(0, 0, 30*i).Format("2006-01-02"),
			"amount":   25.00,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"id":       chi.URLParam(r, "paymentId"),
		"status":   "authorized",
		"amount":   100.00,
		"currency": "SAR",
		"installments": map[string]any{
			"count":                  installmentsCount,
			"amount_per_installment": 25.00,
			"schedule":               schedule,
		},
		"created_at": now,
	})
}

type callbackReq struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// Callback acknowledges a merchant callback; status may come from the body
// or the query string.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	var req callbackReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	status := req.Status
	if status == "" {
		status = r.URL.Query().Get("status")
	}
	if status == "" {
		status = "approved"
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Tabby callback processed",
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

// Refund simulates a refund against a captured payment.
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
		"id":           uuid.New().String(),
		"payment_id":   req.PaymentID,
		"amount":       amount,
		"reason":       reason,
		"status":       "approved",
		"processed_at": time.Now().UTC(),
	})
}

type closeReq struct {
	PaymentID string `json:"payment_id"`
}

// Close simulates closing a completed installment plan.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	var req closeReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.PaymentID == "" {
		common.JSON(w, http.StatusBadRequest, common.ErrorBody{Error: "Payment ID is required"})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"id":        req.PaymentID,
		"status":    "closed",
		"closed_at": time.Now().UTC(),
	})
}

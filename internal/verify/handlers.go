package verify

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/payment-simulator/internal/common"
	"github.com/noah-isme/payment-simulator/internal/obs"
	"github.com/noah-isme/payment-simulator/internal/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Handler serves the human-facing verification pages and the approval
// endpoint. The approval endpoint is deliberately unauthenticated: this is
// a simulator, and anyone holding a session id may complete it.
type Handler struct {
	Store *session.Store
}

// brand carries the method-specific presentation of the shared page layout.
type brand struct {
	Logo             string
	Title            string
	Heading          string
	Color            template.CSS
	Panel            template.CSS
	OTPLabel         string
	OTPValidity      string
	Note             string
	ApproveLabel     string
	RejectLabel      string
	ApprovedAlert    string
	ShowInstallments bool
}

type pageData struct {
	Brand       brand
	Session     *session.PaymentSession
	Amount      string
	Installment string
	ReturnURL   string
}

func brandFor(method session.Method) brand {
	switch method {
	case session.MethodSTCPay:
		return brand{
			Logo:          "📱 STC Pay",
			Title:         "STC Pay Verification",
			Heading:       "Payment Verification",
			Color:         "#673ab7",
			Panel:         "#f3e5f5",
			OTPLabel:      "Your STC Pay OTP:",
			OTPValidity:   "Valid for 15 minutes",
			Note:          "In a real STC Pay transaction, this OTP would be sent to your registered mobile number. For simulation purposes, it's displayed here.",
			ApproveLabel:  "✅ Confirm Payment",
			RejectLabel:   "❌ Cancel Payment",
			ApprovedAlert: "Payment approved! You can close this window.",
		}
	case session.MethodTabby:
		return brand{
			Logo:             "🛍️ Tabby",
			Title:            "Tabby Verification",
			Heading:          "Buy Now, Pay Later",
			Color:            "#ff6b35",
			Panel:            "#fff3e0",
			OTPLabel:         "Verification Code:",
			Note:             "In a real Tabby transaction, you would need to verify your identity. For simulation purposes, the verification code is displayed here.",
			ApproveLabel:     "✅ Approve Installment Plan",
			RejectLabel:      "❌ Cancel",
			ApprovedAlert:    "Installment plan approved! You can close this window.",
			ShowInstallments: true,
		}
	default:
		return brand{
			Title:         "Credit Card Verification",
			Heading:       "💳 Credit Card Verification",
			Color:         "#1976d2",
			Panel:         "#e3f2fd",
			OTPLabel:      "Your verification code:",
			Note:          "In a real payment gateway, this code would be sent to your registered mobile number. For simulation purposes, it's displayed here.",
			ApproveLabel:  "✅ Approve Payment",
			RejectLabel:   "❌ Cancel Payment",
			ApprovedAlert: "Payment approved! You can close this window.",
		}
	}
}

// Page renders the verification page for a session, branded per the method
// segment of the URL. Unknown methods and missing sessions both render the
// distinct not-found view instead of an error page.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	method, err := session.ParseMethod(chi.URLParam(r, "method"))
	if err != nil {
		h.renderNotFound(w)
		return
	}
	sess, ok := h.Store.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		h.renderNotFound(w)
		return
	}

	returnURL := sess.ReturnURL
	if returnURL == "" {
		returnURL = "/"
	}
	data := pageData{
		Brand:     brandFor(method),
		Session:   sess,
		Amount:    sess.Amount.String(),
		ReturnURL: returnURL,
	}
	if data.Brand.ShowInstallments {
		data.Installment = sess.InstallmentAmount(4).StringFixed(2)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "verify.html.tmpl", data); err != nil {
		http.Error(w, "Error loading verification page", http.StatusInternalServerError)
	}
}

// Approve transitions the session to succeeded and echoes the return URL
// the browser should redirect to. Unknown sessions get a 404 and no
// mutation takes place.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, ok := h.Store.Approve(id)
	if !ok {
		common.JSON(w, http.StatusNotFound, common.ErrorBody{Error: "Session not found"})
		return
	}
	if obs.SessionsApprovedTotal != nil {
		obs.SessionsApprovedTotal.WithLabelValues(string(sess.Method)).Inc()
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Payment approved",
		"sessionId": id,
		"returnUrl": sess.ReturnURL,
	})
}

func (h *Handler) renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = pages.ExecuteTemplate(w, "notfound.html.tmpl", nil)
}

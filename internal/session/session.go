package session

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Method identifies one of the three simulated payment rails. The set is
// closed: anything else is rejected at the boundary instead of silently
// falling through a string lookup.
type Method string

const (
	MethodCreditCard Method = "creditcard"
	MethodSTCPay     Method = "stcpay"
	MethodTabby      Method = "tabby"
)

// ParseMethod maps a wire identifier to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCreditCard, MethodSTCPay, MethodTabby:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// DisplayName returns the human-facing name used on verification pages
// and the admin dashboard.
func (m Method) DisplayName() string {
	switch m {
	case MethodCreditCard:
		return "Credit Card Simulator"
	case MethodSTCPay:
		return "STC Pay Simulator"
	case MethodTabby:
		return "Tabby Simulator"
	}
	return string(m)
}

// Status is the lifecycle state of a payment session. The only transition
// is RequiresAction -> Succeeded; a cancel never touches the store.
type Status string

const (
	StatusRequiresAction Status = "requires_action"
	StatusSucceeded      Status = "succeeded"
)

// PaymentSession correlates a payment attempt with its one-time code and
// the caller-supplied return destination. Sessions live for the process
// lifetime; the advertised expiry is informational only.
type PaymentSession struct {
	ID         string          `json:"id"`
	Method     Method          `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	ReturnURL  string          `json:"returnUrl,omitempty"`
	OTP        string          `json:"otp"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	ApprovedAt *time.Time      `json:"approvedAt,omitempty"`
}

// InstallmentAmount splits the session amount into count equal payments,
// rounded to two decimal places.
func (s PaymentSession) InstallmentAmount(count int64) decimal.Decimal {
	return s.Amount.Div(decimal.NewFromInt(count)).Round(2)
}

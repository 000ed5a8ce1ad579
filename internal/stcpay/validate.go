package stcpay

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/payment-simulator/internal/common"
)

var (
	minAmount = decimal.NewFromInt(1)
	maxAmount = decimal.NewFromInt(50000)
)

// validatePayment applies the STC Pay request rules and returns one
// human-readable message per failed field.
func validatePayment(req paymentReq) []string {
	var errs []string

	if req.MobileNumber == "" {
		errs = append(errs, "Mobile number is required")
	} else if !common.IsSaudiMobile(req.MobileNumber) {
		errs = append(errs, "Invalid Saudi mobile number format (should be 05XXXXXXXX or +966 5XXXXXXXX)")
	}

	switch {
	case req.Amount.IsZero():
		errs = append(errs, "Amount is required")
	case req.Amount.IsNegative():
		errs = append(errs, "Invalid amount")
	case req.Amount.LessThan(minAmount):
		errs = append(errs, "Minimum transaction amount is 1 SAR")
	case req.Amount.GreaterThan(maxAmount):
		errs = append(errs, "Maximum transaction amount is 50,000 SAR")
	}

	if req.Currency != "" && req.Currency != "SAR" {
		errs = append(errs, "STCpay only supports SAR currency")
	}

	if req.OrderReference == "" {
		errs = append(errs, "Order reference is required")
	} else if len(req.OrderReference) < 3 {
		errs = append(errs, "Order reference too short (minimum 3 characters)")
	}

	return errs
}

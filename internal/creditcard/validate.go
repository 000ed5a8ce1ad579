package creditcard

import (
	"regexp"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
)

var (
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2}|[0-9]{4})$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)

	validate = validator.New()
)

// validateIntent applies the card payment rules and returns one
// human-readable message per failed field.
func validateIntent(req intentReq) []string {
	var errs []string

	if req.CardNumber == "" {
		errs = append(errs, "Card number is required")
	} else if validate.Var(strings.ReplaceAll(req.CardNumber, " ", ""), "credit_card") != nil {
		errs = append(errs, "Invalid card number format")
	}

	if req.ExpiryDate == "" {
		errs = append(errs, "Expiry date is required")
	} else if !expiryRe.MatchString(req.ExpiryDate) {
		errs = append(errs, "Invalid expiry date format (MM/YY or MM/YYYY required)")
	} else if cardExpired(req.ExpiryDate) {
		errs = append(errs, "Card has expired")
	}

	if req.CVV == "" {
		errs = append(errs, "CVV is required")
	} else if !cvvRe.MatchString(req.CVV) {
		errs = append(errs, "Invalid CVV format (3 or 4 digits required)")
	}

	if req.CardholderName == "" {
		errs = append(errs, "Cardholder name is required")
	} else if len(req.CardholderName) < 2 {
		errs = append(errs, "Cardholder name too short")
	}

	switch {
	case req.Amount.IsZero():
		errs = append(errs, "Amount is required")
	case req.Amount.IsNegative():
		errs = append(errs, "Invalid amount")
	}

	switch req.Currency {
	case "", "SAR", "USD", "EUR":
	default:
		errs = append(errs, "Unsupported currency")
	}

	return errs
}

// cardExpired treats a card as valid through the last day of its expiry month.
func cardExpired(expiry string) bool {
	parts := strings.SplitN(expiry, "/", 2)
	month, year := parts[0], parts[1]
	if len(year) == 2 {
		year = "20" + year
	}
	t, err := time.Parse("2006-01", year+"-"+month)
	if err != nil {
		return true
	}
	endOfMonth := t.AddDate(0, 1, 0)
	return endOfMonth.Before(time.Now())
}

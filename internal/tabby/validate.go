package tabby

import (
	"fmt"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/payment-simulator/internal/common"
)

var (
	minAmount = decimal.NewFromInt(50)
	maxAmount = decimal.NewFromInt(50000)

	validate = validator.New()
)

var dobLayouts = []string{"2006-01-02", "2006/01/02", time.RFC3339}

// validateCheckout applies the Tabby checkout rules and returns one
// human-readable message per failed field.
func validateCheckout(req checkoutReq) []string {
	var errs []string

	switch {
	case req.Amount.IsZero():
		errs = append(errs, "Amount is required")
	case req.Amount.IsNegative():
		errs = append(errs, "Invalid amount")
	case req.Amount.LessThan(minAmount):
		errs = append(errs, "Minimum transaction amount is 50 SAR")
	case req.Amount.GreaterThan(maxAmount):
		errs = append(errs, "Maximum transaction amount is 50,000 SAR")
	}

	switch req.Currency {
	case "":
		errs = append(errs, "Currency is required")
	case "SAR", "AED":
	default:
		errs = append(errs, "Tabby only supports SAR and AED currencies")
	}

	errs = append(errs, validateBuyer(req.Buyer)...)
	errs = append(errs, validateShipping(req.ShippingAddress)...)
	errs = append(errs, validateItems(req.Order)...)

	return errs
}

func validateBuyer(b *buyer) []string {
	if b == nil {
		return []string{"Buyer information is required"}
	}
	var errs []string
	if b.Email == "" {
		errs = append(errs, "Buyer email is required")
	} else if validate.Var(b.Email, "email") != nil {
		errs = append(errs, "Invalid email format")
	}
	if b.Phone == "" {
		errs = append(errs, "Buyer phone number is required")
	} else if !common.IsSaudiMobile(b.Phone) {
		errs = append(errs, "Invalid phone number format (Saudi numbers preferred)")
	}
	if b.Name == "" {
		errs = append(errs, "Buyer name is required")
	} else if len(b.Name) < 2 {
		errs = append(errs, "Buyer name too short")
	}
	if b.DOB == "" {
		errs = append(errs, "Buyer date of birth is required")
	} else if dob, ok := parseDOB(b.DOB); !ok {
		errs = append(errs, "Invalid date of birth format")
	} else if time.Now().Year()-dob.Year() < 18 {
		errs = append(errs, "Buyer must be at least 18 years old")
	}
	return errs
}

func validateShipping(a *shippingAddress) []string {
	if a == nil {
		return []string{"Shipping address is required"}
	}
	var errs []string
	if a.City == "" {
		errs = append(errs, "Shipping city is required")
	}
	if a.AddressLine1 == "" {
		errs = append(errs, "Shipping address line 1 is required")
	}
	if a.Zip == "" {
		errs = append(errs, "Shipping zip code is required")
	}
	return errs
}

func validateItems(o *order) []string {
	if o == nil || o.Items == nil {
		return []string{"Order items are required"}
	}
	if len(o.Items) == 0 {
		return []string{"At least one order item is required"}
	}
	var errs []string
	for i, item := range o.Items {
		if item.Title == "" {
			errs = append(errs, fmt.Sprintf("Item %d: Title is required", i+1))
		}
		if item.UnitPrice.LessThanOrEqual(decimal.Zero) {
			errs = append(errs, fmt.Sprintf("Item %d: Valid unit price is required", i+1))
		}
		if item.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("Item %d: Valid quantity is required", i+1))
		}
	}
	return errs
}

func parseDOB(value string) (time.Time, bool) {
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package common

import (
	"regexp"
	"strings"
)

// Saudi mobile numbers: +966 5XXXXXXXX, 966 5XXXXXXXX, 05XXXXXXXX or 5XXXXXXXX.
var saudiMobileRe = regexp.MustCompile(`^(\+966|966|0)?5[0-9]{8}$`)

// CleanMobile strips spaces and dashes from a phone number.
func CleanMobile(mobile string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(mobile)
}

// IsSaudiMobile reports whether the number matches the Saudi mobile format
// after cleaning.
func IsSaudiMobile(mobile string) bool {
	return saudiMobileRe.MatchString(CleanMobile(mobile))
}

// FormatSaudiMobile normalises a Saudi mobile number to international
// +9665XXXXXXXX form. Unrecognised inputs pass through cleaned.
func FormatSaudiMobile(mobile string) string {
	clean := CleanMobile(mobile)
	switch {
	case strings.HasPrefix(clean, "+966"):
		return clean
	case strings.HasPrefix(clean, "966"):
		return "+" + clean
	case strings.HasPrefix(clean, "05"):
		return "+966" + clean[1:]
	case strings.HasPrefix(clean, "5"):
		return "+966" + clean
	}
	return clean
}

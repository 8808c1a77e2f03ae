package registry

import (
	"regexp"
	"strings"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigit       = regexp.MustCompile(`\D`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	numberPattern  = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// PasswordCheck reports password strength. Only MinLength gates Valid;
// the remaining flags are diagnostics for the caller to display.
type PasswordCheck struct {
	Valid           bool `json:"valid"`
	MinLength       bool `json:"minLength"`
	HasUpperCase    bool `json:"hasUpperCase"`
	HasLowerCase    bool `json:"hasLowerCase"`
	HasNumbers      bool `json:"hasNumbers"`
	HasSpecialChars bool `json:"hasSpecialChars"`
}

// PhoneCheck carries the validation verdict and the digits-only form of
// the number. Formatted is empty when the number is invalid.
type PhoneCheck struct {
	Valid     bool   `json:"valid"`
	Formatted string `json:"formatted"`
}

// ValidateEmail applies the permissive single-@, dot-after-@ check. It
// does not reject every address that is invalid per RFC 5321.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword checks password strength.
func ValidatePassword(password string) PasswordCheck {
	minLength := len(password) >= 8
	return PasswordCheck{
		Valid:           minLength,
		MinLength:       minLength,
		HasUpperCase:    upperPattern.MatchString(password),
		HasLowerCase:    lowerPattern.MatchString(password),
		HasNumbers:      numberPattern.MatchString(password),
		HasSpecialChars: specialPattern.MatchString(password),
	}
}

// ValidatePhone accepts Kenyan mobile numbers: 10 digits starting 07, or
// 13 digits starting 2547. All non-digit characters are stripped first.
func ValidatePhone(phone string) PhoneCheck {
	cleaned := nonDigit.ReplaceAllString(phone, "")

	if len(cleaned) == 10 && strings.HasPrefix(cleaned, "07") {
		return PhoneCheck{Valid: true, Formatted: cleaned}
	}

	if len(cleaned) == 13 && strings.HasPrefix(cleaned, "2547") {
		return PhoneCheck{Valid: true, Formatted: cleaned}
	}

	return PhoneCheck{Valid: false}
}

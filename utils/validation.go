package utils

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidatePassword enforces the minimum password shape: 6+ characters with
// at least one lowercase, one uppercase and one digit.
func ValidatePassword(password string) (ok bool, reason string) {
	if len(password) < 6 {
		return false, "The password must contain at least 6 characters"
	}
	hasLower := strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz")
	hasUpper := strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	hasDigit := strings.ContainsAny(password, "0123456789")
	if !hasLower || !hasUpper || !hasDigit {
		return false, "The password must contain at least one lowercase, one uppercase and one digit"
	}
	return true, ""
}

// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var e164 = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// NormalizePhone strips common separators from a phone number.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	return e164.MatchString(NormalizePhone(phone))
}

package utils

import "strings"

// NormalizeEmail lowercases and trims the primary login identifier.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// IsEmail is a cheap shape check; real validation is delivery.
func IsEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.Contains(s[at+1:], "@")
}

package core

import "strings"

// CleanString trims leading and trailing whitespace in s, lower-casing it when asked to.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		s = strings.ToLower(s)
	}
	return s
}

// CleanEmail normalizes an email address for storage and lookups.
// Emails are case-insensitive here, the lower-cased form is canonical.
func CleanEmail(email string) string {
	return CleanString(email, true /* lower */)
}

package utils

import "strings"

// MaskToken keeps the first and last four characters of a credential so
// log lines can be correlated without leaking it.
func MaskToken(tok string) string {
	if tok == "" {
		return ""
	}
	if len(tok) <= 12 {
		return "***"
	}
	return tok[:4] + "..." + tok[len(tok)-4:]
}

// MaskEmail hides the local part of an address except its first rune.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return MaskToken(email)
	}
	return email[:1] + "***" + email[at:]
}

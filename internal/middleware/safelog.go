package middleware

import "strings"

// MaskToken shortens a token for logs; the full value never appears in output.
func MaskToken(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 8 {
		return "****"
	}
	return s[:8] + "***"
}

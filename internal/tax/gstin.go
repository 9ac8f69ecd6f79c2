package tax

import (
	"regexp"
	"strings"
)

var gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// ValidGSTIN reports whether s has the 15-character GSTIN shape.
func ValidGSTIN(s string) bool {
	return gstinPattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// StateCodeFromGSTIN returns the two-digit state prefix, or "" when the GSTIN is malformed.
func StateCodeFromGSTIN(gstin string) string {
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if !gstinPattern.MatchString(gstin) {
		return ""
	}
	return gstin[:2]
}

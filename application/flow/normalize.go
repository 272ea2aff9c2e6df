package flow

import (
	"strings"
	"unicode"
)

// normalizeDigits strips everything but digits, so prices like
// NT$2,800 compare as 2800
func normalizeDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

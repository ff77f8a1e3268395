package ioutils

import "strings"

// SanitizeTag normalizes a tag value before it is written to a file.
//
// A nil value becomes "". Otherwise surrounding whitespace is trimmed and
// every rune outside printable ASCII (0x20-0x7E) is dropped. Dropping can
// uncover whitespace at either end, so the result is trimmed again.
//
// Lookups must use the raw value; only the persisted tag is sanitized.
//
// Example:
//
//	SanitizeTag(model.String("  Beyoncé "))  // Returns "Beyonc"
//	SanitizeTag(model.String("é Title"))     // Returns "Title"
//	SanitizeTag(nil)                         // Returns ""
func SanitizeTag(value *string) string {
	if value == nil {
		return ""
	}

	s := strings.TrimSpace(*value)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, s)

	return strings.TrimSpace(s)
}

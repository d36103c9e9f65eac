// Package email derives a presentable name from an address when a lead
// record carries no name of its own.
package email

import (
	"strings"
	"unicode"
)

// DeriveName builds a display name from the local part of an address:
// "jane.smith@example.com" becomes "Jane Smith". Returns empty when nothing
// usable remains.
func DeriveName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at >= 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	words := make([]string, 0, len(parts))
	for _, p := range parts {
		// Skip pure-numeric fragments like the "99" in jane.smith.99.
		if strings.IndexFunc(p, unicode.IsLetter) == -1 {
			continue
		}
		words = append(words, capitalize(p))
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

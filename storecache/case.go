package storecache

import (
	"strings"
	"unicode"
)

// toSnake converts a reflected type name such as "*shopify.Source" into a
// key namespace such as "shopify_source". Punctuation collapses into single
// underscores so namespaces stay usable as key prefixes.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	pendingSep := false
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					pendingSep = true
				}
			}
			writeSnake(&b, &pendingSep, unicode.ToLower(r))
		case unicode.IsLower(r):
			writeSnake(&b, &pendingSep, r)
		case unicode.IsDigit(r):
			if i > 0 && !unicode.IsDigit(runes[i-1]) {
				pendingSep = true
			}
			writeSnake(&b, &pendingSep, r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}

func writeSnake(b *strings.Builder, pendingSep *bool, r rune) {
	if *pendingSep && b.Len() > 0 {
		b.WriteByte('_')
	}
	*pendingSep = false
	b.WriteRune(r)
}

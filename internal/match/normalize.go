// Package match implements fuzzy application-identity matching.
// Raw OS-reported names are normalized, resolved through an alias
// table, and compared with a tiered similarity ladder: canonical
// equality, normalized equality, containment, word overlap, and a
// Levenshtein/Jaro-Winkler fallback.
package match

import (
	"strings"
	"unicode"
)

// executableSuffixes are trailing suffixes stripped during
// normalization. Only one suffix is removed, so "chrome.exe" and
// "Chrome.app" both collapse to "chrome".
var executableSuffixes = []string{
	".exe",
	".app",
	".bin",
	".cmd",
	".bat",
	".sh",
	".dmg",
	".msi",
	".appimage",
}

// Normalize canonicalizes a raw OS-reported name into a comparable
// form: lowercase, one trailing executable/bundle suffix stripped,
// every rune that is not a letter, digit, space, or hyphen replaced by
// a space, whitespace runs collapsed, and the result trimmed.
//
// Normalize is a pure function and idempotent:
// Normalize(Normalize(x)) == Normalize(x). Empty input yields "".
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	for _, suffix := range executableSuffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

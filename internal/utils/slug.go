package utils

import (
	"strings"
	"unicode"
)

// Common accented latin letters folded to their ascii base so Spanish titles
// produce readable slugs.
var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "ä", "a", "â", "a",
	"é", "e", "è", "e", "ë", "e", "ê", "e",
	"í", "i", "ì", "i", "ï", "i", "î", "i",
	"ó", "o", "ò", "o", "ö", "o", "ô", "o",
	"ú", "u", "ù", "u", "ü", "u", "û", "u",
	"ñ", "n", "ç", "c",
)

// Slugify derives a URL-safe identifier from a title: lowercase, accents
// folded, every run of non-alphanumeric characters collapsed into a single
// hyphen. Returns "" when the title has no usable characters.
func Slugify(title string) string {
	s := accentFolder.Replace(strings.ToLower(strings.TrimSpace(title)))

	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

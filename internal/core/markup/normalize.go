package markup

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

var reCRLF = regexp.MustCompile(`\r\n?`)

// Normalize unifies line endings and composes Unicode to NFC so that tag and glyph
// matching sees one canonical form. Line structure is kept.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	return norm.NFC.String(s)
}

package tracker

import (
	"strings"
)

var ocrConfusions = strings.NewReplacer(
	"|", "l",
	"0", "o",
	"1", "l",
)

func containsLetter(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return r >= 'a' && r <= 'z'
	})
}

// NormalizeName derives the canonical identity key for a recognized name:
// lower-cased, common OCR confusions folded, restricted to letters, spaces,
// and hyphens, with whitespace collapsed. Two detections with the same
// normalized form are the same tracked entity.
//
// Confusion folding applies only to tokens that contain at least one
// letter: "A|ice" is misread text, but "123" is just a number and must not
// collapse into a name.
func NormalizeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))

	var out []string
	for _, field := range strings.Fields(normalized) {
		if containsLetter(field) {
			field = ocrConfusions.Replace(field)
		}

		var b strings.Builder
		b.Grow(len(field))
		for _, r := range field {
			if (r >= 'a' && r <= 'z') || r == '-' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}

	return strings.Join(out, " ")
}

// Package slug turns display names into URL-safe identifiers.
package slug

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes Unicode text and drops the combining marks,
// turning accented characters into their ASCII base form.
var stripMarks = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
)

// Make normalizes display text into a lowercase, ASCII-only,
// hyphen-separated token. It is total and idempotent:
// Make(Make(x)) == Make(x) for all inputs. The result matches
// ^[a-z0-9]+(-[a-z0-9]+)*$ or is empty.
func Make(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	if ascii, _, err := transform.String(stripMarks, text); err == nil {
		text = ascii
	}

	var b strings.Builder
	b.Grow(len(text))
	pendingHyphen := false
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			// Every run of non-alphanumerics collapses to one hyphen,
			// and leading/trailing hyphens are dropped.
			pendingHyphen = true
		}
	}

	return b.String()
}

// WithSuffix appends a timestamp suffix to a base slug. Stores use it to
// resolve collisions when the base slug already exists.
func WithSuffix(base string, now time.Time) string {
	return base + "-" + now.Format("20060102150405")
}

// NextSuffix is WithSuffix at the current time.
func NextSuffix(base string) string {
	return WithSuffix(base, time.Now().UTC())
}

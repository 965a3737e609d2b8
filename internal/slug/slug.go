// Package slug derives URL path segments from icon titles.
package slug

import (
	"errors"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxLength bounds the length of a generated slug.
const MaxLength = 1000

// strippedChars are removed from titles before the slug is built.
const strippedChars = ".,/#'!$%^&*;:{}=_`~()"

var errInvalidEncoding = errors.New("slug: title is not valid UTF-8")

// Make maps a display title to a lower-case, hyphen-separated path segment.
//
// When the title cannot be percent-encoded (invalid UTF-8), the slug is derived
// from fallbackFileName without its extension instead. The result only contains
// [a-z0-9-] and is at most MaxLength bytes long. Make is pure and deterministic.
func Make(title, fallbackFileName string) string {
	s, err := build(title)
	if err != nil {
		base := strings.TrimSuffix(fallbackFileName, path.Ext(fallbackFileName))
		if s, err = build(base); err != nil {
			s, _ = build(strings.ToValidUTF8(base, ""))
		}
	}
	if len(s) > MaxLength {
		s = s[:MaxLength]
	}
	return s
}

func build(title string) (string, error) {
	if !utf8.ValidString(title) {
		return "", errInvalidEncoding
	}
	s := strings.ReplaceAll(title, "/", " ")
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedChars, r) {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), "-")
	// Casers carry state; a fresh one per call keeps Make safe for concurrent use.
	s = cases.Lower(language.Und).String(s)
	return encode(s), nil
}

// encode percent-encodes everything outside [a-z0-9-] and turns each '%'
// into '-', so "é" becomes "-c3-a9".
func encode(s string) string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('-')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isSafe(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-'
}

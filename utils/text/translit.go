// Package text holds small text normalization helpers shared by the store
// and asset layers.
package text

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

// Transliterate converts non-ASCII characters to their ASCII equivalents
// while preserving spaces and original capitalization.
// For example: "Страница продукта" -> "Stranitsa produkta"
func Transliterate(s string) string {
	words := strings.Fields(norm.NFC.String(s))
	for i, word := range words {
		words[i] = transliterateWord(word)
	}
	return strings.Join(words, " ")
}

func transliterateWord(word string) string {
	if word == "" {
		return ""
	}

	runes := []rune(word)
	firstUpper := unicode.IsUpper(runes[0])
	allUpper := isAllUpper(runes)

	// slug does the transliteration; capitalization is restored after
	slug.Lowercase = false
	trans := slug.Make(word)
	slug.Lowercase = true

	if trans == "" {
		return word
	}

	transRunes := []rune(trans)
	if allUpper {
		for i := range transRunes {
			transRunes[i] = unicode.ToUpper(transRunes[i])
		}
	} else if firstUpper {
		transRunes[0] = unicode.ToUpper(transRunes[0])
	}
	return string(transRunes)
}

func isAllUpper(runes []rune) bool {
	hasLetter := false
	for _, r := range runes {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// Slugify converts text to a URL and file-name friendly slug: lowercased,
// transliterated, spaces become hyphens.
func Slugify(s string) string {
	return slug.Make(norm.NFC.String(s))
}

// Package duplicates groups scout player records that describe the same real-world
// player and merges each group into a canonical global entry.
package duplicates

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Dosada05/scouting-system/models"
)

// Normalize builds the grouping key for a player name: lower-cased, diacritics
// stripped, everything but [a-z0-9] and whitespace removed, whitespace collapsed.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	lowered := cases.Lower(language.Und).String(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, lowered)
	if err != nil {
		// Трансформация над строкой в памяти не должна падать; работаем с тем, что есть.
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// GroupKey returns the duplicate-group key of a record. Birth date is not part of the key.
func GroupKey(p models.Player) string {
	return Normalize(p.Name)
}

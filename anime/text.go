package anime

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes every markup tag from s in a single pass. Entities such
// as &amp; are left as they are.
func StripHTML(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

// StripHTMLPtr is StripHTML for nullable text. nil stays nil.
func StripHTMLPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := StripHTML(*s)
	return &out
}

// HasCJK reports whether s contains at least one Han character.
func HasCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func hasKana(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			return true
		}
	}
	return false
}

// ChineseSynonym returns the first synonym written in Chinese: Han
// characters and no kana.
func ChineseSynonym(synonyms []string) string {
	s, _ := lo.Find(synonyms, func(s string) bool {
		return HasCJK(s) && !hasKana(s)
	})
	return strings.TrimSpace(s)
}

// Titles holds the candidate names of one record.
type Titles struct {
	UserPreferred string
	Native        string
	Chinese       string
	Romaji        string
	English       string
}

// ResolveTitle picks the display name. A native title containing Han
// characters wins, then a Chinese title, then the first non-empty of the
// user-preferred, romanized and English titles.
func ResolveTitle(t Titles) string {
	if HasCJK(t.Native) {
		return t.Native
	}
	if t.Chinese != "" {
		return t.Chinese
	}
	title, _ := lo.Coalesce(t.UserPreferred, t.Romaji, t.English)
	return title
}

// NonEmpty returns nil for an empty or blank string.
func NonEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

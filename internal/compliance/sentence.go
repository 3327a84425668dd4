package compliance

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence is one unit of text checked by the classifier. IDs are stable
// within a single split of the same text.
type Sentence struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Section int    `json:"section"`
}

// SplitSentences breaks text after '.', '!' or '?' when followed by
// whitespace. Pieces are trimmed and empty ones dropped; IDs are
// "sentence-0", "sentence-1", ... over the kept pieces.
func SplitSentences(text string) []Sentence {
	var sentences []Sentence
	emit := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		sentences = append(sentences, Sentence{
			ID:      fmt.Sprintf("sentence-%d", len(sentences)),
			Text:    s,
			Section: SectionNumber(s),
		})
	}

	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[i:])
		if i < len(text) && unicode.IsSpace(next) {
			emit(text[start:i])
			start = i
		}
	}
	emit(text[start:])
	return sentences
}

// sectionKeywords maps keyword groups to offer-letter section numbers.
// Groups are checked in order and the first hit wins.
var sectionKeywords = []struct {
	section  int
	keywords []string
}{
	{5, []string{"at-will", "terminate employment"}},
	{6, []string{"confidentiality", "intellectual property"}},
	{8, []string{"employment agreement", "competitive"}},
	{10, []string{"arbitration", "dispute"}},
	{3, []string{"benefits", "health"}},
	{7, []string{"pre-employment", "background"}},
	{2, []string{"compensation", "salary"}},
}

// SectionNumber guesses which offer-letter section a sentence belongs to.
// 0 means unclassified.
func SectionNumber(text string) int {
	lower := strings.ToLower(text)
	for _, sk := range sectionKeywords {
		for _, kw := range sk.keywords {
			if strings.Contains(lower, kw) {
				return sk.section
			}
		}
	}
	return 0
}

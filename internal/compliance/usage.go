package compliance

import (
	"regexp"
)

// Usage is how often a variable's token appears in the template text and
// how many of those appearances sit in flagged sentences.
type Usage struct {
	Occurrences        int `json:"occurrences"`
	FlaggedOccurrences int `json:"flagged_occurrences"`
}

// IndexUsage counts literal "[name]" tokens (whitespace allowed inside the
// brackets) per variable. Matching is exact and case-sensitive: a variable
// bound only through fuzzy resolution reports zero occurrences. Every name
// gets an entry, including names that never occur.
func IndexUsage(names []string, sentences []Sentence, flags Flags) map[string]Usage {
	usage := make(map[string]Usage, len(names))
	for _, name := range names {
		if _, done := usage[name]; done {
			continue
		}
		pattern := regexp.MustCompile(`\[\s*` + regexp.QuoteMeta(name) + `\s*\]`)
		var u Usage
		for _, s := range sentences {
			n := len(pattern.FindAllStringIndex(s.Text, -1))
			if n == 0 {
				continue
			}
			u.Occurrences += n
			if flags.Has(s.ID) {
				u.FlaggedOccurrences += n
			}
		}
		usage[name] = u
	}
	return usage
}

package compliance

// Flag records one rule matching one sentence
type Flag struct {
	RuleKey             string   `json:"type"`
	Severity            Severity `json:"severity"`
	Message             string   `json:"message"`
	LawReference        string   `json:"lawReference,omitempty"`
	Suggestion          string   `json:"suggestion,omitempty"`
	AlternativeLanguage string   `json:"alternativeLanguage,omitempty"`
	Evidence            string   `json:"evidence"`
}

// Flags maps a sentence ID to its flags. Sentences without flags are absent.
type Flags map[string][]Flag

// Has reports whether the sentence has at least one flag
func (f Flags) Has(sentenceID string) bool {
	_, ok := f[sentenceID]
	return ok
}

// Count returns the total number of flags
func (f Flags) Count() int {
	n := 0
	for _, list := range f {
		n += len(list)
	}
	return n
}

// Classify checks every sentence against the jurisdiction's rules. Rules of
// other jurisdictions never apply. Each sentence's flags follow rule order.
func Classify(sentences []Sentence, jurisdiction string, book *RuleBook) Flags {
	return ClassifyRules(sentences, book.Rules(jurisdiction))
}

// ClassifyRules checks sentences against an explicit rule list
func ClassifyRules(sentences []Sentence, rules []Rule) Flags {
	flags := make(Flags)
	if len(rules) == 0 {
		return flags
	}
	for _, s := range sentences {
		var matched []Flag
		for _, r := range rules {
			phrase, ok := r.Match(s.Text)
			if !ok {
				continue
			}
			matched = append(matched, Flag{
				RuleKey:             r.Key,
				Severity:            r.Severity,
				Message:             r.Message,
				LawReference:        r.LawReference,
				Suggestion:          r.Suggestion,
				AlternativeLanguage: r.AlternativeLanguage,
				Evidence:            phrase,
			})
		}
		if len(matched) > 0 {
			flags[s.ID] = matched
		}
	}
	return flags
}

// Summary counts flags by severity
type Summary struct {
	Error   int `json:"error"`
	Warning int `json:"warning"`
	Info    int `json:"info"`
}

// Total is the number of flags counted
func (s Summary) Total() int {
	return s.Error + s.Warning + s.Info
}

// Summarize counts flags by severity
func Summarize(flags Flags) Summary {
	var s Summary
	for _, list := range flags {
		for _, f := range list {
			switch f.Severity {
			case SeverityError:
				s.Error++
			case SeverityWarning:
				s.Warning++
			case SeverityInfo:
				s.Info++
			}
		}
	}
	return s
}

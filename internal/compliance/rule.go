package compliance

import (
	"fmt"
	"strings"
)

// Severity is the seriousness of a rule violation
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity validates a severity string. Matching is case-insensitive.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityError:
		return SeverityError, nil
	case SeverityWarning:
		return SeverityWarning, nil
	case SeverityInfo:
		return SeverityInfo, nil
	case "":
		return "", fmt.Errorf("severity is required")
	default:
		return "", fmt.Errorf("unknown severity %q (want error, warning or info)", s)
	}
}

// Rule flags sentences containing any of its phrases. Phrases are literal,
// case-insensitive substrings; a rule with no phrases never matches.
type Rule struct {
	Key                 string   `json:"key" yaml:"-"`
	Severity            Severity `json:"severity" yaml:"severity"`
	Message             string   `json:"message" yaml:"message"`
	LawReference        string   `json:"lawReference,omitempty" yaml:"lawReference,omitempty"`
	Suggestion          string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	AlternativeLanguage string   `json:"alternativeLanguage,omitempty" yaml:"alternativeLanguage,omitempty"`
	FlaggedPhrases      []string `json:"flaggedPhrases,omitempty" yaml:"flaggedPhrases,omitempty"`
}

// Match returns the first phrase found in text. Blank phrases are ignored.
func (r Rule) Match(text string) (string, bool) {
	if len(r.FlaggedPhrases) == 0 {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, phrase := range r.FlaggedPhrases {
		if strings.TrimSpace(phrase) == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return phrase, true
		}
	}
	return "", false
}

// Definition is the user-submitted shape of a rule, before validation.
// Severity is kept as a plain string so unknown values can be reported.
type Definition struct {
	Severity            string   `json:"severity" yaml:"severity"`
	Message             string   `json:"message" yaml:"message"`
	LawReference        string   `json:"lawReference,omitempty" yaml:"lawReference,omitempty"`
	Suggestion          string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	AlternativeLanguage string   `json:"alternativeLanguage,omitempty" yaml:"alternativeLanguage,omitempty"`
	FlaggedPhrases      []string `json:"flaggedPhrases,omitempty" yaml:"flaggedPhrases,omitempty"`
}

// Rule validates d and returns the rule it describes under key
func (d Definition) Rule(jurisdiction, key string) (Rule, error) {
	if strings.TrimSpace(key) == "" {
		return Rule{}, &ValidationError{Jurisdiction: jurisdiction, Field: "key", Reason: "rule key is required"}
	}
	sev, err := ParseSeverity(d.Severity)
	if err != nil {
		return Rule{}, &ValidationError{Jurisdiction: jurisdiction, Key: key, Field: "severity", Reason: err.Error()}
	}
	if strings.TrimSpace(d.Message) == "" {
		return Rule{}, &ValidationError{Jurisdiction: jurisdiction, Key: key, Field: "message", Reason: "message is required"}
	}
	return Rule{
		Key:                 key,
		Severity:            sev,
		Message:             d.Message,
		LawReference:        d.LawReference,
		Suggestion:          d.Suggestion,
		AlternativeLanguage: d.AlternativeLanguage,
		FlaggedPhrases:      append([]string(nil), d.FlaggedPhrases...),
	}, nil
}

// ValidationError reports rule input that cannot be turned into a Rule.
// The rule book is left unchanged when one is returned.
type ValidationError struct {
	Jurisdiction string
	Key          string
	Field        string
	Reason       string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Key != "" && e.Jurisdiction != "":
		return fmt.Sprintf("invalid rule %q for %s: %s", e.Key, e.Jurisdiction, e.Reason)
	case e.Key != "":
		return fmt.Sprintf("invalid rule %q: %s", e.Key, e.Reason)
	default:
		return fmt.Sprintf("invalid rule input: %s", e.Reason)
	}
}

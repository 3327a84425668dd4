package compliance

import (
	"regexp"
	"strings"
)

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]`)

// Form is the plain-language way of writing a rule: a display name, a
// description that becomes the message, and a comma-separated phrase list.
type Form struct {
	Name           string `json:"name"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	LawReference   string `json:"lawReference,omitempty"`
	FlaggedPhrases string `json:"flaggedPhrases,omitempty"`
}

// RuleKey derives a rule key from a display name: lowercased, with every
// character outside [a-z0-9] replaced by '_'.
func RuleKey(name string) string {
	return nonKeyChars.ReplaceAllString(strings.ToLower(name), "_")
}

// SplitPhrases splits a comma-separated list, trimming entries and dropping
// empty ones.
func SplitPhrases(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Definition converts the form into a rule definition and its key
func (f Form) Definition() (string, Definition) {
	return RuleKey(f.Name), Definition{
		Severity:       f.Severity,
		Message:        f.Description,
		LawReference:   f.LawReference,
		FlaggedPhrases: SplitPhrases(f.FlaggedPhrases),
	}
}

// RuleFromForm validates the form and builds a rule from it. Name and
// description are required.
func RuleFromForm(jurisdiction string, f Form) (Rule, error) {
	if strings.TrimSpace(f.Name) == "" {
		return Rule{}, &ValidationError{Jurisdiction: jurisdiction, Field: "name", Reason: "rule name is required"}
	}
	if strings.TrimSpace(f.Description) == "" {
		return Rule{}, &ValidationError{Jurisdiction: jurisdiction, Key: RuleKey(f.Name), Field: "description", Reason: "rule description is required"}
	}
	if strings.TrimSpace(f.Severity) == "" {
		f.Severity = string(SeverityError)
	}
	key, def := f.Definition()
	return def.Rule(jurisdiction, key)
}

// Presets are ready-made forms for common offer-letter topics
var Presets = map[string]Form{
	"overtime": {
		Name:           "Overtime Pay Requirements",
		Severity:       string(SeverityError),
		Description:    "Employees must receive overtime pay at 1.5x their regular rate for hours worked over 40 per week.",
		LawReference:   "Fair Labor Standards Act (FLSA) Section 207",
		FlaggedPhrases: "overtime, time and a half, 40 hours, weekly hours",
	},
	"benefits": {
		Name:           "Benefits Disclosure",
		Severity:       string(SeverityWarning),
		Description:    "All employee benefits including health insurance, retirement plans, and paid time off must be clearly disclosed.",
		LawReference:   "Employee Retirement Income Security Act (ERISA)",
		FlaggedPhrases: "benefits, health insurance, retirement, PTO, paid time off",
	},
	"probation": {
		Name:           "Probation Period Limits",
		Severity:       string(SeverityWarning),
		Description:    "Probationary periods cannot exceed 90 days and must be clearly defined with specific evaluation criteria.",
		LawReference:   "State Employment Law",
		FlaggedPhrases: "probation, probationary period, trial period, evaluation",
	},
	"termination": {
		Name:           "At-Will Employment Notice",
		Severity:       string(SeverityError),
		Description:    "Employment relationship must be clearly defined as at-will with proper notice requirements.",
		LawReference:   "State Labor Code",
		FlaggedPhrases: "at-will, termination, employment relationship, notice period",
	},
}

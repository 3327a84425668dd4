package compliance

// DefaultJurisdiction is used until another one is selected
const DefaultJurisdiction = "CA"

// Jurisdiction is a rule-set scope, a US state for the built-in rules
type Jurisdiction struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// USStates are the jurisdictions shipped with built-in rules
var USStates = []Jurisdiction{
	{Code: "CA", Name: "California"},
	{Code: "NY", Name: "New York"},
	{Code: "TX", Name: "Texas"},
	{Code: "FL", Name: "Florida"},
	{Code: "WA", Name: "Washington"},
	{Code: "IL", Name: "Illinois"},
}

var defaultRules = map[string][]Rule{
	"CA": {
		{
			Key:                 "at_will_employment",
			Severity:            SeverityError,
			Message:             "At-will language must not be contradicted elsewhere in the offer and must state that either party may end employment at any time.",
			LawReference:        "California Labor Code Section 2922",
			Suggestion:          "State plainly that employment is at-will and that nothing in the letter changes that.",
			AlternativeLanguage: "Your employment with the Company is at-will, meaning either you or the Company may end it at any time, with or without cause or notice.",
			FlaggedPhrases:      []string{"at-will", "at will", "terminate employment"},
		},
		{
			Key:                 "non_compete",
			Severity:            SeverityError,
			Message:             "Non-compete clauses are void and unenforceable for California employees.",
			LawReference:        "California Business and Professions Code Section 16600",
			Suggestion:          "Remove the non-compete clause.",
			AlternativeLanguage: "You agree to protect the Company's confidential information during and after your employment.",
			FlaggedPhrases:      []string{"non-compete", "non-competition", "covenant not to compete", "competitive activity"},
		},
		{
			Key:            "salary_history",
			Severity:       SeverityError,
			Message:        "Employers may not rely on or ask for an applicant's salary history.",
			LawReference:   "California Labor Code Section 432.3",
			Suggestion:     "Remove any reference to prior pay.",
			FlaggedPhrases: []string{"salary history", "previous salary", "prior compensation", "current salary"},
		},
		{
			Key:            "mandatory_arbitration",
			Severity:       SeverityWarning,
			Message:        "Arbitration cannot be made a condition of employment for claims under the Labor Code or FEHA.",
			LawReference:   "California Labor Code Section 432.6",
			Suggestion:     "Make arbitration voluntary or move it to a separate agreement.",
			FlaggedPhrases: []string{"arbitration", "waive the right to a jury", "dispute resolution"},
		},
		{
			Key:            "final_pay",
			Severity:       SeverityInfo,
			Message:        "Final wages are due immediately on termination.",
			LawReference:   "California Labor Code Section 201",
			FlaggedPhrases: []string{"final paycheck", "final pay"},
		},
	},
	"NY": {
		{
			Key:            "salary_history",
			Severity:       SeverityError,
			Message:        "Employers may not request or rely on salary history.",
			LawReference:   "New York Labor Law Section 194-a",
			Suggestion:     "Remove any reference to prior pay.",
			FlaggedPhrases: []string{"salary history", "previous salary", "prior compensation"},
		},
		{
			Key:            "pay_notice",
			Severity:       SeverityWarning,
			Message:        "A written notice of pay rate, pay day and overtime rate must be given at hire.",
			LawReference:   "New York Labor Law Section 195",
			FlaggedPhrases: []string{"pay rate", "hourly rate", "overtime"},
		},
		{
			Key:            "pay_frequency",
			Severity:       SeverityWarning,
			Message:        "Manual workers must be paid weekly.",
			LawReference:   "New York Labor Law Section 191",
			FlaggedPhrases: []string{"paid monthly", "monthly basis"},
		},
	},
	"TX": {
		{
			Key:            "non_compete",
			Severity:       SeverityWarning,
			Message:        "Non-competes must be ancillary to an otherwise enforceable agreement and reasonable in time, area and scope.",
			LawReference:   "Texas Business and Commerce Code Section 15.50",
			FlaggedPhrases: []string{"non-compete", "covenant not to compete"},
		},
		{
			Key:            "at_will_employment",
			Severity:       SeverityInfo,
			Message:        "Texas presumes at-will employment; avoid language implying a fixed term.",
			LawReference:   "Texas common law",
			FlaggedPhrases: []string{"guaranteed employment", "fixed term"},
		},
	},
	"FL": {
		{
			Key:            "non_compete",
			Severity:       SeverityWarning,
			Message:        "Restrictive covenants must be in writing, signed, and reasonable in time, area and line of business.",
			LawReference:   "Florida Statutes Section 542.335",
			FlaggedPhrases: []string{"non-compete", "non-solicitation", "restrictive covenant"},
		},
		{
			Key:            "minimum_wage",
			Severity:       SeverityInfo,
			Message:        "Florida's minimum wage exceeds the federal minimum and rises each September.",
			LawReference:   "Florida Constitution Article X Section 24",
			FlaggedPhrases: []string{"minimum wage"},
		},
	},
	"WA": {
		{
			Key:            "non_compete",
			Severity:       SeverityError,
			Message:        "Non-competes are void below the annual earnings threshold and require disclosure at acceptance.",
			LawReference:   "RCW 49.62",
			FlaggedPhrases: []string{"non-compete", "noncompetition", "covenant not to compete"},
		},
		{
			Key:            "pay_transparency",
			Severity:       SeverityWarning,
			Message:        "The wage scale or salary range must be disclosed for the position.",
			LawReference:   "RCW 49.58.110",
			FlaggedPhrases: []string{"commensurate with experience", "competitive salary", "depending on experience"},
		},
	},
	"IL": {
		{
			Key:            "salary_history",
			Severity:       SeverityError,
			Message:        "Employers may not screen or set pay based on wage history.",
			LawReference:   "820 ILCS 112/10",
			FlaggedPhrases: []string{"salary history", "wage history", "previous salary"},
		},
		{
			Key:            "non_compete",
			Severity:       SeverityWarning,
			Message:        "Non-competes are barred for employees earning below the statutory threshold.",
			LawReference:   "820 ILCS 90 (Illinois Freedom to Work Act)",
			FlaggedPhrases: []string{"non-compete", "covenant not to compete"},
		},
	},
}

// DefaultRuleBook returns a rule book loaded with the built-in rules. Each
// call returns an independent copy.
func DefaultRuleBook() *RuleBook {
	book := NewRuleBook()
	for _, state := range USStates {
		rules := defaultRules[state.Code]
		copied := make([]Rule, len(rules))
		for i, r := range rules {
			r.FlaggedPhrases = append([]string(nil), r.FlaggedPhrases...)
			copied[i] = r
		}
		book.Put(state.Code, copied...)
	}
	return book
}

// KnownJurisdiction reports whether code is one of USStates
func KnownJurisdiction(code string) bool {
	for _, s := range USStates {
		if s.Code == code {
			return true
		}
	}
	return false
}

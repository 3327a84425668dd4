package compliance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRule_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		def   Definition
		field string
	}{
		{"missing severity", "r", Definition{Message: "m"}, "severity"},
		{"unknown severity", "r", Definition{Severity: "fatal", Message: "m"}, "severity"},
		{"missing message", "r", Definition{Severity: "error"}, "message"},
		{"blank message", "r", Definition{Severity: "error", Message: "  "}, "message"},
		{"missing key", "", Definition{Severity: "error", Message: "m"}, "key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := NewRuleBook()
			err := book.AddRule("CA", tt.key, tt.def)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, book.Rules("CA"))
			assert.Equal(t, uint64(0), book.Version())
		})
	}
}

func TestAddRule_WithoutPhrasesNeverMatches(t *testing.T) {
	book := NewRuleBook()
	require.NoError(t, book.AddRule("CA", "review_needed", Definition{Severity: "info", Message: "Have legal review."}))

	rule, ok := book.Rule("CA", "review_needed")
	require.True(t, ok)
	assert.Empty(t, rule.FlaggedPhrases)

	flags := Classify([]Sentence{{ID: "sentence-0", Text: "Have legal review this at-will offer."}}, "CA", book)
	assert.Empty(t, flags)
}

func TestAddRule_SeverityCaseInsensitive(t *testing.T) {
	book := NewRuleBook()
	require.NoError(t, book.AddRule("CA", "r", Definition{Severity: "Warning", Message: "m"}))
	r, ok := book.Rule("CA", "r")
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, r.Severity)
}

func TestAddRule_OverwriteKeepsPosition(t *testing.T) {
	book := NewRuleBook()
	require.NoError(t, book.AddRule("CA", "first", Definition{Severity: "info", Message: "1"}))
	require.NoError(t, book.AddRule("CA", "second", Definition{Severity: "info", Message: "2"}))
	require.NoError(t, book.AddRule("CA", "first", Definition{Severity: "error", Message: "1b"}))

	rules := book.Rules("CA")
	require.Len(t, rules, 2)
	assert.Equal(t, "first", rules[0].Key)
	assert.Equal(t, "1b", rules[0].Message)
	assert.Equal(t, SeverityError, rules[0].Severity)
	assert.Equal(t, "second", rules[1].Key)
}

func TestAddRulesJSON_AllOrNothing(t *testing.T) {
	book := NewRuleBook()
	_, err := book.AddRulesJSON("CA", []byte(`{
		"good": {"severity": "error", "message": "ok", "flaggedPhrases": ["x"]},
		"bad": {"severity": "error"}
	}`))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "bad", verr.Key)
	assert.Empty(t, book.Rules("CA"))
}

func TestAddRulesJSON_Malformed(t *testing.T) {
	inputs := []string{
		``,
		`not json at all: [`,
		`["a", "b"]`,
		`{"r": "just a string"}`,
		`{"r": {"severity": "error", "message": "m", "flaggedPhrases": {"a": 1}}}`,
		`{}`,
	}
	for _, in := range inputs {
		book := NewRuleBook()
		_, err := book.AddRulesJSON("CA", []byte(in))
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "input %q: %v", in, err)
		assert.Empty(t, book.Jurisdictions())
	}
}

func TestAddRulesJSON_PreservesOrder(t *testing.T) {
	book := NewRuleBook()
	keys, err := book.AddRulesJSON("NY", []byte(`{"c": {"severity":"info","message":"c"}, "a": {"severity":"info","message":"a"}, "b": {"severity":"info","message":"b"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, keys)

	var got []string
	for _, r := range book.Rules("NY") {
		got = append(got, r.Key)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

func TestAddRule_RequiresJurisdiction(t *testing.T) {
	book := NewRuleBook()
	err := book.AddRule(" ", "r", Definition{Severity: "error", Message: "m"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "jurisdiction", verr.Field)
}

func TestRuleBook_ObserveAndVersion(t *testing.T) {
	book := NewRuleBook()
	var seen []string
	book.Observe(func(j string) { seen = append(seen, j) })

	require.NoError(t, book.AddRule("CA", "r", Definition{Severity: "error", Message: "m"}))
	require.NoError(t, book.AddRule("NY", "r", Definition{Severity: "error", Message: "m"}))

	assert.Equal(t, []string{"CA", "NY"}, seen)
	assert.Equal(t, uint64(2), book.Version())
	assert.Equal(t, []string{"CA", "NY"}, book.Jurisdictions())
}

func TestRules_ReturnsCopies(t *testing.T) {
	book := NewRuleBook()
	require.NoError(t, book.AddRule("CA", "r", Definition{Severity: "error", Message: "m", FlaggedPhrases: []string{"a"}}))

	rules := book.Rules("CA")
	rules[0].FlaggedPhrases[0] = "changed"

	r, _ := book.Rule("CA", "r")
	assert.Equal(t, []string{"a"}, r.FlaggedPhrases)
}

func TestPhrases_Distinct(t *testing.T) {
	book := NewRuleBook()
	book.Put("CA",
		Rule{Key: "a", Severity: SeverityError, Message: "a", FlaggedPhrases: []string{"at-will", "Overtime"}},
		Rule{Key: "b", Severity: SeverityError, Message: "b", FlaggedPhrases: []string{"overtime", " ", "PTO"}},
	)
	assert.Equal(t, []string{"at-will", "Overtime", "PTO"}, book.Phrases("CA"))
	assert.Empty(t, book.Phrases("ZZ"))
}

func TestDefaultRuleBook(t *testing.T) {
	book := DefaultRuleBook()
	for _, s := range USStates {
		assert.NotEmpty(t, book.Rules(s.Code), s.Code)
		assert.True(t, KnownJurisdiction(s.Code))
	}
	assert.False(t, KnownJurisdiction("ZZ"))

	// independent copies
	other := DefaultRuleBook()
	require.NoError(t, book.AddRule("CA", "extra", Definition{Severity: "info", Message: "m"}))
	_, ok := other.Rule("CA", "extra")
	assert.False(t, ok)
}

package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atWillBook(t *testing.T) *RuleBook {
	t.Helper()
	book := NewRuleBook()
	require.NoError(t, book.AddRule("CA", "at_will", Definition{
		Severity:       "error",
		Message:        "At-will language needs review.",
		FlaggedPhrases: []string{"at-will"},
	}))
	return book
}

func TestClassify_JurisdictionScoped(t *testing.T) {
	book := atWillBook(t)
	sentences := []Sentence{{ID: "sentence-0", Text: "This is an at-will agreement."}}

	ca := Classify(sentences, "CA", book)
	require.Len(t, ca["sentence-0"], 1)
	assert.Equal(t, "at_will", ca["sentence-0"][0].RuleKey)
	assert.Equal(t, SeverityError, ca["sentence-0"][0].Severity)
	assert.Equal(t, "at-will", ca["sentence-0"][0].Evidence)

	ny := Classify(sentences, "NY", book)
	assert.Empty(t, ny)
	assert.False(t, ny.Has("sentence-0"))
}

func TestClassify_NeverAppliesOtherJurisdictions(t *testing.T) {
	book := DefaultRuleBook()
	require.NoError(t, book.AddRule("TX", "only_in_texas", Definition{
		Severity:       "warning",
		Message:        "Texas only.",
		FlaggedPhrases: []string{"lone star"},
	}))
	sentences := SplitSentences("We are the lone star team. This is an at-will offer. Salary history is irrelevant.")

	for _, j := range book.Jurisdictions() {
		keys := map[string]bool{}
		for _, r := range book.Rules(j) {
			keys[r.Key] = true
		}
		for _, list := range Classify(sentences, j, book) {
			for _, f := range list {
				assert.True(t, keys[f.RuleKey], "flag %s under %s", f.RuleKey, j)
			}
		}
	}

	for _, list := range Classify(sentences, "CA", book) {
		for _, f := range list {
			assert.NotEqual(t, "only_in_texas", f.RuleKey)
		}
	}
}

func TestClassify_FlagOrderFollowsRuleOrder(t *testing.T) {
	book := NewRuleBook()
	_, err := book.AddRulesJSON("CA", []byte(`{
		"zeta": {"severity": "info", "message": "z", "flaggedPhrases": ["offer"]},
		"alpha": {"severity": "warning", "message": "a", "flaggedPhrases": ["OFFER"]},
		"empty": {"severity": "error", "message": "never matches"},
		"blank": {"severity": "error", "message": "blank phrase", "flaggedPhrases": ["  "]}
	}`))
	require.NoError(t, err)

	flags := Classify([]Sentence{{ID: "s", Text: "Your Offer is attached."}}, "CA", book)
	require.Len(t, flags["s"], 2)
	assert.Equal(t, "zeta", flags["s"][0].RuleKey)
	assert.Equal(t, "alpha", flags["s"][1].RuleKey)
	assert.Equal(t, "OFFER", flags["s"][1].Evidence)
}

func TestClassify_UnflaggedSentencesAbsent(t *testing.T) {
	book := atWillBook(t)
	sentences := []Sentence{
		{ID: "a", Text: "Welcome aboard."},
		{ID: "b", Text: "Employment is AT-WILL."},
	}

	flags := Classify(sentences, "CA", book)
	_, ok := flags["a"]
	assert.False(t, ok)
	assert.True(t, flags.Has("b"))
	assert.Equal(t, 1, flags.Count())
}

func TestSummarize(t *testing.T) {
	flags := Flags{
		"a": {{Severity: SeverityError}, {Severity: SeverityWarning}},
		"b": {{Severity: SeverityError}, {Severity: SeverityInfo}},
	}
	s := Summarize(flags)
	assert.Equal(t, Summary{Error: 2, Warning: 1, Info: 1}, s)
	assert.Equal(t, 4, s.Total())
}

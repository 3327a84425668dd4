package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("  Welcome aboard!  Your salary is $100.50 per hour. Is that ok?\nYes.No split here...  ")

	require.Len(t, got, 4)
	assert.Equal(t, Sentence{ID: "sentence-0", Text: "Welcome aboard!", Section: 0}, got[0])
	assert.Equal(t, "Your salary is $100.50 per hour.", got[1].Text)
	assert.Equal(t, 2, got[1].Section)
	assert.Equal(t, "Is that ok?", got[2].Text)
	assert.Equal(t, "Yes.No split here...", got[3].Text)
	assert.Equal(t, "sentence-3", got[3].ID)
}

func TestSplitSentences_Empty(t *testing.T) {
	assert.Empty(t, SplitSentences(""))
	assert.Empty(t, SplitSentences("   \n\t "))
}

func TestSectionNumber(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Your employment is at-will.", 5},
		{"We may terminate employment at any time.", 5},
		{"Confidentiality obligations survive.", 6},
		{"Intellectual property belongs to the Company.", 6},
		{"Sign the Employment Agreement.", 8},
		{"No competitive work.", 8},
		{"Disputes go to arbitration.", 10},
		{"Health benefits start day one.", 3},
		{"A background check is required.", 7},
		{"Pre-employment screening applies.", 7},
		{"Your salary is paid monthly.", 2},
		{"Welcome!", 0},
		// earlier groups win
		{"At-will employment; salary as agreed.", 5},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, SectionNumber(tt.text))
		})
	}
}

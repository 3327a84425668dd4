package compliance

import (
	"sort"
	"time"
)

// ReportFlag is a flag together with the sentence it was raised on
type ReportFlag struct {
	SentenceID string `json:"sentence_id"`
	Sentence   string `json:"sentence,omitempty"`
	Flag
}

// Report is the exportable result of a compliance check
type Report struct {
	Template       string       `json:"template"`
	State          string       `json:"state"`
	Timestamp      time.Time    `json:"timestamp"`
	Summary        Summary      `json:"summary"`
	TotalIssues    int          `json:"totalIssues"`
	CriticalIssues []ReportFlag `json:"criticalIssues"`
	Warnings       []ReportFlag `json:"warnings"`
	Details        Flags        `json:"details"`
}

// BuildReport assembles a report. Sentences are optional and only used to
// attach sentence text to listed issues. Issues are listed in sentence
// order when sentences are given, otherwise by sentence ID.
func BuildReport(title, jurisdiction string, sentences []Sentence, flags Flags, now time.Time) Report {
	if title == "" {
		title = "Offer Letter"
	}
	report := Report{
		Template:       title,
		State:          jurisdiction,
		Timestamp:      now.UTC(),
		Summary:        Summarize(flags),
		TotalIssues:    flags.Count(),
		CriticalIssues: []ReportFlag{},
		Warnings:       []ReportFlag{},
		Details:        flags,
	}

	texts := make(map[string]string, len(sentences))
	var ids []string
	for _, s := range sentences {
		texts[s.ID] = s.Text
		if flags.Has(s.ID) {
			ids = append(ids, s.ID)
		}
	}
	if len(ids) != len(flags) {
		ids = ids[:0]
		for id := range flags {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}

	for _, id := range ids {
		for _, f := range flags[id] {
			rf := ReportFlag{SentenceID: id, Sentence: texts[id], Flag: f}
			switch f.Severity {
			case SeverityError:
				report.CriticalIssues = append(report.CriticalIssues, rf)
			case SeverityWarning:
				report.Warnings = append(report.Warnings, rf)
			}
		}
	}
	return report
}

package template

import (
	"sort"
)

// SynonymTable maps a canonical field name to the aliases it is known by.
// Lookups go both ways: an alias resolves to its canonical name and to the
// canonical name's other aliases.
type SynonymTable map[string][]string

// DefaultSynonyms covers the field names seen in offer-letter PDFs produced
// by common HR systems.
var DefaultSynonyms = SynonymTable{
	"Proposed Start Date": {
		"Start Date", "PROPOSED_START_DATE", "START_DATE", "ProposedStartDate", "StartDate",
	},
	"Client/Customer Name": {
		"Client Customer Name", "CLIENT/CUSTOMER NAME", "CLIENT_CUSTOMER_NAME",
		"Client Name", "CLIENT_NAME", "Customer Name", "CUSTOMER_NAME",
	},
	"Job Title": {"JOB_TITLE", "JobTitle", "Position Title"},
	"Candidate Name": {"CANDIDATE_NAME", "CandidateName", "Employee Name"},
	"Company Name": {"COMPANY_NAME", "CompanyName", "Employer Name"},
	"Annual Salary": {"Salary", "ANNUAL_SALARY", "Base Salary"},
}

// Candidates returns every name that name is a synonym of, excluding name
// itself. Matching against the table is separator- and case-insensitive.
// The result order is deterministic.
func (t SynonymTable) Candidates(name string) []string {
	target := normalizeName(name)

	canonicals := make([]string, 0, len(t))
	for c := range t {
		canonicals = append(canonicals, c)
	}
	sort.Strings(canonicals)

	var out []string
	seen := map[string]bool{target: true}
	add := func(s string) {
		n := normalizeName(s)
		if seen[n] {
			return
		}
		seen[n] = true
		out = append(out, s)
	}

	for _, canonical := range canonicals {
		aliases := t[canonical]
		member := normalizeName(canonical) == target
		for _, a := range aliases {
			if normalizeName(a) == target {
				member = true
				break
			}
		}
		if !member {
			continue
		}
		add(canonical)
		for _, a := range aliases {
			add(a)
		}
	}
	return out
}

// Add registers extra aliases for a canonical name
func (t SynonymTable) Add(canonical string, aliases ...string) {
	t[canonical] = append(t[canonical], aliases...)
}

// Clone returns an independent copy of the table
func (t SynonymTable) Clone() SynonymTable {
	out := make(SynonymTable, len(t))
	for k, v := range t {
		out[k] = append([]string(nil), v...)
	}
	return out
}

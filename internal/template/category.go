package template

import "strings"

// Category groups variables for display
type Category string

const (
	CategoryPersonal     Category = "personal"
	CategoryCompany      Category = "company"
	CategoryPosition     Category = "position"
	CategoryCompensation Category = "compensation"
	CategoryDates        Category = "dates"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryPersonal,
	CategoryCompany,
	CategoryPosition,
	CategoryCompensation,
	CategoryDates,
	CategoryOther,
}

// categoryKeywords is checked in order; the first category with a keyword
// contained in the lowercased name wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryPersonal, []string{"name", "candidate", "employee"}},
	{CategoryCompany, []string{"company", "organization", "employer"}},
	{CategoryPosition, []string{"position", "title", "job", "role"}},
	{CategoryCompensation, []string{"salary", "compensation", "pay", "wage"}},
	{CategoryDates, []string{"date", "start", "end", "time"}},
}

// Categorize maps a variable name to its display category
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(lower, kw) {
				return ck.category
			}
		}
	}
	return CategoryOther
}

// Group buckets variables by category, preserving their order within each
// bucket.
func Group(vars []Variable) map[Category][]Variable {
	groups := make(map[Category][]Variable)
	for _, v := range vars {
		c := v.Category
		if c == "" {
			c = Categorize(v.Name)
		}
		groups[c] = append(groups[c], v)
	}
	return groups
}

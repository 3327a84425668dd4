package template

import (
	"regexp"
	"sort"
	"strings"

	"github.com/a3tai/mcp-offer-letter/internal/geom"
)

// tokenPattern matches a single bracketed placeholder. The first ']' after
// a '[' always closes the token; nesting is not supported.
var tokenPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// Fragment is a contiguous run of text as reported by the PDF text
// extractor. Fragments are never mutated once produced.
type Fragment struct {
	Content   string      `json:"content"`
	Transform geom.Matrix `json:"transform"`
	FontName  string      `json:"font_name,omitempty"`
}

// Span is the part of one fragment covered by a token, as byte offsets
// into Fragment.Content.
type Span struct {
	Fragment int `json:"fragment"`
	Start    int `json:"start"`
	End      int `json:"end"`
}

// TokenMatch is one occurrence of a placeholder. Spans are in reading order
// and their substrings concatenate to exactly one "[...]" token.
type TokenMatch struct {
	Name  string `json:"name"`
	Spans []Span `json:"spans"`
}

// Split reports whether the token crosses a fragment boundary
func (m TokenMatch) Split() bool {
	return len(m.Spans) > 1
}

// Scan finds every placeholder token in the fragment sequence, including
// tokens whose brackets sit in different fragments. Matching runs over the
// reading-order concatenation of all fragments, so a token split across
// fragments is found exactly as it would be in the joined text; each match
// is then mapped back onto the fragments it covers. A '[' that is never
// closed produces nothing.
func Scan(fragments []Fragment) []TokenMatch {
	if len(fragments) == 0 {
		return nil
	}

	// ends[i] is the offset one past fragment i in the joined text
	ends := make([]int, len(fragments))
	var joined strings.Builder
	for i, f := range fragments {
		joined.WriteString(f.Content)
		ends[i] = joined.Len()
	}
	text := joined.String()

	var matches []TokenMatch
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(text, -1) {
		name := strings.TrimSpace(text[loc[2]:loc[3]])
		if name == "" {
			continue
		}
		matches = append(matches, TokenMatch{
			Name:  name,
			Spans: spansFor(loc[0], loc[1], ends),
		})
	}
	return matches
}

// ScanText scans a flat string, treating it as a single fragment
func ScanText(text string) []TokenMatch {
	return Scan([]Fragment{{Content: text}})
}

// spansFor maps the joined-text range [start, end) back onto fragments.
// Empty fragments inside the range contribute no span.
func spansFor(start, end int, ends []int) []Span {
	first := sort.Search(len(ends), func(i int) bool { return ends[i] > start })

	var spans []Span
	for i := first; i < len(ends); i++ {
		fragStart := 0
		if i > 0 {
			fragStart = ends[i-1]
		}
		if fragStart >= end {
			break
		}
		if ends[i] == fragStart {
			continue
		}
		spans = append(spans, Span{
			Fragment: i,
			Start:    max(start, fragStart) - fragStart,
			End:      min(end, ends[i]) - fragStart,
		})
	}
	return spans
}

// Names returns the distinct token names in first-seen order. Names are
// compared case-sensitively and the first casing wins.
func Names(matches []TokenMatch) []string {
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	return names
}

// Text returns the raw text a span covers
func (s Span) Text(fragments []Fragment) string {
	if s.Fragment < 0 || s.Fragment >= len(fragments) {
		return ""
	}
	content := fragments[s.Fragment].Content
	if s.Start < 0 || s.End > len(content) || s.Start > s.End {
		return ""
	}
	return content[s.Start:s.End]
}

// Raw reassembles the bracketed token text from its spans
func (m TokenMatch) Raw(fragments []Fragment) string {
	var b strings.Builder
	for _, s := range m.Spans {
		b.WriteString(s.Text(fragments))
	}
	return b.String()
}

package template

import (
	"sort"
	"strings"
)

// Substitute replaces every literal "[name]" whose interior exactly equals a
// key of values with that key's value. Keys with an empty value are skipped
// so unfilled fields stay visibly bracketed. Replacement is a single
// left-to-right pass; substituted values are never rescanned.
//
// Applying Substitute twice gives the same text as applying it once as long
// as no value itself contains a "[key]" token for a non-empty key of values.
// A value that does is copied out literally and would be expanded by a
// second pass.
func Substitute(text string, values map[string]string) string {
	if len(values) == 0 || !strings.Contains(text, "[") {
		return text
	}

	keys := make([]string, 0, len(values))
	for k, v := range values {
		if k == "" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return text
	}
	// NewReplacer tries old strings in argument order at each position
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "["+k+"]", values[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// SubstituteResolved is like Substitute but looks each scanned token up
// through resolve, so naming variations and synonyms are honoured. Tokens
// that resolve to "" are left as they are. The same single-pass rule as
// Substitute applies to values containing tokens.
func SubstituteResolved(text string, resolve func(string) string) string {
	matches := ScanText(text)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		s := m.Spans[0]
		value := resolve(m.Name)
		if value == "" {
			continue
		}
		b.WriteString(text[last:s.Start])
		b.WriteString(value)
		last = s.End
	}
	b.WriteString(text[last:])
	return b.String()
}

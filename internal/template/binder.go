package template

import (
	"slices"
	"strings"
	"sync"
	"unicode"
)

// Variable is one fill-in field. An empty Value means the field is unset.
type Variable struct {
	Name               string   `json:"name"`
	Value              string   `json:"value"`
	Category           Category `json:"category"`
	Occurrences        int      `json:"occurrences"`
	FlaggedOccurrences int      `json:"flagged_occurrences"`
}

// Filled reports whether the variable has a value
func (v Variable) Filled() bool {
	return v.Value != ""
}

// Change describes a mutation of the binder. Name is empty for bulk
// operations (ClearAll, Seed).
type Change struct {
	Name  string
	Value string
	Bulk  bool
}

// Binder owns the mapping from token name to value. Names are never removed
// once created; ClearAll only empties values.
type Binder struct {
	mu        sync.RWMutex
	order     []string
	values    map[string]string
	synonyms  SynonymTable
	observers []func(Change)
}

// NewBinder creates an empty binder using DefaultSynonyms
func NewBinder() *Binder {
	return NewBinderWithSynonyms(DefaultSynonyms)
}

// NewBinderWithSynonyms creates an empty binder with a custom synonym table
func NewBinderWithSynonyms(synonyms SynonymTable) *Binder {
	if synonyms == nil {
		synonyms = SynonymTable{}
	}
	return &Binder{
		values:   make(map[string]string),
		synonyms: synonyms,
	}
}

// Observe registers fn to be called after every mutation. Observers run
// outside the binder's lock and may read from it.
func (b *Binder) Observe(fn func(Change)) {
	b.mu.Lock()
	b.observers = append(b.observers, fn)
	b.mu.Unlock()
}

func (b *Binder) notify(c Change) {
	b.mu.RLock()
	observers := slices.Clone(b.observers)
	b.mu.RUnlock()
	for _, fn := range observers {
		fn(c)
	}
}

// Seed creates a variable for every name not already present, using the
// value from defaults when there is one. Existing values are never
// overwritten. It returns the names that were created.
func (b *Binder) Seed(names []string, defaults map[string]string) []string {
	b.mu.Lock()
	var created []string
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := b.values[name]; ok {
			continue
		}
		b.values[name] = defaults[name]
		b.order = append(b.order, name)
		created = append(created, name)
	}
	b.mu.Unlock()

	if len(created) > 0 {
		b.notify(Change{Bulk: true})
	}
	return created
}

// Set stores value under name, creating the variable if needed. Callers
// that receive edits keystroke by keystroke should debounce the work this
// triggers downstream.
func (b *Binder) Set(name, value string) {
	b.mu.Lock()
	if _, ok := b.values[name]; !ok {
		b.order = append(b.order, name)
	}
	b.values[name] = value
	b.mu.Unlock()

	b.notify(Change{Name: name, Value: value})
}

// ClearAll empties every value but keeps every name
func (b *Binder) ClearAll() {
	b.mu.Lock()
	for name := range b.values {
		b.values[name] = ""
	}
	b.mu.Unlock()

	b.notify(Change{Bulk: true})
}

// Value returns the value stored under the exact name
func (b *Binder) Value(name string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[name]
	return v, ok
}

// Names returns all variable names in creation order
func (b *Binder) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.order...)
}

// Snapshot returns a copy of the current name → value mapping, safe to hand
// to a render running concurrently with further edits.
func (b *Binder) Snapshot() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Variables returns every variable with its value and category
func (b *Binder) Variables() []Variable {
	b.mu.RLock()
	defer b.mu.RUnlock()
	vars := make([]Variable, 0, len(b.order))
	for _, name := range b.order {
		vars = append(vars, Variable{
			Name:     name,
			Value:    b.values[name],
			Category: Categorize(name),
		})
	}
	return vars
}

// Completion returns how many variables have a value, out of the total
func (b *Binder) Completion() (filled, total int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, v := range b.values {
		if v != "" {
			filled++
		}
	}
	return filled, len(b.values)
}

// Resolve maps a token name to a value, tolerating naming variation. An
// unresolved name yields "" and is not an error.
func (b *Binder) Resolve(name string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ResolveIn(b.order, b.values, b.synonyms, name)
}

// Resolver returns a resolve function over a frozen copy of the current
// state. The copy is taken once, so later edits do not affect it.
func (b *Binder) Resolver() func(string) string {
	b.mu.RLock()
	order := append([]string(nil), b.order...)
	values := make(map[string]string, len(b.values))
	for k, v := range b.values {
		values[k] = v
	}
	synonyms := b.synonyms
	b.mu.RUnlock()

	return func(name string) string {
		return ResolveIn(order, values, synonyms, name)
	}
}

// ResolveIn performs the lookup used by Binder.Resolve over an explicit key
// order and value map. Stages are tried in order and the first non-empty
// value wins: exact key; case-insensitive; separator-normalized;
// upper-snake variant; then the same matchers over every synonym of name.
func ResolveIn(order []string, values map[string]string, synonyms SynonymTable, name string) string {
	if v := values[name]; v != "" {
		return v
	}
	if v := fuzzyLookup(order, values, name); v != "" {
		return v
	}
	for _, cand := range synonyms.Candidates(name) {
		if v := values[cand]; v != "" {
			return v
		}
		if v := fuzzyLookup(order, values, cand); v != "" {
			return v
		}
	}
	return ""
}

func fuzzyLookup(order []string, values map[string]string, name string) string {
	norm := normalizeName(name)
	snake := upperSnake(name)

	matchers := []func(k string) bool{
		func(k string) bool { return strings.EqualFold(k, name) },
		func(k string) bool { return normalizeName(k) == norm },
		func(k string) bool { return strings.ToUpper(k) == snake },
	}
	for _, match := range matchers {
		for _, k := range order {
			if v := values[k]; v != "" && match(k) {
				return v
			}
		}
	}
	return ""
}

// normalizeName lowercases s and strips whitespace and the separators
// '_', '-', '/' and '\'.
func normalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '_', '-', '/', '\\':
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// upperSnake turns "Start Date" into "START_DATE": runs of whitespace,
// '/' and '-' become a single underscore.
func upperSnake(s string) string {
	var b strings.Builder
	inSep := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '/' || r == '-' {
			if !inSep {
				b.WriteByte('_')
			}
			inSep = true
			continue
		}
		inSep = false
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

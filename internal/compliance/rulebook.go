package compliance

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type ruleSet struct {
	order []string
	rules map[string]Rule
}

func (s *ruleSet) put(r Rule) {
	if _, ok := s.rules[r.Key]; !ok {
		s.order = append(s.order, r.Key)
	}
	s.rules[r.Key] = r
}

// RuleBook holds compliance rules grouped by jurisdiction. Within a
// jurisdiction keys are unique and iteration follows insertion order;
// overwriting a key keeps its original position.
type RuleBook struct {
	mu        sync.RWMutex
	order     []string
	sets      map[string]*ruleSet
	version   uint64
	observers []func(jurisdiction string)
}

// NewRuleBook creates an empty rule book
func NewRuleBook() *RuleBook {
	return &RuleBook{sets: make(map[string]*ruleSet)}
}

// Observe registers fn to be called with the jurisdiction after every
// change to its rules.
func (b *RuleBook) Observe(fn func(jurisdiction string)) {
	b.mu.Lock()
	b.observers = append(b.observers, fn)
	b.mu.Unlock()
}

// Version increases on every mutation
func (b *RuleBook) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Put stores rules without validating them. Used for built-in rules and
// input that already went through Definition.Rule.
func (b *RuleBook) Put(jurisdiction string, rules ...Rule) {
	if len(rules) == 0 {
		return
	}
	b.mu.Lock()
	set := b.set(jurisdiction)
	for _, r := range rules {
		set.put(r)
	}
	b.version++
	observers := slices.Clone(b.observers)
	b.mu.Unlock()

	for _, fn := range observers {
		fn(jurisdiction)
	}
}

// set returns the rule set for a jurisdiction, creating it. Caller holds mu.
func (b *RuleBook) set(jurisdiction string) *ruleSet {
	s, ok := b.sets[jurisdiction]
	if !ok {
		s = &ruleSet{rules: make(map[string]Rule)}
		b.sets[jurisdiction] = s
		b.order = append(b.order, jurisdiction)
	}
	return s
}

// AddRule validates def and merges it into the jurisdiction, replacing any
// rule with the same key.
func (b *RuleBook) AddRule(jurisdiction, key string, def Definition) error {
	if err := checkJurisdiction(jurisdiction); err != nil {
		return err
	}
	rule, err := def.Rule(jurisdiction, key)
	if err != nil {
		return err
	}
	b.Put(jurisdiction, rule)
	return nil
}

// AddRulesJSON merges an object of rule key → definition into the
// jurisdiction. JSON is accepted as is; YAML mappings parse the same way.
// Keys are applied in document order. Either every rule is valid and all
// are merged, or a *ValidationError is returned and nothing changes.
func (b *RuleBook) AddRulesJSON(jurisdiction string, raw []byte) ([]string, error) {
	if err := checkJurisdiction(jurisdiction); err != nil {
		return nil, err
	}
	rules, err := ParseRules(jurisdiction, raw)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(rules))
	for i, r := range rules {
		keys[i] = r.Key
	}
	b.Put(jurisdiction, rules...)
	return keys, nil
}

// ParseRules decodes and validates an object of rule key → definition
func ParseRules(jurisdiction string, raw []byte) ([]Rule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Jurisdiction: jurisdiction, Reason: fmt.Sprintf("cannot parse rule definitions: %v", err)}
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode || len(root.Content) == 0 {
		return nil, &ValidationError{Jurisdiction: jurisdiction, Reason: "rule definitions must be a non-empty object of rule key to rule"}
	}
	return decodeRuleMap(jurisdiction, root)
}

func decodeRuleMap(jurisdiction string, node *yaml.Node) ([]Rule, error) {
	rules := make([]Rule, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]
		if value.Kind != yaml.MappingNode {
			return nil, &ValidationError{Jurisdiction: jurisdiction, Key: key, Reason: "rule definition must be an object"}
		}
		var def Definition
		if err := value.Decode(&def); err != nil {
			return nil, &ValidationError{Jurisdiction: jurisdiction, Key: key, Reason: err.Error()}
		}
		rule, err := def.Rule(jurisdiction, key)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func checkJurisdiction(jurisdiction string) error {
	if strings.TrimSpace(jurisdiction) == "" {
		return &ValidationError{Field: "jurisdiction", Reason: "jurisdiction is required"}
	}
	return nil
}

// Rules returns a copy of the jurisdiction's rules in insertion order. An
// unknown jurisdiction has no rules.
func (b *RuleBook) Rules(jurisdiction string) []Rule {
	b.mu.RLock()
	defer b.mu.RUnlock()
	set, ok := b.sets[jurisdiction]
	if !ok {
		return nil
	}
	out := make([]Rule, 0, len(set.order))
	for _, key := range set.order {
		r := set.rules[key]
		r.FlaggedPhrases = append([]string(nil), r.FlaggedPhrases...)
		out = append(out, r)
	}
	return out
}

// Rule looks up a single rule
func (b *RuleBook) Rule(jurisdiction, key string) (Rule, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	set, ok := b.sets[jurisdiction]
	if !ok {
		return Rule{}, false
	}
	r, ok := set.rules[key]
	return r, ok
}

// Jurisdictions lists every jurisdiction with at least one rule, in the
// order they were first added.
func (b *RuleBook) Jurisdictions() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.order...)
}

// Phrases returns the distinct flagged phrases of a jurisdiction, in rule
// order.
func (b *RuleBook) Phrases(jurisdiction string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range b.Rules(jurisdiction) {
		for _, p := range r.FlaggedPhrases {
			p = strings.TrimSpace(p)
			if p == "" || seen[strings.ToLower(p)] {
				continue
			}
			seen[strings.ToLower(p)] = true
			out = append(out, p)
		}
	}
	return out
}

// Merge copies every rule of other into b, overwriting keys that exist
func (b *RuleBook) Merge(other *RuleBook) {
	for _, j := range other.Jurisdictions() {
		b.Put(j, other.Rules(j)...)
	}
}

package session

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/a3tai/mcp-offer-letter/internal/compliance"
	"github.com/a3tai/mcp-offer-letter/internal/geom"
	"github.com/a3tai/mcp-offer-letter/internal/pdf"
	"github.com/a3tai/mcp-offer-letter/internal/render"
	"github.com/a3tai/mcp-offer-letter/internal/template"
)

// Options configures a Session
type Options struct {
	Book         *compliance.RuleBook
	Syncer       compliance.PhraseSyncer
	Jurisdiction string
	Debounce     time.Duration
	Synonyms     template.SynonymTable
	Measurer     render.Measurer
	Debug        bool
}

// document is everything derived from one load. It is replaced as a whole
// and never modified once published.
type document struct {
	doc       *pdf.Document
	matches   [][]template.TokenMatch
	names     []string
	sentences []compliance.Sentence
	flags     compliance.Flags
}

// Preview is the debounced rendition of the current values
type Preview struct {
	Generation uint64 `json:"generation"`
	Text       string `json:"text"`
	Ops        int    `json:"ops"`
	Filled     int    `json:"filled"`
	Total      int    `json:"total"`
}

// Session owns the variables and the loaded template. Tool handlers may
// call it concurrently.
type Session struct {
	mu           sync.RWMutex
	binder       *template.Binder
	book         *compliance.RuleBook
	syncer       compliance.PhraseSyncer
	renderer     *render.Renderer
	debouncer    *Debouncer
	debug        bool
	jurisdiction string
	current      *document
	version      uint64

	usageVersion uint64
	usageNames   int
	usage        map[string]compliance.Usage

	preview Preview
}

// New creates a session. Missing options fall back to the default rule
// book, the default jurisdiction and a logging phrase syncer.
func New(opts Options) *Session {
	if opts.Book == nil {
		opts.Book = compliance.DefaultRuleBook()
	}
	if opts.Syncer == nil {
		opts.Syncer = compliance.LogSyncer{}
	}
	if opts.Jurisdiction == "" {
		opts.Jurisdiction = compliance.DefaultJurisdiction
	}
	synonyms := opts.Synonyms
	if synonyms == nil {
		synonyms = template.DefaultSynonyms.Clone()
	}

	s := &Session{
		binder:       template.NewBinderWithSynonyms(synonyms),
		book:         opts.Book,
		syncer:       opts.Syncer,
		renderer:     render.NewRenderer(opts.Measurer),
		debouncer:    NewDebouncer(opts.Debounce),
		debug:        opts.Debug,
		jurisdiction: strings.ToUpper(opts.Jurisdiction),
	}
	s.binder.Observe(func(template.Change) { s.schedule() })
	s.book.Observe(s.rulesChanged)
	return s
}

// LoadResult summarizes a freshly loaded template
type LoadResult struct {
	Name      string             `json:"name"`
	Kind      pdf.Kind           `json:"kind"`
	Pages     int                `json:"pages"`
	Tokens    int                `json:"tokens"`
	Names     []string           `json:"names"`
	Created   []string           `json:"created"`
	Sentences int                `json:"sentences"`
	Summary   compliance.Summary `json:"summary"`
}

// Load replaces the current template. Tokens, sentences and flags are all
// rebuilt and published together; variables from earlier loads are kept.
func (s *Session) Load(doc *pdf.Document) (*LoadResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("no document to load")
	}

	next := &document{doc: doc}
	var all []template.TokenMatch
	if doc.Kind == pdf.KindPDF {
		for _, page := range doc.Pages {
			m := template.Scan(page.Fragments)
			next.matches = append(next.matches, m)
			all = append(all, m...)
		}
	} else {
		all = template.ScanText(doc.Text)
		next.matches = [][]template.TokenMatch{all}
	}
	next.names = template.Names(all)
	next.sentences = compliance.SplitSentences(doc.Text)

	s.mu.Lock()
	next.flags = compliance.Classify(next.sentences, s.jurisdiction, s.book)
	s.current = next
	s.version++
	s.mu.Unlock()

	created := s.binder.Seed(next.names, nil)
	if s.debug {
		log.Printf("session: loaded %s with %d tokens, %d new variables", doc.Name, len(all), len(created))
	}

	return &LoadResult{
		Name:      doc.Name,
		Kind:      doc.Kind,
		Pages:     doc.NumPages(),
		Tokens:    len(all),
		Names:     next.names,
		Created:   created,
		Sentences: len(next.sentences),
		Summary:   compliance.Summarize(next.flags),
	}, nil
}

func (s *Session) snapshot() *document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Document returns the loaded template, or nil
func (s *Session) Document() *pdf.Document {
	if d := s.snapshot(); d != nil {
		return d.doc
	}
	return nil
}

// Seed adds suggested variables. Existing values are never overwritten.
func (s *Session) Seed(suggestions map[string]string) []string {
	names := make([]string, 0, len(suggestions))
	for name := range suggestions {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return s.binder.Seed(names, suggestions)
}

// Set stores one variable value
func (s *Session) Set(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("variable name cannot be empty")
	}
	s.binder.Set(name, value)
	return nil
}

// ClearAll empties every value, keeping the names
func (s *Session) ClearAll() {
	s.binder.ClearAll()
}

// Resolve looks a token up with the binder's fuzzy matching
func (s *Session) Resolve(name string) string {
	return s.binder.Resolve(name)
}

// Jurisdiction returns the jurisdiction compliance checks run against
func (s *Session) Jurisdiction() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jurisdiction
}

// SetJurisdiction switches the rule set, reclassifies the loaded template
// and pushes the new phrases to the syncer. Sync failures are only logged.
func (s *Session) SetJurisdiction(ctx context.Context, jurisdiction string) error {
	code := strings.ToUpper(strings.TrimSpace(jurisdiction))
	if code == "" {
		return fmt.Errorf("jurisdiction cannot be empty")
	}
	if !compliance.KnownJurisdiction(code) && len(s.book.Rules(code)) == 0 {
		return fmt.Errorf("unknown jurisdiction %q", jurisdiction)
	}

	s.mu.Lock()
	s.jurisdiction = code
	s.reclassifyLocked()
	s.mu.Unlock()

	compliance.SyncJurisdiction(ctx, s.syncer, s.book, code)
	return nil
}

// AddRules merges rule definitions, given as JSON or YAML, into the
// current jurisdiction.
func (s *Session) AddRules(raw []byte) ([]string, error) {
	return s.book.AddRulesJSON(s.Jurisdiction(), raw)
}

// AddRuleForm adds a rule described by the natural-language form
func (s *Session) AddRuleForm(form compliance.Form) (compliance.Rule, error) {
	jurisdiction := s.Jurisdiction()
	rule, err := compliance.RuleFromForm(jurisdiction, form)
	if err != nil {
		return compliance.Rule{}, err
	}
	s.book.Put(jurisdiction, rule)
	return rule, nil
}

// Jurisdictions lists every jurisdiction that has rules
func (s *Session) Jurisdictions() []string {
	return s.book.Jurisdictions()
}

// Rules returns the rules of the current jurisdiction
func (s *Session) Rules() []compliance.Rule {
	return s.book.Rules(s.Jurisdiction())
}

func (s *Session) rulesChanged(jurisdiction string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if jurisdiction == s.jurisdiction {
		s.reclassifyLocked()
	}
}

// reclassifyLocked publishes a copy of the current document with fresh
// flags. Callers hold s.mu.
func (s *Session) reclassifyLocked() {
	if s.current == nil {
		return
	}
	next := *s.current
	next.flags = compliance.Classify(next.sentences, s.jurisdiction, s.book)
	s.current = &next
	s.version++
}

// ComplianceResult is the outcome of checking the loaded template
type ComplianceResult struct {
	Jurisdiction string                `json:"jurisdiction"`
	Sentences    []compliance.Sentence `json:"sentences"`
	Flags        compliance.Flags      `json:"flags"`
	Summary      compliance.Summary    `json:"summary"`
}

// Compliance returns the current flags. With flaggedOnly set, sentences
// without flags are left out.
func (s *Session) Compliance(flaggedOnly bool) (*ComplianceResult, error) {
	d := s.snapshot()
	if d == nil {
		return nil, fmt.Errorf("no template loaded")
	}

	sentences := d.sentences
	if flaggedOnly {
		sentences = nil
		for _, sent := range d.sentences {
			if d.flags.Has(sent.ID) {
				sentences = append(sentences, sent)
			}
		}
	}
	return &ComplianceResult{
		Jurisdiction: s.Jurisdiction(),
		Sentences:    sentences,
		Flags:        d.flags,
		Summary:      compliance.Summarize(d.flags),
	}, nil
}

// Report builds the compliance report for the loaded template
func (s *Session) Report(now time.Time) (compliance.Report, error) {
	d := s.snapshot()
	if d == nil {
		return compliance.Report{}, fmt.Errorf("no template loaded")
	}
	return compliance.BuildReport(d.doc.Name, s.Jurisdiction(), d.sentences, d.flags, now), nil
}

// Variables returns every variable with its usage counts. Counts only
// change when the template, the flags or the set of names does, so they
// are cached between edits.
func (s *Session) Variables() []template.Variable {
	vars := s.binder.Variables()
	usage := s.usageFor(vars)
	for i := range vars {
		u := usage[vars[i].Name]
		vars[i].Occurrences = u.Occurrences
		vars[i].FlaggedOccurrences = u.FlaggedOccurrences
	}
	return vars
}

func (s *Session) usageFor(vars []template.Variable) map[string]compliance.Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usage != nil && s.usageVersion == s.version && s.usageNames == len(vars) {
		return s.usage
	}

	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	var sentences []compliance.Sentence
	var flags compliance.Flags
	if s.current != nil {
		sentences, flags = s.current.sentences, s.current.flags
	}
	s.usage = compliance.IndexUsage(names, sentences, flags)
	s.usageVersion = s.version
	s.usageNames = len(vars)
	return s.usage
}

// Completion reports how many variables have values
func (s *Session) Completion() (filled, total int) {
	return s.binder.Completion()
}

// RenderText substitutes values into the template text. Exact mode only
// replaces tokens whose name matches a variable exactly; otherwise tokens
// are resolved with fuzzy matching and synonyms.
func (s *Session) RenderText(exact bool) (string, error) {
	d := s.snapshot()
	if d == nil {
		return "", fmt.Errorf("no template loaded")
	}
	if exact {
		return template.Substitute(d.doc.Text, s.binder.Snapshot()), nil
	}
	return template.SubstituteResolved(d.doc.Text, s.binder.Resolver()), nil
}

// PagePlan is the drawing plan for one page
type PagePlan struct {
	Page     int           `json:"page"`
	Viewport geom.Viewport `json:"viewport"`
	Ops      []render.Op   `json:"ops"`
}

// RenderPlan plans the in-place substitution of every page. A positive
// scale plans for a raster surface of that many pixels per point; zero
// plans in PDF user space. mode picks how token glyphs are erased.
func (s *Session) RenderPlan(scale float64, mode render.EraseMode) ([]PagePlan, error) {
	d := s.snapshot()
	if d == nil {
		return nil, fmt.Errorf("no template loaded")
	}
	if d.doc.Kind != pdf.KindPDF {
		return nil, fmt.Errorf("template %s has no page layout", d.doc.Name)
	}
	r := *s.renderer
	r.EraseMode = mode
	return plan(&r, d, s.binder.Resolver(), scale), nil
}

func plan(r *render.Renderer, d *document, resolve func(string) string, scale float64) []PagePlan {
	plans := make([]PagePlan, 0, len(d.doc.Pages))
	for i, page := range d.doc.Pages {
		vp := geom.PageViewport(page.Width, page.Height)
		if scale > 0 {
			vp = geom.PixelViewport(page.Width, page.Height, scale)
		}
		plans = append(plans, PagePlan{
			Page:     page.Number,
			Viewport: vp,
			Ops: r.Plan(render.PageInput{
				Page:      page.Number,
				Fragments: page.Fragments,
				Matches:   d.matches[i],
				Viewport:  vp,
				Resolve:   resolve,
			}),
		})
	}
	return plans
}

// ExportInput captures the template and a frozen resolver in one step, so
// edits made while an export runs do not leak into it.
func (s *Session) ExportInput() (*pdf.Document, func(string) string, error) {
	d := s.snapshot()
	if d == nil {
		return nil, nil, fmt.Errorf("no template loaded")
	}
	if d.doc.Kind != pdf.KindPDF {
		return nil, nil, fmt.Errorf("only PDF templates can be exported, use text rendering for %s", d.doc.Name)
	}
	return d.doc, s.binder.Resolver(), nil
}

// schedule restarts the debounced preview
func (s *Session) schedule() {
	s.debouncer.Trigger(s.refreshPreview)
}

func (s *Session) refreshPreview(gen uint64) {
	d := s.snapshot()
	resolve := s.binder.Resolver()
	filled, total := s.binder.Completion()

	p := Preview{Generation: gen, Filled: filled, Total: total}
	if d != nil {
		p.Text = template.SubstituteResolved(d.doc.Text, resolve)
		if d.doc.Kind == pdf.KindPDF {
			for _, pp := range plan(s.renderer, d, resolve, 0) {
				p.Ops += len(pp.Ops)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a newer edit arrived while this pass ran
	if s.debouncer.Stale(gen) {
		return
	}
	s.preview = p
}

// Preview returns the latest debounced rendition. With wait set, a pending
// recomputation is run first.
func (s *Session) Preview(wait bool) Preview {
	if wait {
		s.debouncer.Flush()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// Close stops pending work
func (s *Session) Close() {
	s.debouncer.Stop()
}

package render

import (
	"github.com/a3tai/mcp-offer-letter/internal/geom"
	"github.com/a3tai/mcp-offer-letter/internal/template"
)

// DefaultPad grows erase boxes by this many ems on every side so
// anti-aliased glyph edges are covered.
const DefaultPad = 0.02

// PageInput is everything needed to plan substitutions for one page
type PageInput struct {
	Page      int
	Fragments []template.Fragment
	Matches   []template.TokenMatch
	Viewport  geom.Viewport
	Resolve   func(name string) string
}

// Renderer plans the drawing instructions that replace tokens in place
type Renderer struct {
	Measurer  Measurer
	Pad       float64
	EraseMode EraseMode
}

// NewRenderer creates a renderer that measures with m
func NewRenderer(m Measurer) *Renderer {
	if m == nil {
		m = CoreFontMeasurer{}
	}
	return &Renderer{Measurer: m, Pad: DefaultPad}
}

// Plan returns the ops for one page: every erase first, then every text.
// Tokens whose value resolves to "" produce nothing so the bracketed text
// stays visible. A token split across fragments erases each part in its
// own fragment's space and is drawn once, at the start of its first part.
//
// Fragment transforms map text space, where one unit is one em, to page
// space. Boxes are measured in text space and mapped through the fragment
// transform followed by the viewport transform.
func (r *Renderer) Plan(page PageInput) []Op {
	if page.Resolve == nil {
		return nil
	}
	vp := page.Viewport.Transform
	if vp == (geom.Matrix{}) {
		vp = geom.Identity()
	}

	var erases, texts []Op
	for _, m := range page.Matches {
		value := page.Resolve(m.Name)
		if value == "" || len(m.Spans) == 0 {
			continue
		}

		var text *Op
		for _, span := range m.Spans {
			if span.Fragment < 0 || span.Fragment >= len(page.Fragments) {
				continue
			}
			frag := page.Fragments[span.Fragment]
			if span.Start < 0 || span.End > len(frag.Content) || span.Start >= span.End {
				continue
			}
			family := FamilyFor(frag.FontName)
			composed := geom.Compose(vp, frag.Transform)

			before := r.Measurer.MeasureText(frag.Content[:span.Start], family, 1)
			part := r.Measurer.MeasureText(frag.Content[span.Start:span.End], family, 1)

			box := geom.Rect{
				Min: geom.Point{X: before.Width - r.Pad, Y: -part.Descent - r.Pad},
				Max: geom.Point{X: before.Width + part.Width + r.Pad, Y: part.Ascent + r.Pad},
			}
			erases = append(erases, Op{
				Kind:     OpErase,
				Page:     page.Page,
				Token:    m.Name,
				Rect:     composed.ApplyRect(box),
				Mode:     r.EraseMode,
				Original: frag.Content[span.Start:span.End],
			})

			if text == nil {
				text = &Op{
					Kind:   OpText,
					Page:   page.Page,
					Token:  m.Name,
					Origin: composed.Apply(geom.Point{X: before.Width}),
					Family: family,
					Size:   composed.ScaleY(),
					Text:   value,
				}
			}
		}
		if text != nil {
			texts = append(texts, *text)
		}
	}
	return append(erases, texts...)
}

// Render plans the page with the canvas's own measurements and draws it
func (r *Renderer) Render(page PageInput, c Canvas) error {
	planner := *r
	planner.Measurer = c
	return Apply(planner.Plan(page), c)
}

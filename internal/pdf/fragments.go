package pdf

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-offer-letter/internal/geom"
	"github.com/a3tai/mcp-offer-letter/internal/template"
)

// Tolerances, in fractions of the font size
const (
	baselineTolerance = 0.1
	wordGap           = 0.2
	maxRunGap         = 3.0
)

// run is a fragment being assembled from glyphs
type run struct {
	font    string
	size    float64
	x, y    float64
	endX    float64
	content strings.Builder
}

func (r *run) fragment() template.Fragment {
	return template.Fragment{
		Content:   r.content.String(),
		Transform: geom.FromArray([6]float64{r.size, 0, 0, r.size, r.x, r.y}),
		FontName:  r.font,
	}
}

// continues reports whether g belongs at the end of r, and whether a word
// space should be inserted first.
func (r *run) continues(g pdf.Text) (ok, space bool) {
	if g.Font != r.font || math.Abs(g.FontSize-r.size) > 0.01 {
		return false, false
	}
	size := math.Max(r.size, 1)
	if math.Abs(g.Y-r.y) > baselineTolerance*size {
		return false, false
	}
	gap := g.X - r.endX
	if gap < -wordGap*size || gap > maxRunGap*size {
		return false, false
	}
	return true, gap > wordGap*size
}

// groupGlyphs merges the per-glyph text items reported by the extractor into
// fragments: runs sharing a font, size and baseline with no large gaps.
// Order is the content-stream order, which is the reading order for the
// generated documents offer letters usually are.
func groupGlyphs(glyphs []pdf.Text) []template.Fragment {
	var (
		fragments []template.Fragment
		cur       *run
	)
	flush := func() {
		if cur != nil && cur.content.Len() > 0 {
			fragments = append(fragments, cur.fragment())
		}
		cur = nil
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil {
			ok, space := cur.continues(g)
			if ok {
				if space && !strings.HasSuffix(cur.content.String(), " ") && !strings.HasPrefix(g.S, " ") {
					cur.content.WriteByte(' ')
				}
				cur.content.WriteString(g.S)
				cur.endX = math.Max(cur.endX, g.X+g.W)
				continue
			}
			flush()
		}
		cur = &run{font: g.Font, size: g.FontSize, x: g.X, y: g.Y, endX: g.X + g.W}
		cur.content.WriteString(g.S)
	}
	flush()
	return fragments
}

// fragmentsText joins fragments into page text, starting a new line when
// the baseline changes.
func fragmentsText(fragments []template.Fragment) string {
	var b strings.Builder
	for i, f := range fragments {
		if i > 0 {
			prev := fragments[i-1]
			size := math.Max(prev.Transform.ScaleY(), 1)
			if math.Abs(f.Transform.F-prev.Transform.F) > baselineTolerance*size {
				b.WriteByte('\n')
			}
		}
		b.WriteString(f.Content)
	}
	return b.String()
}

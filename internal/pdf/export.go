package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"math"
	"regexp"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-offer-letter/internal/geom"
	pdferrors "github.com/a3tai/mcp-offer-letter/internal/pdf/errors"
	"github.com/a3tai/mcp-offer-letter/internal/render"
	"github.com/a3tai/mcp-offer-letter/internal/template"
)

// StampKind is the type of an overlay stamp
type StampKind int

const (
	StampBox StampKind = iota
	StampText
)

// Stamp is one overlay drawn on top of a page, in PDF user space
type Stamp struct {
	Page     int
	Kind     StampKind
	Rect     geom.Rect
	Origin   geom.Point
	Text     string
	FontName string
	Size     float64
}

// Stamper overlays stamps onto a PDF and returns the new document
type Stamper interface {
	Stamp(src []byte, stamps []Stamp) ([]byte, error)
}

// StampCanvas collects drawing calls as stamps. It draws in PDF user
// space, so ops must be planned against a page viewport.
type StampCanvas struct {
	render.Measurer
	page   int
	stamps []Stamp
}

// NewStampCanvas creates a canvas measuring with the standard PDF fonts
func NewStampCanvas() *StampCanvas {
	return &StampCanvas{Measurer: render.CoreFontMeasurer{}}
}

// SetPage selects the page subsequent calls draw on
func (c *StampCanvas) SetPage(n int) {
	c.page = n
}

// FillRect implements render.Canvas. Punching is not possible on a PDF
// page, so both modes paint white.
func (c *StampCanvas) FillRect(r geom.Rect, _ render.EraseMode) error {
	if r.Empty() {
		return fmt.Errorf("empty erase box on page %d", c.page)
	}
	c.stamps = append(c.stamps, Stamp{Page: c.page, Kind: StampBox, Rect: r})
	return nil
}

// FillText implements render.Canvas
func (c *StampCanvas) FillText(text string, origin geom.Point, family render.Family, size float64) error {
	if size <= 0 {
		return fmt.Errorf("invalid font size %.2f on page %d", size, c.page)
	}
	c.stamps = append(c.stamps, Stamp{
		Page:     c.page,
		Kind:     StampText,
		Origin:   origin,
		Text:     text,
		FontName: render.CoreFont(family),
		Size:     size,
	})
	return nil
}

// Stamps returns everything drawn so far
func (c *StampCanvas) Stamps() []Stamp {
	return c.stamps
}

// boxResolution is the pixels-per-point of the images used as erase boxes
const boxResolution = 4

// PDFCPUStamper stamps with pdfcpu watermarks: erase boxes become white
// images and replacement text becomes text stamps in a standard font.
type PDFCPUStamper struct{}

// Stamp implements Stamper
func (PDFCPUStamper) Stamp(src []byte, stamps []Stamp) ([]byte, error) {
	m := make(map[int][]*model.Watermark)
	for _, s := range stamps {
		wm, err := watermarkFor(s)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", s.Page, err)
		}
		m[s.Page] = append(m[s.Page], wm)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.AddWatermarksSliceMap(bytes.NewReader(src), &out, m, conf); err != nil {
		return nil, fmt.Errorf("failed to stamp PDF: %w", err)
	}
	return out.Bytes(), nil
}

func watermarkFor(s Stamp) (*model.Watermark, error) {
	switch s.Kind {
	case StampBox:
		img, err := whiteBox(s.Rect.Width(), s.Rect.Height())
		if err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("position:bl, offset:%.2f %.2f, scalefactor:%.4f abs, rotation:0, opacity:1",
			s.Rect.Min.X, s.Rect.Min.Y, 1.0/boxResolution)
		return api.ImageWatermarkForReader(bytes.NewReader(img), desc, true, false, types.POINTS)

	case StampText:
		points := int(math.Max(1, math.Round(s.Size)))
		// stamps are placed by their bounding box, which starts below the baseline
		desc := fmt.Sprintf("fontname:%s, points:%d, position:bl, offset:%.2f %.2f, scalefactor:1 abs, rotation:0, fillcolor:0 0 0, opacity:1",
			s.FontName, points, s.Origin.X, s.Origin.Y-render.DefaultDescent*s.Size)
		return api.TextWatermark(s.Text, desc, true, false, types.POINTS)

	default:
		return nil, fmt.Errorf("unknown stamp kind %d", s.Kind)
	}
}

// whiteBox encodes an opaque white PNG covering w x h points
func whiteBox(w, h float64) ([]byte, error) {
	pw := int(math.Ceil(w * boxResolution))
	ph := int(math.Ceil(h * boxResolution))
	if pw <= 0 || ph <= 0 {
		return nil, fmt.Errorf("empty box %.2fx%.2f", w, h)
	}
	img := image.NewNRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode box: %w", err)
	}
	return buf.Bytes(), nil
}

// Exporter writes substituted values over a PDF template
type Exporter struct {
	renderer *render.Renderer
	stamper  Stamper
}

// NewExporter creates an exporter; a nil stamper uses pdfcpu
func NewExporter(stamper Stamper) *Exporter {
	if stamper == nil {
		stamper = PDFCPUStamper{}
	}
	return &Exporter{
		renderer: render.NewRenderer(render.CoreFontMeasurer{}),
		stamper:  stamper,
	}
}

// Export renders every resolved token onto the document. On any failure
// it returns a copy of the original bytes together with a non-nil
// *pdferrors.PDFError, so the caller always has a usable document.
func (e *Exporter) Export(doc *Document, resolve func(string) string) ([]byte, ExportResult, error) {
	if doc == nil || doc.Kind != KindPDF || len(doc.Source) == 0 {
		return nil, ExportResult{}, pdferrors.NewPDFError(pdferrors.ErrorTypeExportFailed, "no PDF template loaded")
	}
	original := doc.Source

	stamps, err := e.plan(doc, resolve)
	if err != nil {
		return e.fallback(original, pdferrors.WrapError(pdferrors.ErrorTypeRenderFailed, err))
	}
	if len(stamps) == 0 {
		return bytes.Clone(original), ExportResult{Size: len(original)}, nil
	}

	out, err := e.stamp(original, stamps)
	if err != nil {
		return e.fallback(original, pdferrors.WrapError(pdferrors.ErrorTypeExportFailed, err))
	}
	if err := ValidateOutput(out); err != nil {
		var perr *pdferrors.PDFError
		if !errors.As(err, &perr) {
			perr = pdferrors.WrapError(pdferrors.ErrorTypeInvalidOutput, err)
		}
		return e.fallback(original, perr)
	}
	return out, ExportResult{Size: len(out), Stamps: len(stamps)}, nil
}

func (e *Exporter) plan(doc *Document, resolve func(string) string) ([]Stamp, error) {
	canvas := NewStampCanvas()
	for _, page := range doc.Pages {
		canvas.SetPage(page.Number)
		err := e.renderer.Render(render.PageInput{
			Page:      page.Number,
			Fragments: page.Fragments,
			Matches:   template.Scan(page.Fragments),
			Viewport:  geom.PageViewport(page.Width, page.Height),
			Resolve:   resolve,
		}, canvas)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page.Number, err)
		}
	}
	return canvas.Stamps(), nil
}

// stamp runs the stamper, turning a panic into an error
func (e *Exporter) stamp(src []byte, stamps []Stamp) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("stamper panicked: %v", rec)
		}
	}()
	// the stamper gets its own copy so the source can never be modified
	return e.stamper.Stamp(bytes.Clone(src), stamps)
}

func (e *Exporter) fallback(original []byte, perr *pdferrors.PDFError) ([]byte, ExportResult, error) {
	log.Printf("export failed, returning original document: %v", perr)
	return bytes.Clone(original), ExportResult{Size: len(original), Fallback: true, Error: perr.Error()}, perr
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// OutputName builds the file name for an exported offer letter:
// Offer_Letter_<candidate>_<YYYY-MM-DD>.pdf
func OutputName(candidate string, date time.Time) string {
	if candidate == "" {
		candidate = "Candidate"
	}
	return fmt.Sprintf("Offer_Letter_%s_%s.pdf", unsafeNameChars.ReplaceAllString(candidate, "_"), date.Format("2006-01-02"))
}

// CandidateName picks the candidate's name from resolved values, trying the
// usual field names in order.
func CandidateName(resolve func(string) string) string {
	for _, key := range []string{"Candidate Name", "candidate_name", "name"} {
		if v := resolve(key); v != "" {
			return v
		}
	}
	return "Candidate"
}

package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	pdferrors "github.com/a3tai/mcp-offer-letter/internal/pdf/errors"
)

// Letter size in points, used when a page has no usable MediaBox
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Reader loads PDF and plain-text templates
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new template reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadFile loads a template from disk. The format is chosen by extension.
func (r *Reader) ReadFile(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	kind, ok := KindOf(path)
	if !ok {
		return nil, fmt.Errorf("file is not a supported template (pdf, txt, md): %s", path)
	}
	if fileInfo.Size() > r.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeFileAccess, err).WithFile(path)
	}

	var doc *Document
	if kind == KindPDF {
		doc, err = r.ReadPDF(data)
	} else {
		doc, err = r.ReadText(data)
	}
	if err != nil {
		var pe *pdferrors.PDFError
		if errors.As(err, &pe) {
			pe.WithFile(path)
		}
		return nil, err
	}
	doc.Path = path
	doc.Name = filepath.Base(path)
	return doc, nil
}

// ReadText wraps plain template text as a document
func (r *Reader) ReadText(data []byte) (*Document, error) {
	if len(data) > r.maxTextSize {
		return nil, fmt.Errorf("template text too large: %d bytes (max: %d bytes)",
			len(data), r.maxTextSize)
	}
	return &Document{
		Kind: KindText,
		Size: int64(len(data)),
		Text: string(data),
	}, nil
}

// ReadPDF extracts positioned text fragments and plain text from every page.
// A document that cannot be parsed, that yields no text at all or whose
// text outgrows the text limit is an extraction failure; nothing partial
// is returned.
func (r *Reader) ReadPDF(data []byte) (*Document, error) {
	if !HasPDFHeader(data) {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidHeader, "missing %PDF header")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeExtractionFailed, fmt.Errorf("failed to open PDF: %w", err))
	}

	doc := &Document{
		Kind:   KindPDF,
		Size:   int64(len(data)),
		Source: data,
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page, err := r.readPage(reader, pageNum)
		if err != nil {
			return nil, err
		}
		if text.Len()+len(page.Text) > r.maxTextSize {
			return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeExtractionFailed,
				fmt.Sprintf("extracted text exceeds %d bytes", r.maxTextSize)).WithPage(pageNum)
		}
		doc.Pages = append(doc.Pages, page)

		if text.Len() > 0 && page.Text != "" {
			text.WriteString("\n\n")
		}
		text.WriteString(page.Text)
	}

	doc.Text = text.String()
	if strings.TrimSpace(doc.Text) == "" {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeNoText, "no text content could be extracted from PDF")
	}
	return doc, nil
}

// readPage extracts one page. The underlying parser panics on some
// malformed content streams, so panics become extraction errors.
func (r *Reader) readPage(reader *pdf.Reader, pageNum int) (page Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = pdferrors.NewPDFError(pdferrors.ErrorTypeExtractionFailed, "failed to extract page").
				WithContext(fmt.Sprint(rec)).
				WithPage(pageNum)
		}
	}()

	page = Page{Number: pageNum, Width: defaultPageWidth, Height: defaultPageHeight}
	p := reader.Page(pageNum)
	if p.V.IsNull() {
		return page, nil
	}

	page.Width, page.Height = pageSize(p)
	page.Fragments = groupGlyphs(p.Content().Text)
	page.Text = fragmentsText(page.Fragments)

	if strings.TrimSpace(page.Text) == "" {
		if plain, perr := p.GetPlainText(nil); perr == nil {
			page.Text = plain
		}
	}
	return page, nil
}

// pageSize reads the page's MediaBox, inherited from parents when absent
func pageSize(p pdf.Page) (float64, float64) {
	box := p.V.Key("MediaBox")
	for parent := p.V.Key("Parent"); box.IsNull() && !parent.IsNull(); parent = parent.Key("Parent") {
		box = parent.Key("MediaBox")
	}
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}
	w := box.Index(2).Float64() - box.Index(0).Float64()
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if w <= 0 || h <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return w, h
}

// HasPDFHeader reports whether data starts with the %PDF signature,
// allowing leading whitespace.
func HasPDFHeader(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n\x00"), []byte("%PDF"))
}

// KindOf picks the template format from a file name
func KindOf(path string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return KindPDF, true
	case ".txt", ".md", ".text":
		return KindText, true
	default:
		return "", false
	}
}

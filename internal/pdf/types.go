package pdf

import (
	"github.com/a3tai/mcp-offer-letter/internal/template"
)

// FileInfo represents basic information about a template file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Kind is the format of a template
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "text"
)

// Page is one page of a PDF template
type Page struct {
	Number    int                 `json:"number"`
	Width     float64             `json:"width"`
	Height    float64             `json:"height"`
	Fragments []template.Fragment `json:"fragments"`
	Text      string              `json:"text"`
}

// Document is a loaded template. Text templates have no pages; their whole
// content is in Text.
type Document struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Size   int64  `json:"size"`
	Pages  []Page `json:"pages,omitempty"`
	Text   string `json:"text"`
	Source []byte `json:"-"`
}

// NumPages returns the page count; text templates count as one page
func (d *Document) NumPages() int {
	if d.Kind == KindText {
		return 1
	}
	return len(d.Pages)
}

// TemplateSearchRequest represents a request to discover templates
type TemplateSearchRequest struct {
	Directory string `json:"directory"`
	Pattern   string `json:"pattern,omitempty"`
	Query     string `json:"query,omitempty"`
}

// TemplateSearchResult represents the result of template discovery
type TemplateSearchResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	Pattern     string     `json:"pattern"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// ValidateResult represents the result of validating a template file
type ValidateResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Kind    Kind   `json:"kind,omitempty"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// ExportResult describes a finished export. When Fallback is set the
// output is the unmodified source document.
type ExportResult struct {
	Path     string `json:"path,omitempty"`
	Size     int    `json:"size"`
	Stamps   int    `json:"stamps"`
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}

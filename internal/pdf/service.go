package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/a3tai/mcp-offer-letter/internal/pdf/security"
)

// Service handles template file operations by orchestrating the reader,
// validator, search and exporter. Every path goes through the path
// validator first.
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	search        *Search
	exporter      *Exporter
	pathValidator *security.PathValidator
	now           func() time.Time
}

// NewService creates a new template service rooted at configuredDirectory.
// A nil stamper exports with pdfcpu.
func NewService(maxFileSize int64, configuredDirectory string, stamper Stamper) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		exporter:      NewExporter(stamper),
		pathValidator: pathValidator,
		now:           time.Now,
	}, nil
}

// ListTemplates discovers templates below a directory
func (s *Service) ListTemplates(req TemplateSearchRequest) (*TemplateSearchResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.Root()
	}

	dir, err := s.pathValidator.ValidateDirectory(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Directory = dir

	return s.search.SearchDirectory(req)
}

// LoadTemplate reads a PDF or text template
func (s *Service) LoadTemplate(path string) (*Document, error) {
	abs, err := s.pathValidator.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.reader.ReadFile(abs)
}

// ValidateTemplate checks whether a file can be used as a template
func (s *Service) ValidateTemplate(path string) (*ValidateResult, error) {
	abs, err := s.pathValidator.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(abs)
}

// ExportToFile renders resolved values onto a PDF template and writes the
// result. An empty outputPath derives the file name from the candidate's
// name and today's date. When rendering fails the original template is
// written instead and the result is marked as a fallback.
func (s *Service) ExportToFile(doc *Document, resolve func(string) string, outputPath string) (*ExportResult, error) {
	if outputPath == "" {
		outputPath = OutputName(CandidateName(resolve), s.now())
	}

	abs, err := s.pathValidator.ValidateOutput(outputPath)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	data, result, exportErr := s.exporter.Export(doc, resolve)
	if data == nil {
		return nil, exportErr
	}

	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", filepath.Base(abs), err)
	}
	result.Path = abs
	return &result, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// Root returns the configured template directory
func (s *Service) Root() string {
	return s.pathValidator.Root()
}

// IsValidTemplate performs a quick validation check on a file
func (s *Service) IsValidTemplate(filePath string) bool {
	return s.validator.IsValidTemplate(filePath)
}

// ValidateConfiguration validates the service configuration
func (s *Service) ValidateConfiguration() error {
	if s.maxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be greater than 0")
	}

	if s.maxFileSize > 1024*1024*1024 { // 1GB limit
		return fmt.Errorf("maxFileSize cannot exceed 1GB")
	}

	return nil
}

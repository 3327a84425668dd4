package pdf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	pdferrors "github.com/a3tai/mcp-offer-letter/internal/pdf/errors"
)

// Validator handles template file validation operations
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new template validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile checks a template file and reports the outcome in the
// result; only unexpected failures are returned as errors.
func (v *Validator) ValidateFile(path string) (*ValidateResult, error) {
	result := &ValidateResult{Path: path}

	kind, pages, err := v.validateTemplateFile(path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	result.Kind = kind
	result.Pages = pages
	return result, nil
}

func (v *Validator) validateTemplateFile(filePath string) (Kind, int, error) {
	if filePath == "" {
		return "", 0, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return "", 0, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return "", 0, fmt.Errorf("cannot access file: %w", err)
	}
	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return "", 0, err
	}

	kind, _ := KindOf(filePath)
	if kind == KindText {
		return kind, 1, nil
	}

	// Try to open the PDF to validate it's a valid PDF file
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	return kind, reader.NumPage(), nil
}

// IsValidTemplate performs a quick check to see if a file can be loaded
func (v *Validator) IsValidTemplate(filePath string) bool {
	_, _, err := v.validateTemplateFile(filePath)
	return err == nil
}

// ValidateFileInfo performs basic validation on file info without opening the file
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if _, ok := KindOf(filePath); !ok {
		return fmt.Errorf("file is not a supported template (pdf, txt, md): %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

// ValidateOutput checks that exported bytes form a readable PDF with at
// least one page.
func ValidateOutput(data []byte) error {
	if len(data) == 0 {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidOutput, "export produced no bytes")
	}
	if !HasPDFHeader(data) {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidOutput, "export output lacks %PDF header")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidOutput, fmt.Errorf("failed to read PDF context: %w", err))
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidOutput, fmt.Errorf("failed to count pages: %w", err))
	}
	if ctx.PageCount == 0 {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidOutput, "export output has no pages")
	}
	return nil
}

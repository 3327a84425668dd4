package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// textLine is one line of text drawn on a fixture page
type textLine struct {
	x, y float64
	size int
	text string
}

var pdfStringEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// generateTemplatePDF builds a single-page letter-size PDF with accurate
// byte offsets, drawing each line in Courier.
func generateTemplatePDF(lines ...textLine) []byte {
	var content strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&content, "BT /F1 %d Tf %.0f %.0f Td (%s) Tj ET\n", l.size, l.x, l.y, pdfStringEscaper.Replace(l.text))
	}
	stream := content.String()

	widths := strings.TrimSpace(strings.Repeat("600 ", 95))

	pdf := "%PDF-1.4\n"
	offsets := make([]int, 0, 5)

	offsets = append(offsets, len(pdf))
	pdf += "1 0 obj\n<<\n/Type /Catalog\n/Pages 2 0 R\n>>\nendobj\n"

	offsets = append(offsets, len(pdf))
	pdf += "2 0 obj\n<<\n/Type /Pages\n/Kids [3 0 R]\n/Count 1\n>>\nendobj\n"

	offsets = append(offsets, len(pdf))
	pdf += "3 0 obj\n<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n" +
		"/Resources << /Font << /F1 5 0 R >> >>\n/Contents 4 0 R\n>>\nendobj\n"

	offsets = append(offsets, len(pdf))
	pdf += fmt.Sprintf("4 0 obj\n<<\n/Length %d\n>>\nstream\n%sendstream\nendobj\n", len(stream), stream)

	offsets = append(offsets, len(pdf))
	pdf += "5 0 obj\n<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Courier\n/Encoding /WinAnsiEncoding\n" +
		"/FirstChar 32\n/LastChar 126\n/Widths [" + widths + "]\n>>\nendobj\n"

	xrefStart := len(pdf)
	pdf += fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		pdf += fmt.Sprintf("%010d 00000 n \n", off)
	}

	pdf += fmt.Sprintf("trailer\n<<\n/Size %d\n/Root 1 0 R\n>>\nstartxref\n", len(offsets)+1)
	pdf += fmt.Sprintf("%d\n", xrefStart)
	pdf += "%%EOF"

	return []byte(pdf)
}

// offerLetterPDF is the fixture most tests share
func offerLetterPDF() []byte {
	return generateTemplatePDF(
		textLine{x: 72, y: 700, size: 12, text: "Dear [Candidate Name],"},
		textLine{x: 72, y: 680, size: 12, text: "Your start date is [Start Date]."},
		textLine{x: 72, y: 660, size: 12, text: "Employment is at-will."},
	)
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

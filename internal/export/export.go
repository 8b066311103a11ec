package export

import (
	"bytes"
	"fmt"

	"ai-readiness-service/internal/domain"

	"github.com/go-pdf/fpdf"
)

// Renderer turns form state into the downloadable responses document: a fixed
// title line followed by one "<key>: <value>" line per field in form order.
// Rendering never touches the network and works on whatever state it is given.
type Renderer struct {
	title    string
	filename string
}

func NewRenderer(title, filename string) *Renderer {
	return &Renderer{title: title, filename: filename}
}

// Filename is the fixed download name for the generated document.
func (r *Renderer) Filename() string {
	return r.filename
}

// Lines renders the document content as plain text lines.
func (r *Renderer) Lines(cat domain.Catalog, state domain.FormState) []string {
	lines := make([]string, 0, len(cat.FieldKeys())+1)
	lines = append(lines, r.title)
	for _, key := range cat.FieldKeys() {
		lines = append(lines, fmt.Sprintf("%s: %s", key, state.Value(key)))
	}
	return lines
}

// PDF renders the document lines into a PDF body.
func (r *Renderer) PDF(cat domain.Catalog, state domain.FormState) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	for i, line := range r.Lines(cat, state) {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 14)
		} else {
			pdf.SetFont("Helvetica", "", 11)
		}
		pdf.MultiCell(0, 8, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

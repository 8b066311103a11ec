package export

import (
	"bytes"
	"testing"

	"ai-readiness-service/internal/catalog"
	"ai-readiness-service/internal/domain"
)

func TestLinesListFieldsInFormOrder(t *testing.T) {
	renderer := NewRenderer("AI Readiness Assessment Responses", "AI_Readiness_Assessment.pdf")
	state := domain.FormState{}
	state.Set(domain.FieldName, "Ana")
	state.Set("q1", "Efficiency")

	lines := renderer.Lines(catalog.Builtin(), state)
	if lines[0] != "AI Readiness Assessment Responses" {
		t.Fatalf("expected title line first, got %q", lines[0])
	}

	nameIdx, q1Idx := -1, -1
	for i, line := range lines {
		switch line {
		case "name: Ana":
			nameIdx = i
		case "q1: Efficiency":
			q1Idx = i
		}
	}
	if nameIdx == -1 || q1Idx == -1 {
		t.Fatalf("expected literal name and q1 lines, got %v", lines)
	}
	if nameIdx >= q1Idx {
		t.Fatalf("expected contact fields before questions, got name=%d q1=%d", nameIdx, q1Idx)
	}
	// One line per catalog field plus the title.
	if want := len(catalog.Builtin().FieldKeys()) + 1; len(lines) != want {
		t.Fatalf("expected %d lines, got %d", want, len(lines))
	}
}

func TestPDFProducesDocument(t *testing.T) {
	renderer := NewRenderer("AI Readiness Assessment Responses", "AI_Readiness_Assessment.pdf")
	state := domain.FormState{}
	state.Set(domain.FieldName, "Ana")

	doc, err := renderer.PDF(catalog.Builtin(), state)
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", doc[:min(8, len(doc))])
	}
	if renderer.Filename() != "AI_Readiness_Assessment.pdf" {
		t.Fatalf("unexpected filename %q", renderer.Filename())
	}
}

package parser

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/docscan/internal/doctree"
	"github.com/dgallion1/docscan/internal/pdftest"
)

func TestPDFParser_Lines(t *testing.T) {
	data, err := pdftest.Build(pdftest.Paper())
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	p := &PDFParser{}
	lines, err := p.Lines(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"Parallel Document Search Introduction Intro body text.",
		"Results: The search finished quickly.",
		"Every file was scanned.",
		"DISCUSSION more body text",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("expected %q, got %q", want, lines)
	}
}

func TestPDFParser_MalformedWithoutFallback(t *testing.T) {
	p := &PDFParser{}
	_, err := p.Lines(strings.NewReader("%PDF-1.4 garbage"))
	if err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}

func TestDocumentLines(t *testing.T) {
	doc := &doctree.Document{Pages: []doctree.Page{{Blocks: []doctree.Block{
		{Type: doctree.BlockText, Lines: []doctree.Line{
			{Runs: []doctree.Run{{Text: " Alpha "}, {Text: "  "}, {Text: "beta."}}},
			{Runs: []doctree.Run{{Text: "   "}}},
		}},
		{Type: doctree.BlockImage, Lines: []doctree.Line{{Runs: []doctree.Run{{Text: "skipped."}}}}},
		{Type: doctree.BlockText, Lines: []doctree.Line{
			{Runs: []doctree.Run{{Text: "Gamma"}}},
		}},
	}}}}
	want := []string{"Alpha beta.", "Gamma"}
	if got := DocumentLines(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDocumentLines_Empty(t *testing.T) {
	if got := DocumentLines(&doctree.Document{}); got != nil {
		t.Errorf("expected nil, got %q", got)
	}
}

package extract

import (
	"testing"

	"github.com/dgallion1/docscan/internal/doctree"
)

func TestInferTitle_LargestFontWins(t *testing.T) {
	doc := docOf(block(
		run("Quarterly Report", 24, black),
		run("Prepared by the analytics team", 12, black),
	))
	if got := InferTitle(doc, DefaultOptions()); got != "Quarterly Report" {
		t.Errorf("expected %q, got %q", "Quarterly Report", got)
	}
}

func TestInferTitle_DigitRunExcludedBeforeMaxSize(t *testing.T) {
	// The 30pt run carries a digit, so it is dropped before the size comparison.
	doc := docOf(block(
		run("Main Title", 24, black),
		run("Subtitle Text", 24, black),
		run("intro 2024", 30, black),
	))
	if got := InferTitle(doc, DefaultOptions()); got != "Main Title Subtitle Text" {
		t.Errorf("expected %q, got %q", "Main Title Subtitle Text", got)
	}
}

func TestInferTitle_ShortOrNumberedRunsExcluded(t *testing.T) {
	// "Sub1" fails both heuristics: it is 4 characters and carries a digit.
	doc := docOf(block(
		run("Main Title", 24, black),
		run("Sub1", 24, black),
		run("Intro", 40, black),
	))
	if got := InferTitle(doc, DefaultOptions()); got != "Main Title" {
		t.Errorf("expected %q, got %q", "Main Title", got)
	}
}

func TestInferTitle_TiesJoinedInDocumentOrder(t *testing.T) {
	doc := docOf(
		block(run("Second Half", 20, black)),
		block(run("body text here", 10, black), run("First Half", 20, black)),
	)
	if got := InferTitle(doc, DefaultOptions()); got != "Second Half First Half" {
		t.Errorf("expected %q, got %q", "Second Half First Half", got)
	}
}

func TestInferTitle_Unknown(t *testing.T) {
	tests := []struct {
		name string
		doc  *doctree.Document
	}{
		{"empty document", &doctree.Document{}},
		{"only short runs", docOf(block(run("Hi", 30, black), run("  abc  ", 20, black)))},
		{"only numbered runs", docOf(block(run("Page 12 of 40", 10, black)))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferTitle(tc.doc, DefaultOptions()); got != UnknownTitle {
				t.Errorf("expected %q, got %q", UnknownTitle, got)
			}
		})
	}
}

func TestInferTitle_TrimsBeforeLengthCheck(t *testing.T) {
	doc := docOf(block(run("   short   ", 30, black), run("  Longer Title  ", 20, black)))
	if got := InferTitle(doc, DefaultOptions()); got != "Longer Title" {
		t.Errorf("expected %q, got %q", "Longer Title", got)
	}
}

func TestInferTitle_TunableHeuristics(t *testing.T) {
	doc := docOf(block(run("Report 2024", 30, black), run("Appendix", 20, black)))

	if got := InferTitle(doc, DefaultOptions()); got != "Appendix" {
		t.Errorf("default options: expected %q, got %q", "Appendix", got)
	}
	opts := DefaultOptions()
	opts.TitleKeepDigits = true
	if got := InferTitle(doc, opts); got != "Report 2024" {
		t.Errorf("keep digits: expected %q, got %q", "Report 2024", got)
	}
}

func TestInferTitle_IgnoresImageBlocks(t *testing.T) {
	doc := docOf(block(run("Visible Title", 18, black)))
	doc.Pages[0].Blocks = append(doc.Pages[0].Blocks, doctree.Block{
		Index: 1,
		Type:  doctree.BlockImage,
		Lines: []doctree.Line{{Runs: []doctree.Run{run("Image Caption Huge", 50, black)}}},
	})
	if got := InferTitle(doc, DefaultOptions()); got != "Visible Title" {
		t.Errorf("expected %q, got %q", "Visible Title", got)
	}
}

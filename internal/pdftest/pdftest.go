// Package pdftest builds small PDFs with controlled font sizes and colors for tests.
package pdftest

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// Line is one line of text drawn at the left margin.
type Line struct {
	Text  string
	Size  float64
	Bold  bool
	Color [3]int
	// Gap is the baseline advance before this line; 0 means 1.2×Size.
	Gap     float64
	NewPage bool
}

// Build renders lines top to bottom in points and returns the PDF bytes.
func Build(lines []Line) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(false)
	pdf.AddPage()

	y := 60.0
	for _, l := range lines {
		if l.NewPage {
			pdf.AddPage()
			y = 60
		}
		gap := l.Gap
		if gap == 0 {
			gap = 1.2 * l.Size
		}
		y += gap

		style := ""
		if l.Bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, l.Size)
		pdf.SetTextColor(l.Color[0], l.Color[1], l.Color[2])
		pdf.Text(50, y, l.Text)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Paper is the sample document used across package tests: a 24pt title, a
// 16pt "Results" heading, two black 12pt body lines, an uppercase blue 12pt
// line, then more 12pt body text.
func Paper() []Line {
	return []Line{
		{Text: "Parallel Document Search", Size: 24, Bold: true},
		{Text: "Introduction", Size: 16, Bold: true, Gap: 40},
		{Text: "Intro body text.", Size: 12},
		{Text: "Results:", Size: 16, Bold: true, Gap: 30},
		{Text: "The search finished quickly.", Size: 12},
		{Text: "Every file was scanned.", Size: 12},
		{Text: "DISCUSSION", Size: 12, Color: [3]int{0, 0, 255}},
		{Text: "more body text", Size: 12},
	}
}

// Package report renders heading-search results as a downloadable PDF.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dgallion1/docscan/internal/extract"
	"github.com/jung-kurt/gofpdf"
)

// ErrNoResults is returned when there is nothing to render.
var ErrNoResults = errors.New("no search results available to download")

// Request is the report input: the query that was run, the files it ran
// over and the per-file sections.
type Request struct {
	Pattern       string            `json:"pattern" validate:"required,max=200"`
	Files         []string          `json:"files" validate:"max=500,dive,max=255"`
	SearchResults []extract.Section `json:"searchResults" validate:"required,min=1,dive"`
}

const (
	fontFamily = "Times"
	margin     = 10.0
	pageBreak  = 15.0
)

// Render writes the PDF for req to w. The core fonts only cover Latin-1, so
// non-ASCII characters are dropped.
func Render(w io.Writer, req Request) error {
	if len(req.SearchResults) == 0 {
		return ErrNoResults
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pageBreak)
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	pdf.SetFont(fontFamily, "B", 20)
	pdf.MultiCell(0, 10, Sanitize("Search Results for "+strings.ToUpper(req.Pattern)), "", "C", false)
	pdf.Ln(3)

	pdf.SetFont(fontFamily, "", 14)
	pdf.MultiCell(0, 8, Sanitize("From Files: "+strings.Join(req.Files, ", ")), "", "C", false)
	pdf.Ln(3)

	for _, r := range req.SearchResults {
		pdf.Ln(5)
		pdf.SetDrawColor(150, 150, 150)
		y := pdf.GetY()
		pdf.Line(margin, y, pageW-margin, y)
		pdf.Ln(5)

		pdf.SetFont(fontFamily, "", 14)
		pdf.MultiCell(0, 10, Sanitize(r.FileName), "", "L", false)
		pdf.Ln(3)

		pdf.SetFont(fontFamily, "B", 20)
		pdf.MultiCell(0, 10, Sanitize(orDefault(r.Title, "Untitled")), "", "C", false)
		pdf.Ln(3)

		pdf.SetFont(fontFamily, "B", 15)
		pdf.MultiCell(0, 10, Sanitize(Capitalize(orDefault(r.Heading, "No Heading Found"))), "", "L", false)
		pdf.Ln(3)

		pdf.SetFont(fontFamily, "", 12)
		pdf.MultiCell(0, 6, Sanitize(orDefault(r.Paragraph, "No Paragraph Found")), "", "J", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// Sanitize drops every non-ASCII rune.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + strings.ToLower(s[i+len(string(r)):])
	}
	return s
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

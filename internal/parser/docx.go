package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// rowSeparator joins the non-empty cells of one table row.
const rowSeparator = "    "

// DOCXParser handles .docx files. Body paragraphs come first, then one line
// per table row, then text-box paragraphs; every line is then split into
// sentences.
type DOCXParser struct{}

func (p *DOCXParser) Lines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var paragraphs, rows []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			if text := docxParagraphText(it); text != "" {
				paragraphs = append(paragraphs, text)
			}
		case *docx.Table:
			rows = append(rows, docxTableRows(it)...)
		}
	}

	boxes, err := textBoxParagraphs(data)
	if err != nil {
		return nil, fmt.Errorf("read text boxes: %w", err)
	}

	lines := make([]string, 0, len(paragraphs)+len(rows)+len(boxes))
	lines = append(lines, paragraphs...)
	lines = append(lines, rows...)
	lines = append(lines, boxes...)
	return splitAll(lines), nil
}

func docxTableRows(tbl *docx.Table) []string {
	var rows []string
	for _, row := range tbl.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				parts = append(parts, docxParagraphText(para))
			}
			if text := strings.TrimSpace(strings.Join(parts, "\n")); text != "" {
				cells = append(cells, text)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, rowSeparator))
		}
	}
	return rows
}

// docxParagraphText joins the text of a paragraph's runs, including runs
// inside hyperlinks. Tabs and breaks become \t and \n.
func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRunText(&buf, c)
		case *docx.Hyperlink:
			writeRunText(&buf, &c.Run)
		}
	}
	return strings.TrimSpace(buf.String())
}

func writeRunText(buf *strings.Builder, run *docx.Run) {
	for _, rc := range run.Children {
		switch c := rc.(type) {
		case *docx.Text:
			buf.WriteString(c.Text)
		case *docx.Tab:
			buf.WriteByte('\t')
		case *docx.BarterRabbet:
			buf.WriteByte('\n')
		}
	}
}

// Package extract infers document titles and pulls the body text that
// belongs to a caller-supplied heading, using font size and color alone.
package extract

import (
	"github.com/dgallion1/docscan/internal/doctree"
)

const (
	NoParagraph = "No paragraph found for the specified heading."
	ErrorTitle  = "Error"
)

// Section is the heading-search result for one file.
type Section struct {
	FileName  string `json:"fileName"`
	Title     string `json:"title"`
	Heading   string `json:"heading"`
	Paragraph string `json:"paragraph"`
}

// ExtractSection infers the title of doc and extracts the text under heading.
// A missing heading is not an error; the paragraph carries NoParagraph instead.
func ExtractSection(doc *doctree.Document, fileName, heading string, opts Options) Section {
	paragraph := FindSection(doc, heading, opts)
	if paragraph == "" {
		paragraph = NoParagraph
	}
	return Section{
		FileName:  fileName,
		Title:     InferTitle(doc, opts),
		Heading:   heading,
		Paragraph: paragraph,
	}
}

// ErrorSection is the record returned for a file that could not be processed.
func ErrorSection(fileName, heading string, err error) Section {
	return Section{
		FileName:  fileName,
		Title:     ErrorTitle,
		Heading:   heading,
		Paragraph: "Error processing file: " + err.Error(),
	}
}

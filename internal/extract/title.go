package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docscan/internal/doctree"
)

const UnknownTitle = "Unknown Title"

// InferTitle picks the text set in the largest font across the whole document.
// Every surviving run at exactly that size contributes, joined in document order.
func InferTitle(doc *doctree.Document, opts Options) string {
	opts = opts.withDefaults()

	type candidate struct {
		text string
		size float64
	}
	var candidates []candidate
	for _, r := range doc.Runs() {
		text := strings.TrimSpace(r.Text)
		if utf8.RuneCountInString(text) <= opts.TitleMinRunes {
			continue
		}
		if !opts.TitleKeepDigits && strings.IndexFunc(text, unicode.IsDigit) >= 0 {
			continue
		}
		candidates = append(candidates, candidate{text: text, size: r.FontSize})
	}
	if len(candidates) == 0 {
		return UnknownTitle
	}

	largest := candidates[0].size
	for _, c := range candidates[1:] {
		if c.size > largest {
			largest = c.size
		}
	}

	var parts []string
	for _, c := range candidates {
		if c.size == largest {
			parts = append(parts, c.text)
		}
	}
	return strings.Join(parts, " ")
}

package extract

import "github.com/dgallion1/docscan/internal/doctree"

const (
	black doctree.Color = 0x000000
	blue  doctree.Color = 0x0000FF
)

func run(text string, size float64, color doctree.Color) doctree.Run {
	return doctree.Run{Text: text, FontSize: size, Color: color}
}

// block puts each run on its own line.
func block(runs ...doctree.Run) []doctree.Run {
	return runs
}

// docOf builds a one-page document and fills in run positions.
func docOf(blocks ...[]doctree.Run) *doctree.Document {
	page := doctree.Page{Index: 0}
	for bi, runs := range blocks {
		b := doctree.Block{Index: bi, Type: doctree.BlockText}
		for li, r := range runs {
			r.Page, r.Block, r.Line = 0, bi, li
			b.Lines = append(b.Lines, doctree.Line{Index: li, Runs: []doctree.Run{r}})
		}
		page.Blocks = append(page.Blocks, b)
	}
	return &doctree.Document{Pages: []doctree.Page{page}}
}

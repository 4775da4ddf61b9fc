package doctree

// File is one uploaded document.
type File struct {
	Name string
	Data []byte
}

// BlockType discriminates page blocks. Only text blocks carry lines.
type BlockType int

const (
	BlockText  BlockType = 0
	BlockImage BlockType = 1
)

// Color is an opaque, comparable text fill color (packed 0xRRGGBB).
type Color uint32

// Run is the smallest unit of styled text: one font, size and color.
type Run struct {
	Text     string
	FontSize float64
	Color    Color
	FontName string

	Page  int
	Block int
	Line  int
}

// Line is an ordered sequence of runs sharing a baseline.
type Line struct {
	Index int
	Runs  []Run
}

// Block is a group of vertically adjacent lines, or a non-text element.
type Block struct {
	Index int
	Type  BlockType
	Lines []Line
}

// Page holds blocks in the order the content stream emitted them.
type Page struct {
	Index  int
	Blocks []Block
}

// Document is the styled-text view of a PDF. It is never mutated after extraction,
// so one instance may be shared by concurrent readers.
type Document struct {
	Pages []Page
}

// Runs returns every run of every text block in document order.
func (d *Document) Runs() []Run {
	var out []Run
	for _, p := range d.Pages {
		out = append(out, p.Runs()...)
	}
	return out
}

// Runs returns the page's text-block runs in order.
func (p Page) Runs() []Run {
	var out []Run
	for _, b := range p.Blocks {
		if b.Type != BlockText {
			continue
		}
		for _, l := range b.Lines {
			out = append(out, l.Runs...)
		}
	}
	return out
}

// Package span turns PDF pages into ordered, styled text runs.
//
// It walks each page's content stream and tracks just enough graphics and
// text state to annotate every shown string with its effective font size,
// fill color and font name. Runs are grouped into lines (shared baseline)
// and blocks (vertically adjacent lines); the content stream order is kept
// as-is and nothing is re-sorted by geometry.
package span

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/dgallion1/docscan/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	// blockGap is the largest baseline drop, in multiples of the font size,
	// that still continues the current block.
	blockGap = 1.5
	// wordGap is the smallest horizontal gap between two shows on one
	// baseline, in multiples of the font size, that separates words.
	wordGap = 0.2
	// maxFormDepth bounds nested form XObjects.
	maxFormDepth = 8
)

// Extract parses PDF bytes into a styled-text document.
func Extract(data []byte) (doc *doctree.Document, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc = &doctree.Document{}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		doc.Pages = append(doc.Pages, ExtractPage(page, i-1))
	}
	return doc, nil
}

// ExtractPage returns the blocks, lines and runs of a single page.
func ExtractPage(page pdflib.Page, index int) doctree.Page {
	w := newPageWalker(page, index)
	strm := page.V.Key("Contents")
	if strm.Kind() == pdflib.Array {
		for i := 0; i < strm.Len(); i++ {
			w.interpret(strm.Index(i))
		}
	} else {
		w.interpret(strm)
	}
	return w.out
}

type gstate struct {
	ctm       matrix
	fill      doctree.Color
	font      string // resource name
	size      float64
	leading   float64
	charSpace float64
	wordSpace float64
	hscale    float64 // Tz / 100
}

// fontKey names a font resource within one resource dictionary; forms get
// their own scope.
type fontKey struct {
	scope int
	name  string
}

type fontInfo struct {
	enc   pdflib.TextEncoding
	base  string
	width glyphWidths // nil when the font has no metrics
}

type pageWalker struct {
	page pdflib.Page

	gs    gstate
	stack []gstate
	tm    matrix
	tlm   matrix

	res       pdflib.Value
	scope     int
	nextScope int
	depth     int
	fonts     map[fontKey]*fontInfo

	out      doctree.Page
	hasLine  bool
	lineY    float64
	lineSize float64
	hasEnd   bool
	lastEndX float64
}

func newPageWalker(page pdflib.Page, index int) *pageWalker {
	return &pageWalker{
		page:  page,
		gs:    gstate{ctm: identity, hscale: 1},
		tm:    identity,
		tlm:   identity,
		res:   page.Resources(),
		fonts: make(map[fontKey]*fontInfo),
		out:   doctree.Page{Index: index},
	}
}

func (w *pageWalker) interpret(strm pdflib.Value) {
	if strm.IsNull() {
		return
	}
	pdflib.Interpret(strm, func(stk *pdflib.Stack, op string) {
		n := stk.Len()
		args := make([]pdflib.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		w.do(op, args)
	})
}

func (w *pageWalker) do(op string, args []pdflib.Value) {
	switch op {
	case "q":
		w.stack = append(w.stack, w.gs)
	case "Q":
		if n := len(w.stack); n > 0 {
			w.gs = w.stack[n-1]
			w.stack = w.stack[:n-1]
		}
	case "cm":
		if m, ok := matrixFromArgs(args); ok {
			w.gs.ctm = m.mult(w.gs.ctm)
		}

	case "g":
		if len(args) == 1 {
			w.gs.fill = grayColor(args[0].Float64())
		}
	case "rg":
		if len(args) == 3 {
			w.gs.fill = rgbColor(args[0].Float64(), args[1].Float64(), args[2].Float64())
		}
	case "k":
		if len(args) == 4 {
			w.gs.fill = cmykColor(args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64())
		}
	case "sc", "scn":
		w.gs.fill = colorFromComponents(numbers(args), w.gs.fill)
	case "cs":
		w.gs.fill = 0

	case "BT":
		w.tm = identity
		w.tlm = identity
	case "Tf":
		if len(args) == 2 {
			w.gs.font = args[0].Name()
			w.gs.size = args[1].Float64()
		}
	case "TL":
		if len(args) == 1 {
			w.gs.leading = args[0].Float64()
		}
	case "Tc":
		if len(args) == 1 {
			w.gs.charSpace = args[0].Float64()
		}
	case "Tw":
		if len(args) == 1 {
			w.gs.wordSpace = args[0].Float64()
		}
	case "Tz":
		if len(args) == 1 {
			w.gs.hscale = args[0].Float64() / 100
		}
	case "Td":
		if len(args) == 2 {
			w.translate(args[0].Float64(), args[1].Float64())
		}
	case "TD":
		if len(args) == 2 {
			w.gs.leading = -args[1].Float64()
			w.translate(args[0].Float64(), args[1].Float64())
		}
	case "Tm":
		if m, ok := matrixFromArgs(args); ok {
			w.tm = m
			w.tlm = m
		}
	case "T*":
		w.translate(0, -w.gs.leading)
	case "Tj":
		if len(args) == 1 {
			w.showString(args[0].RawString())
		}
	case "'":
		if len(args) == 1 {
			w.translate(0, -w.gs.leading)
			w.showString(args[0].RawString())
		}
	case "\"":
		if len(args) == 3 {
			w.gs.wordSpace = args[0].Float64()
			w.gs.charSpace = args[1].Float64()
			w.translate(0, -w.gs.leading)
			w.showString(args[2].RawString())
		}
	case "TJ":
		if len(args) == 1 {
			w.showArray(args[0])
		}

	case "Do":
		if len(args) == 1 {
			w.xobject(args[0].Name())
		}
	case "BI":
		w.imageBlock()
	}
}

func (w *pageWalker) translate(tx, ty float64) {
	w.tlm = matrix{1, 0, 0, 1, tx, ty}.mult(w.tlm)
	w.tm = w.tlm
}

// showString shows one string operand.
func (w *pageWalker) showString(raw string) {
	text := w.decode(raw)
	w.show(text, w.advance(raw, text))
}

// showArray flattens a TJ array. Large negative adjustments are word gaps.
func (w *pageWalker) showArray(arr pdflib.Value) {
	var (
		out []byte
		adv float64
	)
	for i := 0; i < arr.Len(); i++ {
		v := arr.Index(i)
		switch v.Kind() {
		case pdflib.String:
			raw := v.RawString()
			text := w.decode(raw)
			out = append(out, text...)
			adv += w.advance(raw, text)
		case pdflib.Integer, pdflib.Real:
			n := v.Float64()
			adv -= n / 1000 * w.gs.size * w.gs.hscale
			if n < -200 && len(out) > 0 && out[len(out)-1] != ' ' {
				out = append(out, ' ')
			}
		}
	}
	w.show(string(out), adv)
}

// advance is the horizontal displacement, in text space, of showing raw.
func (w *pageWalker) advance(raw, text string) float64 {
	var glyphs float64
	if f := w.font(); f != nil && f.width != nil {
		glyphs = f.width(raw)
	} else {
		glyphs = estimateWidth(text)
	}
	tx := glyphs / 1000 * w.gs.size
	tx += w.gs.charSpace * float64(len(raw))
	tx += w.gs.wordSpace * float64(strings.Count(raw, " "))
	return tx * w.gs.hscale
}

// show places one decoded string at the current text position and moves
// the text position past it.
func (w *pageWalker) show(text string, adv float64) {
	trm := w.tm.mult(w.gs.ctm)
	w.tm = matrix{1, 0, 0, 1, adv, 0}.mult(w.tm)
	if text == "" {
		return
	}
	size := w.gs.size * math.Hypot(trm[2], trm[3])
	if size == 0 {
		size = w.gs.size
	}
	startX := trm[4]
	sameLine := w.place(trm[5], size)
	spaced := sameLine && w.hasEnd && startX-w.lastEndX > wordGap*size
	w.lastEndX = w.tm.mult(w.gs.ctm)[4]
	w.hasEnd = true

	b := &w.out.Blocks[len(w.out.Blocks)-1]
	l := &b.Lines[len(b.Lines)-1]
	fontName := w.baseFont()

	if n := len(l.Runs); n > 0 {
		last := &l.Runs[n-1]
		if last.FontName == fontName && last.FontSize == size && last.Color == w.gs.fill {
			if spaced && !strings.HasSuffix(last.Text, " ") && !strings.HasPrefix(text, " ") {
				last.Text += " "
			}
			last.Text += text
			return
		}
	}
	l.Runs = append(l.Runs, doctree.Run{
		Text:     text,
		FontSize: size,
		Color:    w.gs.fill,
		FontName: fontName,
		Page:     w.out.Index,
		Block:    b.Index,
		Line:     l.Index,
	})
}

// place makes sure the current line is the one at baseline y and reports
// whether that line was already current.
func (w *pageWalker) place(y, size float64) bool {
	tol := math.Max(1, 0.25*size)
	switch {
	case w.hasLine && math.Abs(y-w.lineY) <= tol:
		w.lineSize = math.Max(w.lineSize, size)
		return true
	case w.hasLine && w.lineY-y > 0 && w.lineY-y <= blockGap*math.Max(size, w.lineSize):
		b := &w.out.Blocks[len(w.out.Blocks)-1]
		b.Lines = append(b.Lines, doctree.Line{Index: len(b.Lines)})
	default:
		w.out.Blocks = append(w.out.Blocks, doctree.Block{
			Index: len(w.out.Blocks),
			Type:  doctree.BlockText,
			Lines: []doctree.Line{{Index: 0}},
		})
	}
	w.hasLine = true
	w.hasEnd = false
	w.lineY = y
	w.lineSize = size
	return false
}

func (w *pageWalker) imageBlock() {
	w.out.Blocks = append(w.out.Blocks, doctree.Block{
		Index: len(w.out.Blocks),
		Type:  doctree.BlockImage,
	})
	w.hasLine = false
	w.hasEnd = false
}

func (w *pageWalker) xobject(name string) {
	xobj := w.res.Key("XObject").Key(name)
	switch xobj.Key("Subtype").Name() {
	case "Image":
		w.imageBlock()
	case "Form":
		w.form(xobj)
	}
}

// form interprets a form XObject's content with its own matrix and
// resources. Graphics and text state are restored afterwards.
func (w *pageWalker) form(xobj pdflib.Value) {
	if w.depth >= maxFormDepth {
		return
	}
	savedGS, savedStack := w.gs, len(w.stack)
	savedTM, savedTLM := w.tm, w.tlm
	savedRes, savedScope := w.res, w.scope

	if m, ok := matrixFromValue(xobj.Key("Matrix")); ok {
		w.gs.ctm = m.mult(w.gs.ctm)
	}
	if res := xobj.Key("Resources"); !res.IsNull() {
		w.res = res
		w.nextScope++
		w.scope = w.nextScope
	}

	w.depth++
	w.interpret(xobj)
	w.depth--

	w.gs = savedGS
	w.stack = w.stack[:savedStack]
	w.tm, w.tlm = savedTM, savedTLM
	w.res, w.scope = savedRes, savedScope
}

func (w *pageWalker) decode(raw string) string {
	f := w.font()
	if f == nil || f.enc == nil {
		return raw
	}
	return f.enc.Decode(raw)
}

// font resolves the current font in the active resource scope, falling back
// to the page resources for forms that inherit the font.
func (w *pageWalker) font() *fontInfo {
	name := w.gs.font
	if name == "" {
		return nil
	}
	key := fontKey{scope: w.scope, name: name}
	if f, ok := w.fonts[key]; ok {
		return f
	}
	v := w.res.Key("Font").Key(name)
	if v.IsNull() && w.scope != 0 {
		v = w.page.Resources().Key("Font").Key(name)
	}
	pf := pdflib.Font{V: v}
	f := &fontInfo{
		enc:   pf.Encoder(),
		base:  pf.BaseFont(),
		width: fontWidths(pf),
	}
	w.fonts[key] = f
	return f
}

func (w *pageWalker) baseFont() string {
	if f := w.font(); f != nil {
		return f.base
	}
	return ""
}

func numbers(args []pdflib.Value) []float64 {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		if k := a.Kind(); k == pdflib.Integer || k == pdflib.Real {
			out = append(out, a.Float64())
		}
	}
	return out
}

package span

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	pdflib "github.com/ledongthuc/pdf"
)

// defaultGlyphWidth is the advance, in 1/1000 em, assumed for glyphs whose
// font carries no usable metrics.
const defaultGlyphWidth = 500

// glyphWidths returns the summed advance of the codes in raw, in 1/1000 em.
type glyphWidths func(raw string) float64

// fontWidths picks the width source for a font: its own /Widths array for
// simple fonts, the built-in metrics of the standard 14 fonts, or nil when
// neither is available.
func fontWidths(f pdflib.Font) glyphWidths {
	if f.V.Key("Subtype").Name() == "Type0" {
		return nil
	}
	if f.V.Key("Widths").Len() > 0 {
		missing := f.V.Key("FontDescriptor").Key("MissingWidth").Float64()
		if missing <= 0 {
			missing = defaultGlyphWidth
		}
		return func(raw string) float64 {
			var w float64
			for i := 0; i < len(raw); i++ {
				cw := f.Width(int(raw[i]))
				if cw <= 0 {
					cw = missing
				}
				w += cw
			}
			return w
		}
	}
	if table := coreWidths(f.BaseFont()); table != nil {
		return func(raw string) float64 {
			var w float64
			for i := 0; i < len(raw); i++ {
				w += table[raw[i]]
			}
			return w
		}
	}
	return nil
}

// estimateWidth is used when a font has no metrics at all.
func estimateWidth(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * defaultGlyphWidth
}

var (
	coreMu     sync.Mutex
	coreTables = map[string]*[256]float64{}
)

// coreWidths returns per-code widths for a standard 14 font, loaded from
// the metrics gofpdf embeds. It returns nil for any other font.
func coreWidths(baseFont string) *[256]float64 {
	family, style, ok := coreFamily(baseFont)
	if !ok {
		return nil
	}

	coreMu.Lock()
	defer coreMu.Unlock()
	key := family + style
	if t, ok := coreTables[key]; ok {
		return t
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont(family, style, 1000)
	if pdf.Err() {
		coreTables[key] = nil
		return nil
	}
	t := new([256]float64)
	for code := 1; code < 256; code++ {
		t[code] = float64(pdf.GetStringSymbolWidth(string([]byte{byte(code)})))
	}
	coreTables[key] = t
	return t
}

// coreFamily maps a PostScript base font name such as "Times-BoldItalic" to
// a gofpdf core family and style.
func coreFamily(baseFont string) (family, style string, ok bool) {
	name := baseFont
	if i := strings.IndexByte(name, '+'); i == 6 {
		name = name[i+1:] // subset tag
	}
	base, variant, _ := strings.Cut(name, "-")
	switch base {
	case "Helvetica", "Arial", "ArialMT":
		family = "helvetica"
	case "Times", "TimesNewRoman", "TimesNewRomanPSMT":
		family = "times"
	case "Courier", "CourierNew", "CourierNewPSMT":
		family = "courier"
	case "Symbol":
		return "symbol", "", true
	case "ZapfDingbats":
		return "zapfdingbats", "", true
	default:
		return "", "", false
	}
	if strings.Contains(variant, "Bold") {
		style += "B"
	}
	if strings.Contains(variant, "Italic") || strings.Contains(variant, "Oblique") {
		style += "I"
	}
	return family, style, true
}

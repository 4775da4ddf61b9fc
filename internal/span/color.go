package span

import (
	"math"

	"github.com/dgallion1/docscan/internal/doctree"
)

func channel(v float64) uint32 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint32(math.Round(v * 255))
}

func rgbColor(r, g, b float64) doctree.Color {
	return doctree.Color(channel(r)<<16 | channel(g)<<8 | channel(b))
}

func grayColor(g float64) doctree.Color {
	return rgbColor(g, g, g)
}

func cmykColor(c, m, y, k float64) doctree.Color {
	return rgbColor((1-c)*(1-k), (1-m)*(1-k), (1-y)*(1-k))
}

// colorFromComponents interprets sc/scn operands by their count. Pattern
// and other non-numeric color spaces keep the previous color.
func colorFromComponents(c []float64, prev doctree.Color) doctree.Color {
	switch len(c) {
	case 1:
		return grayColor(c[0])
	case 3:
		return rgbColor(c[0], c[1], c[2])
	case 4:
		return cmykColor(c[0], c[1], c[2], c[3])
	}
	return prev
}

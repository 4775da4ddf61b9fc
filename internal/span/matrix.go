package span

import pdflib "github.com/ledongthuc/pdf"

// matrix is a PDF affine transform [a b c d e f]; the last column is implicitly 0 0 1.
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mult returns a×b.
func (a matrix) mult(b matrix) matrix {
	return matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

func matrixFromArgs(args []pdflib.Value) (matrix, bool) {
	if len(args) != 6 {
		return matrix{}, false
	}
	var m matrix
	for i, a := range args {
		m[i] = a.Float64()
	}
	return m, true
}

// matrixFromValue reads a six-number array such as a form's /Matrix.
func matrixFromValue(v pdflib.Value) (matrix, bool) {
	if v.Kind() != pdflib.Array || v.Len() != 6 {
		return matrix{}, false
	}
	var m matrix
	for i := range m {
		m[i] = v.Index(i).Float64()
	}
	return m, true
}

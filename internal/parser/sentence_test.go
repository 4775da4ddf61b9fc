package parser

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "No period here", []string{"No period here"}},
		{"two sentences", "One. Two.", []string{"One.", "Two."}},
		{"multiple spaces and tabs", "One.  \tTwo", []string{"One.", "Two"}},
		{"period without space", "v1.2 is out", []string{"v1.2 is out"}},
		{"trailing break", "End. ", []string{"End.", ""}},
		{"ellipsis", "Wait.. what", []string{"Wait..", "what"}},
		{"empty", "", []string{""}},
		{"newline counts as whitespace", "A.\nB", []string{"A.", "B"}},
		{"no-break space", "One.\u00a0Two", []string{"One.", "Two"}},
		{"line separator", "One.\u2028Two", []string{"One.", "Two"}},
		{"ideographic space", "One.\u3000Two", []string{"One.", "Two"}},
		{"next line", "One.\u0085Two", []string{"One.", "Two"}},
		{"vertical tab", "One.\vTwo", []string{"One.", "Two"}},
		{"mixed run", "One. \u00a0\u2009Two", []string{"One.", "Two"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitSentences(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

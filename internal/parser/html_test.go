package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestHTMLParser_Lines(t *testing.T) {
	input := `<html><head><title>Ignored</title><style>p { color: red }</style></head>
<body>
<h1>Main   Heading</h1>
<p>First sentence. Second
   sentence.</p>
<script>var x = "hidden";</script>
<ul><li>item <b>one</b></li><li>item two</li></ul>
<table><tr><td>cell</td></tr></table>
</body></html>`
	p := &HTMLParser{}
	lines, err := p.Lines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"Main Heading",
		"First sentence.",
		"Second sentence.",
		"item one",
		"item two",
		"cell",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("expected %q, got %q", want, lines)
	}
}

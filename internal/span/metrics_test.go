package span

import "testing"

func TestCoreFamily(t *testing.T) {
	tests := []struct {
		base   string
		family string
		style  string
		ok     bool
	}{
		{"Helvetica", "helvetica", "", true},
		{"Helvetica-BoldOblique", "helvetica", "BI", true},
		{"ABCDEF+Arial-BoldMT", "helvetica", "B", true},
		{"Times-Italic", "times", "I", true},
		{"Courier-Bold", "courier", "B", true},
		{"ZapfDingbats", "zapfdingbats", "", true},
		{"Calibri", "", "", false},
	}
	for _, tt := range tests {
		family, style, ok := coreFamily(tt.base)
		if family != tt.family || style != tt.style || ok != tt.ok {
			t.Errorf("%s: expected (%q, %q, %v), got (%q, %q, %v)",
				tt.base, tt.family, tt.style, tt.ok, family, style, ok)
		}
	}
}

func TestCoreWidths(t *testing.T) {
	table := coreWidths("Helvetica")
	if table == nil {
		t.Fatal("expected Helvetica metrics")
	}
	if table['A'] != 667 {
		t.Errorf("expected width 667 for 'A', got %v", table['A'])
	}
	if table[' '] != 278 {
		t.Errorf("expected width 278 for space, got %v", table[' '])
	}
	if coreWidths("Calibri") != nil {
		t.Error("expected no metrics for a non-standard font")
	}
}

func TestEstimateWidth(t *testing.T) {
	if got := estimateWidth("héllo"); got != 5*defaultGlyphWidth {
		t.Errorf("expected %d, got %v", 5*defaultGlyphWidth, got)
	}
}

package parser

import (
	"archive/zip"
	"bytes"
	"reflect"
	"strings"
	"testing"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docxDocRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
 xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"
 xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape"
 xmlns:v="urn:schemas-microsoft-com:vml">
<w:body>
<w:p><w:r><w:t>First paragraph. Second sentence.</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">   </w:t></w:r></w:p>
<w:tbl>
<w:tr>
<w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>
<w:tc><w:p></w:p></w:tc>
<w:tc><w:p><w:r><w:t>Score</w:t></w:r></w:p></w:tc>
</w:tr>
<w:tr>
<w:tc><w:p><w:r><w:t>Alice</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:t>x</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:t>10</w:t></w:r></w:p></w:tc>
</w:tr>
</w:tbl>
<w:p><w:r><mc:AlternateContent>
<mc:Choice Requires="wps"><w:drawing><wps:txbx><w:txbxContent><w:p><w:r><w:t>Boxed note.</w:t></w:r></w:p></w:txbxContent></wps:txbx></w:drawing></mc:Choice>
<mc:Fallback><w:pict><v:textbox><w:txbxContent><w:p><w:r><w:t>Boxed note.</w:t></w:r></w:p></w:txbxContent></v:textbox></w:pict></mc:Fallback>
</mc:AlternateContent></w:r></w:p>
<w:p><w:r><w:t>Closing words</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildDOCX(t *testing.T, document string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRootRels},
		{"word/_rels/document.xml.rels", docxDocRels},
		{"word/document.xml", document},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("create %s: %v", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			t.Fatalf("write %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDOCXParser_Lines(t *testing.T) {
	p := &DOCXParser{}
	lines, err := p.Lines(bytes.NewReader(buildDOCX(t, docxBody)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"First paragraph.",
		"Second sentence.",
		"Closing words",
		"Name    Score",
		"Alice    x    10",
		"Boxed note.",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("expected %q, got %q", want, lines)
	}
}

func TestDOCXParser_NotAZip(t *testing.T) {
	p := &DOCXParser{}
	_, err := p.Lines(strings.NewReader("definitely not a docx"))
	if err == nil {
		t.Fatal("expected error for malformed docx")
	}
}

func TestTextBoxParagraphs_SkipsFallbackCopy(t *testing.T) {
	boxes, err := textBoxParagraphs(buildDOCX(t, docxBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boxes) != 1 || boxes[0] != "Boxed note." {
		t.Errorf("expected one text box paragraph, got %q", boxes)
	}
}

func TestDOCXParser_InlineContent(t *testing.T) {
	tests := []struct {
		name string
		para string
		want []string
	}{
		{
			name: "hyperlink runs",
			para: `<w:p><w:r><w:t xml:space="preserve">See </w:t></w:r><w:hyperlink w:anchor="results"><w:r><w:t>the results</w:t></w:r></w:hyperlink><w:r><w:t xml:space="preserve"> table</w:t></w:r></w:p>`,
			want: []string{"See the results table"},
		},
		{
			name: "tab",
			para: `<w:p><w:r><w:t>Name</w:t><w:tab/><w:t>Score</w:t></w:r></w:p>`,
			want: []string{"Name\tScore"},
		},
		{
			name: "line break",
			para: `<w:p><w:r><w:t>Line one</w:t><w:br/><w:t>line two</w:t></w:r></w:p>`,
			want: []string{"Line one\nline two"},
		},
		{
			name: "break after period splits sentences",
			para: `<w:p><w:r><w:t>Done.</w:t><w:br/><w:t>Next</w:t></w:r></w:p>`,
			want: []string{"Done.", "Next"},
		},
	}
	p := &DOCXParser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
				tt.para + `</w:body></w:document>`
			lines, err := p.Lines(bytes.NewReader(buildDOCX(t, doc)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(lines, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, lines)
			}
		})
	}
}

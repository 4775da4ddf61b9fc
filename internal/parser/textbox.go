package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// textBoxParagraphs returns the trimmed, non-empty paragraphs found inside
// w:txbxContent elements of the main document part. Text boxes are written
// twice by Word (DrawingML and a VML fallback); content under mc:Fallback is
// skipped so each paragraph is reported once.
func textBoxParagraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("missing %s", documentPart)
	}
	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()

	var (
		out         []string
		fallback    int
		boxDepth    int
		inParagraph bool
		inText      bool
		para        strings.Builder
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPart, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Fallback":
				fallback++
			case "txbxContent":
				if fallback == 0 {
					boxDepth++
				}
			case "p":
				if boxDepth > 0 && fallback == 0 {
					inParagraph = true
					para.Reset()
				}
			case "t":
				inText = inParagraph
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "Fallback":
				fallback--
			case "txbxContent":
				if fallback == 0 && boxDepth > 0 {
					boxDepth--
				}
			case "p":
				if inParagraph {
					if text := strings.TrimSpace(para.String()); text != "" {
						out = append(out, text)
					}
					inParagraph = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return out, nil
}

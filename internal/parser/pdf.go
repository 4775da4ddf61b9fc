package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docscan/internal/doctree"
	"github.com/dgallion1/docscan/internal/span"
)

var errNoText = errors.New("no extractable text")

// PDFParser handles PDF files. It reads styled runs with the span extractor
// first, then falls back to pdftotext if enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Lines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	doc, err := span.Extract(data)
	if err == nil {
		if lines := DocumentLines(doc); len(lines) > 0 {
			return lines, nil
		}
		err = errNoText
	}
	if !p.FallbackPdftotext {
		if errors.Is(err, errNoText) {
			return nil, nil
		}
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	text, ferr := extractPdftotext(data)
	if ferr != nil {
		return nil, fmt.Errorf("extract pdf text: %w", errors.Join(err, ferr))
	}
	return joinAndSplit(SplitLines(text)), nil
}

// DocumentLines flattens an extracted PDF: the trimmed runs of each text line
// are joined by a space, all non-empty lines are joined by a space, and the
// result is split into sentences.
func DocumentLines(doc *doctree.Document) []string {
	var lines []string
	for _, page := range doc.Pages {
		for _, block := range page.Blocks {
			if block.Type != doctree.BlockText {
				continue
			}
			for _, line := range block.Lines {
				var parts []string
				for _, r := range line.Runs {
					if t := strings.TrimSpace(r.Text); t != "" {
						parts = append(parts, t)
					}
				}
				if len(parts) > 0 {
					lines = append(lines, strings.Join(parts, " "))
				}
			}
		}
	}
	return joinAndSplit(lines)
}

func joinAndSplit(lines []string) []string {
	var kept []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return SplitSentences(strings.Join(kept, " "))
}

func extractPdftotext(data []byte) (string, error) {
	// pdftotext wants a seekable file.
	tmp, err := os.CreateTemp("", "docscan-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", tmpPath, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

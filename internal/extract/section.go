package extract

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/docscan/internal/doctree"
)

// State is the position of the heading scanner within a document.
type State int

const (
	SeekingHeading State = iota
	CapturingSignature
	Accumulating
	Done
)

func (s State) String() string {
	switch s {
	case SeekingHeading:
		return "seeking_heading"
	case CapturingSignature:
		return "capturing_signature"
	case Accumulating:
		return "accumulating"
	case Done:
		return "done"
	}
	return "unknown"
}

// Signature is the font size and color of the first body run after a heading.
type Signature struct {
	FontSize int
	Color    doctree.Color
}

// SignatureOf returns the run's signature with the size rounded half to even.
func SignatureOf(r doctree.Run) Signature {
	return Signature{FontSize: roundSize(r.FontSize), Color: r.Color}
}

// Continues reports whether a non-empty run belongs to the section opened by sig.
// An all-uppercase run at body size only continues when it also keeps the body
// color; otherwise it reads as a run-in sub-heading.
func Continues(sig Signature, r doctree.Run) bool {
	if roundSize(r.FontSize) != sig.FontSize {
		return false
	}
	return !isUpper(strings.TrimSpace(r.Text)) || r.Color == sig.Color
}

type blockRef struct {
	page, block int
}

// scan is the complete scanner state. step returns a new value and never
// mutates its receiver.
type scan struct {
	State State
	Sig   Signature
	Body  []string

	blocks    int
	lastBlock blockRef
}

// step feeds one run to the scanner. lineStart marks the first non-empty run of a line.
func (s scan) step(r doctree.Run, lineStart bool, heading *regexp.Regexp, maxBlocks int) scan {
	text := strings.TrimSpace(r.Text)

	switch s.State {
	case SeekingHeading:
		if lineStart && text != "" && heading.MatchString(strings.ToLower(text)) {
			s.State = CapturingSignature
		}
	case CapturingSignature:
		if text == "" {
			return s
		}
		s.Sig = SignatureOf(r)
		s.State = Accumulating
		return s.accumulate(r, text, maxBlocks)
	case Accumulating:
		if text == "" {
			s.State = Done
			return s
		}
		return s.accumulate(r, text, maxBlocks)
	}
	return s
}

func (s scan) accumulate(r doctree.Run, text string, maxBlocks int) scan {
	if !Continues(s.Sig, r) {
		s.State = Done
		return s
	}
	ref := blockRef{page: r.Page, block: r.Block}
	if s.blocks == 0 || ref != s.lastBlock {
		if s.blocks >= maxBlocks {
			s.State = Done
			return s
		}
		s.blocks++
		s.lastBlock = ref
	}
	s.Body = append(s.Body[:len(s.Body):len(s.Body)], text)
	return s
}

func (s scan) paragraph() string {
	return strings.TrimSpace(strings.Join(s.Body, " "))
}

// HeadingPattern matches a line that starts with the literal heading,
// optionally followed by a colon and anything else.
func HeadingPattern(heading string) *regexp.Regexp {
	h := regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(heading)))
	return regexp.MustCompile("(?i)^" + h + "[:]?.*")
}

// FindSection walks the document's text blocks and returns the body text
// that follows heading, or "" when the heading is absent or has no body.
func FindSection(doc *doctree.Document, heading string, opts Options) string {
	opts = opts.withDefaults()
	re := HeadingPattern(heading)

	s := scan{}
	for _, page := range doc.Pages {
		for _, block := range page.Blocks {
			if block.Type != doctree.BlockText {
				continue
			}
			for _, line := range block.Lines {
				seenText := false
				for _, r := range line.Runs {
					lineStart := false
					if !seenText && strings.TrimSpace(r.Text) != "" {
						lineStart = true
						seenText = true
					}
					s = s.step(r, lineStart, re, opts.MaxBodyBlocks)
					if s.State == Done {
						return s.paragraph()
					}
				}
			}
		}
	}
	return s.paragraph()
}

func roundSize(size float64) int {
	return int(math.RoundToEven(size))
}

// isUpper reports whether s has at least one cased letter and no lowercase or
// titlecase letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

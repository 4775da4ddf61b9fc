// Package matcher applies a case-insensitive pattern to line chunks and
// reassembles the per-chunk results.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/docscan/internal/chunker"
)

// Match is one matching line.
type Match struct {
	LineNumber int    `json:"lineNumber"`
	Line       string `json:"line"`
	FileName   string `json:"fileName"`
}

// Compile builds the case-insensitive form of pattern.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	return re, nil
}

// MatchChunk returns the lines of c that re matches anywhere, numbered
// from c.Start and trimmed. The result is never nil.
func MatchChunk(c chunker.Chunk, re *regexp.Regexp, fileName string) []Match {
	out := []Match{}
	for i, line := range c.Lines {
		if re.MatchString(line) {
			out = append(out, Match{
				LineNumber: c.Start + i,
				Line:       strings.TrimSpace(line),
				FileName:   fileName,
			})
		}
	}
	return out
}

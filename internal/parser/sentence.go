package parser

import "regexp"

// sentenceBreak treats Unicode spaces and separators as whitespace, not only
// the ASCII set \s matches.
var sentenceBreak = regexp.MustCompile(`\.[\s\v\x1c-\x1f\x{85}\p{Z}]+`)

// SplitSentences cuts s after every period that is followed by whitespace.
// The period stays with the sentence it ends; the whitespace is dropped.
// A trailing break leaves an empty final element.
func SplitSentences(s string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(s, -1) {
		out = append(out, s[last:loc[0]+1])
		last = loc[1]
	}
	return append(out, s[last:])
}

// splitAll applies SplitSentences to every line in order.
func splitAll(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, SplitSentences(l)...)
	}
	return out
}

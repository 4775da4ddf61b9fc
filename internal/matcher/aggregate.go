package matcher

import "slices"

// FileMatches groups the matches of one file. Error is set instead of
// Matches when the file could not be read.
type FileMatches struct {
	FileName string  `json:"fileName"`
	Matches  []Match `json:"matches"`
	Error    string  `json:"error,omitempty"`
}

// Aggregate concatenates chunk results, which may arrive in any order, and
// stable-sorts them by line number.
func Aggregate(parts ...[]Match) []Match {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Match, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	slices.SortStableFunc(out, func(a, b Match) int {
		return a.LineNumber - b.LineNumber
	})
	return out
}

// Failed returns the record for a file that produced an error.
func Failed(fileName string, err error) FileMatches {
	return FileMatches{FileName: fileName, Matches: []Match{}, Error: err.Error()}
}

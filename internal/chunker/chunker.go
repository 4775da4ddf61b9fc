// Package chunker splits a file's lines into contiguous pieces for parallel
// matching.
package chunker

// Chunk is a contiguous run of lines. Start is the 1-based line number of
// Lines[0] in the original file.
type Chunk struct {
	Start int
	Lines []string
}

// Next returns the line number that follows the chunk's last line.
func (c Chunk) Next() int {
	return c.Start + len(c.Lines)
}

// Size returns the chunk length for total lines over p workers: ceil(total/p),
// never below 1. A non-positive p is treated as 1.
func Size(total, p int) int {
	if p < 1 {
		p = 1
	}
	size := (total + p - 1) / p
	if size < 1 {
		size = 1
	}
	return size
}

// Partition splits lines into at most p contiguous chunks of Size(len(lines), p)
// lines; the last one may be shorter. Chunks share the backing array of lines.
// An empty input produces no chunks.
func Partition(lines []string, p int) []Chunk {
	if len(lines) == 0 {
		return nil
	}
	size := Size(len(lines), p)

	chunks := make([]Chunk, 0, (len(lines)+size-1)/size)
	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))
		chunks = append(chunks, Chunk{Start: start + 1, Lines: lines[start:end:end]})
	}
	return chunks
}

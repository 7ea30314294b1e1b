package search

import "strings"

// SplitLines splits file content into raw lines on "\n".
// Carriage returns are kept so lines match the chunk text byte for byte.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// Locate maps a chunk back to a 1-based inclusive line range in its file.
// Every non-blank line that occurs verbatim inside the chunk counts as a
// match; the range spans the first to the last match, including any lines
// between them. A chunk that matches no line resolves to (1, 1).
//
// Short lines can match unrelated chunks and repeated lines are not told
// apart by position, so the range is approximate.
func Locate(chunkText string, fileLines []string) (start, end int) {
	for i, line := range fileLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.Contains(chunkText, line) {
			continue
		}
		n := i + 1
		if start == 0 {
			start = n
		}
		end = n
	}

	if start == 0 {
		return 1, 1
	}
	return start, end
}

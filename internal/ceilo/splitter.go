package ceilo

import (
	"fmt"
	"strings"
)

// splitLines breaks raw file content into lines without terminators.
// A single trailing empty element from a final newline is dropped so it is
// not mistaken for a sentinel.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" && strings.HasSuffix(content, "\n") {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// isBlank reports whether a line is a message-block sentinel.
func isBlank(line string) bool {
	return line == ""
}

// blankIndices returns the positions of all sentinel lines.
func blankIndices(lines []string) []int {
	var idx []int
	for i, line := range lines {
		if isBlank(line) {
			idx = append(idx, i)
		}
	}
	return idx
}

// splitColumns reassembles the message blocks column-wise: column k holds,
// for every block, the line k positions after that block's sentinel. The
// number of columns is fixed by the spacing of the first two sentinels, so
// every block must carry the same line count.
func splitColumns(lines []string) ([][]string, error) {
	blanks := blankIndices(lines)
	if len(blanks) < 2 {
		return nil, fmt.Errorf("%w: found %d blank-line sentinels, need at least 2", ErrMalformedFile, len(blanks))
	}
	perBlock := blanks[1] - blanks[0] - 1
	if perBlock < 1 {
		return nil, fmt.Errorf("%w: consecutive blank lines at %d and %d leave no data lines", ErrMalformedFile, blanks[0], blanks[1])
	}

	cols := make([][]string, perBlock)
	for k := 0; k < perBlock; k++ {
		col := make([]string, len(blanks))
		for b, sentinel := range blanks {
			i := sentinel + 1 + k
			if i >= len(lines) {
				return nil, fmt.Errorf("%w: block starting at line %d truncated (want %d data lines)", ErrMalformedFile, sentinel+1, perBlock)
			}
			col[b] = lines[i]
		}
		cols[k] = col
	}
	return cols, nil
}

// detectModel classifies the file from the 4-character signature at offset 1
// of header line 1, which is the second line after the first sentinel (the
// first is the logger timestamp).
func detectModel(lines []string) (Model, error) {
	blank := -1
	for i, line := range lines {
		if isBlank(line) {
			blank = i
			break
		}
	}
	if blank < 0 || blank+2 >= len(lines) {
		return "", fmt.Errorf("%w: no message block after first blank line", ErrMalformedFile)
	}
	header := lines[blank+2]
	if len(header) < 5 {
		return "", fmt.Errorf("%w: header line %q too short for a signature", ErrUnsupportedModel, header)
	}
	sig := header[1:5]
	model, ok := modelSignatures[sig]
	if !ok {
		return "", fmt.Errorf("%w: signature %q", ErrUnsupportedModel, sig)
	}
	return model, nil
}

package ceilo

import (
	"fmt"
	"strconv"
	"strings"
)

// decodeBackscatter converts one hex payload line per profile into physical
// backscatter values. The gate count is fixed by the first line; a profile
// whose payload fails to parse keeps its zero-filled row and is reported as
// a warning rather than failing the file.
func decodeBackscatter(lines []string, spec modelSpec) ([][]float64, []DecodeWarning, error) {
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("%w: no backscatter lines", ErrMalformedFile)
	}
	nChars := spec.codec.charsPerGate
	nGates := len(lines[0]) / nChars
	if nGates == 0 {
		return nil, nil, fmt.Errorf("%w: backscatter line %q shorter than one gate", ErrMalformedFile, lines[0])
	}

	raw := make([][]int64, len(lines))
	var warnings []DecodeWarning
	for i, line := range lines {
		raw[i] = make([]int64, nGates)
		if err := decodeProfile(raw[i], line, nChars); err != nil {
			// Keep the zero row, continue with the remaining profiles.
			for j := range raw[i] {
				raw[i][j] = 0
			}
			warnings = append(warnings, DecodeWarning{Profile: i, Reason: err.Error()})
		}
	}

	out := make([][]float64, len(raw))
	for i, row := range raw {
		out[i] = make([]float64, nGates)
		for j, v := range row {
			if v&spec.codec.overflowMask != 0 {
				v -= spec.codec.overflowSub
			}
			out[i][j] = float64(v) / spec.scale
		}
	}
	return out, warnings, nil
}

func decodeProfile(dst []int64, line string, nChars int) error {
	if len(line) < len(dst)*nChars {
		return fmt.Errorf("payload has %d chars, want %d", len(line), len(dst)*nChars)
	}
	for j := range dst {
		chunk := line[j*nChars : (j+1)*nChars]
		v, err := strconv.ParseInt(chunk, 16, 64)
		if err != nil {
			return fmt.Errorf("gate %d: %q is not hexadecimal", j, chunk)
		}
		dst[j] = v
	}
	return nil
}

// assembleCT25kProfiles joins the 16 data-line columns of a CT25k file into
// one hex payload per profile. Each contributing line starts with a 3-char
// line number that is dropped.
func assembleCT25kProfiles(cols [][]string) ([]string, error) {
	const dataLines = 16
	if len(cols) < dataLines {
		return nil, fmt.Errorf("%w: ct25k file has %d data-line columns, want %d", ErrMalformedFile, len(cols), dataLines)
	}
	nProfiles := len(cols[0])
	profiles := make([]string, nProfiles)
	var b strings.Builder
	for n := 0; n < nProfiles; n++ {
		b.Reset()
		for l := 0; l < dataLines; l++ {
			line := cols[l][n]
			if len(line) < 3 {
				return nil, fmt.Errorf("%w: ct25k data line %q too short", ErrMalformedFile, line)
			}
			b.WriteString(strings.TrimSpace(line[3:]))
		}
		profiles[n] = b.String()
	}
	return profiles, nil
}

package ceilo

import (
	"fmt"
	"strconv"
	"strings"
)

// headerRecord maps a header field name to its per-profile values. Every
// field in a record has one entry per message block in the file.
type headerRecord map[string][]string

// buildRecord assembles a record from per-message value rows. Rows are
// positional; row i must align with keys.
func buildRecord(keys []string, rows [][]string) headerRecord {
	rec := make(headerRecord, len(keys))
	for i, key := range keys {
		values := make([]string, len(rows))
		for j, row := range rows {
			values[j] = row[i]
		}
		rec[key] = values
	}
	return rec
}

// slice returns s[a:b] with both bounds clamped to the string length. The
// instrument pads trailing fields inconsistently, so short lines truncate
// instead of failing.
func slice(s string, a, b int) string {
	if a > len(s) {
		a = len(s)
	}
	if b < 0 || b > len(s) {
		b = len(s)
	}
	return s[a:b]
}

// readHeaderLine1 parses the identification line shared by all models.
// The CT family lacks the leading character the CL family carries, which
// shifts the last three field offsets by one.
func readHeaderLine1(lines []string, fam family) (headerRecord, error) {
	keys := []string{"model_id", "unit_id", "software_version", "message_number", "message_subclass"}
	offsets := []int{1, 3, 4, 7, 8, 9}
	if fam == familyCT {
		offsets = []int{1, 3, 4, 6, 7, 8}
	}
	rows := make([][]string, len(lines))
	for i, line := range lines {
		if len(line) < offsets[len(offsets)-1] {
			return nil, fmt.Errorf("%w: header line 1 %q shorter than %d chars", ErrMalformedFile, line, offsets[len(offsets)-1])
		}
		row := make([]string, len(keys))
		for f := range keys {
			row[f] = line[offsets[f]:offsets[f+1]]
		}
		rows[i] = row
	}
	return buildRecord(keys, rows), nil
}

// readHeaderLine2 parses the status line, identical across all models.
func readHeaderLine2(lines []string) (headerRecord, error) {
	keys := []string{"detection_status", "warning", "cloud_base_data", "warning_flags"}
	rows := make([][]string, len(lines))
	for i, line := range lines {
		if len(line) < 2 {
			return nil, fmt.Errorf("%w: header line 2 %q too short", ErrMalformedFile, line)
		}
		rows[i] = []string{
			line[0:1],
			line[1:2],
			slice(line, 3, 20),
			strings.TrimSpace(slice(line, 21, -1)),
		}
	}
	return buildRecord(keys, rows), nil
}

// readCLHeaderLine3 parses the sky condition line carried only by CL message
// number 2. Returns nil for other message numbers: the line is absent and
// contributes nothing to the merged metadata.
func readCLHeaderLine3(lines []string, messageNumber int) (headerRecord, error) {
	if messageNumber != 2 {
		return nil, nil
	}
	keys := []string{"cloud_detection_status", "cloud_amount_data"}
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = []string{slice(line, 0, 3), strings.TrimSpace(slice(line, 3, -1))}
	}
	return buildRecord(keys, rows), nil
}

// readCLHeaderLine4 parses the measurement parameter line of CL models.
func readCLHeaderLine4(lines []string) (headerRecord, error) {
	keys := []string{
		"scale", "range_resolution", "number_of_gates", "laser_energy",
		"laser_temperature", "window_transmission", "tilt_angle",
		"background_light", "measurement_parameters", "backscatter_sum",
	}
	return readTokenizedHeader(keys, lines, 4)
}

// readCTHeaderLine3 parses the status line of CT25k message numbers that
// carry one (all but 1, 3 and 6).
func readCTHeaderLine3(lines []string, messageNumber int) (headerRecord, error) {
	switch messageNumber {
	case 1, 3, 6:
		return nil, nil
	}
	keys := []string{
		"scale", "measurement_mode", "laser_energy", "laser_temperature",
		"receiver_sensitivity", "window_contamination", "tilt_angle",
		"background_light", "measurement_parameters", "backscatter_sum",
	}
	return readTokenizedHeader(keys, lines, 3)
}

func readTokenizedHeader(keys []string, lines []string, lineNo int) (headerRecord, error) {
	rows := make([][]string, len(lines))
	for i, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) < len(keys) {
			return nil, fmt.Errorf("%w: header line %d %q has %d fields, want %d", ErrMalformedFile, lineNo, line, len(tokens), len(keys))
		}
		rows[i] = tokens[:len(keys)]
	}
	return buildRecord(keys, rows), nil
}

// messageNumber extracts the message number from header line 1 and verifies
// it is identical across all blocks.
func messageNumber(h1 headerRecord) (int, error) {
	values := h1["message_number"]
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no message_number field", ErrMalformedFile)
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return 0, fmt.Errorf("%w: %q and %q in one file", ErrInconsistentMessageNumber, values[0], v)
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: message_number %q is not numeric", ErrMalformedFile, values[0])
	}
	return n, nil
}

// parseFractionHour converts an hh:mm:ss token to fractional hours.
func parseFractionHour(token string) (float64, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: time %q is not hh:mm:ss", ErrMalformedFile, token)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	s, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("%w: time %q is not numeric", ErrMalformedFile, token)
	}
	return float64(h) + float64(m*60+s)/3600, nil
}

// readTimes builds the fractional-hour time axis from the logger timestamp
// lines ("-2024-04-26 00:01:00"): the second whitespace token is hh:mm:ss.
func readTimes(lines []string) ([]float64, error) {
	times := make([]float64, len(lines))
	for i, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			return nil, fmt.Errorf("%w: timestamp line %q has no time token", ErrMalformedFile, line)
		}
		t, err := parseFractionHour(tokens[1])
		if err != nil {
			return nil, err
		}
		times[i] = t
	}
	return times, nil
}

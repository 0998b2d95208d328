package ceilo

import (
	"fmt"
	"os"
)

// ProfileSet is the decoded content of one ceilometer raw file. Fields are
// written once during Decode and read-only afterwards; distinct files can be
// decoded concurrently.
type ProfileSet struct {
	Model         Model           `json:"model"`
	MessageNumber int             `json:"message_number"`
	Time          []float64       `json:"time"`  // fractional hours, chronological
	Range         []float64       `json:"range"` // gate altitudes in metres, ascending
	Backscatter   [][]float64     `json:"backscatter"`
	Metadata      map[string]any  `json:"metadata"`
	Warnings      []DecodeWarning `json:"warnings,omitempty"`
}

// Profiles returns the number of decoded profiles.
func (ps *ProfileSet) Profiles() int { return len(ps.Backscatter) }

// Gates returns the number of range gates per profile.
func (ps *ProfileSet) Gates() int { return len(ps.Range) }

// DecodeFile reads and decodes a raw ceilometer file from disk.
func DecodeFile(path string) (*ProfileSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ceilometer file: %w", err)
	}
	ps, err := Decode(content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ps, nil
}

// Decode parses raw ceilometer file content into a ProfileSet. Structural
// problems, unknown model signatures and inconsistent message numbers are
// fatal; single bad profiles accumulate as warnings on the result.
func Decode(content []byte) (*ProfileSet, error) {
	lines := splitLines(string(content))
	model, err := detectModel(lines)
	if err != nil {
		return nil, err
	}
	cols, err := splitColumns(lines)
	if err != nil {
		return nil, err
	}

	spec := modelSpecs[model]
	switch spec.family {
	case familyCL:
		return decodeCL(model, spec, cols)
	default:
		return decodeCT25k(model, spec, cols)
	}
}

// decodeCL handles CL31/CL51 files. Block layout by column:
// 0 timestamp, 1 header 1, 2 header 2, [3 header 3 when message number 2],
// then header 4, the hex payload, and the checksum trailer. Header 4 and the
// payload are addressed from the end so both message layouts resolve.
func decodeCL(model Model, spec modelSpec, cols [][]string) (*ProfileSet, error) {
	if len(cols) < 6 {
		return nil, fmt.Errorf("%w: cl message blocks have %d lines, want at least 6", ErrMalformedFile, len(cols))
	}

	times, err := readTimes(cols[0])
	if err != nil {
		return nil, err
	}
	h1, err := readHeaderLine1(cols[1], spec.family)
	if err != nil {
		return nil, err
	}
	msgNo, err := messageNumber(h1)
	if err != nil {
		return nil, err
	}
	h2, err := readHeaderLine2(cols[2])
	if err != nil {
		return nil, err
	}
	h3, err := readCLHeaderLine3(cols[3], msgNo)
	if err != nil {
		return nil, err
	}
	h4, err := readCLHeaderLine4(cols[len(cols)-3])
	if err != nil {
		return nil, err
	}

	meta := mergeMetadata([]headerRecord{h1, h2, h3, h4})
	backscatter, warnings, err := decodeBackscatter(cols[len(cols)-2], spec)
	if err != nil {
		return nil, err
	}

	gates, ok := metaInt(meta, "number_of_gates")
	if !ok {
		return nil, fmt.Errorf("%w: metadata field number_of_gates is not numeric", ErrMalformedFile)
	}
	resolution, ok := metaInt(meta, "range_resolution")
	if !ok {
		return nil, fmt.Errorf("%w: metadata field range_resolution is not numeric", ErrMalformedFile)
	}
	if gates != len(backscatter[0]) {
		return nil, fmt.Errorf("%w: header reports %d gates, payload carries %d", ErrMalformedFile, gates, len(backscatter[0]))
	}

	return &ProfileSet{
		Model:         model,
		MessageNumber: msgNo,
		Time:          times,
		Range:         gateAltitudes(gates, float64(resolution)),
		Backscatter:   backscatter,
		Metadata:      meta,
		Warnings:      warnings,
	}, nil
}

// decodeCT25k handles CT25k files. Block layout by column: 0 timestamp,
// 1 header 1, 2 header 2, 3 header 3, 4-19 the sixteen hex data lines.
func decodeCT25k(model Model, spec modelSpec, cols [][]string) (*ProfileSet, error) {
	const ct25kGates, ct25kResolution = 256, 30.0

	if len(cols) < 20 {
		return nil, fmt.Errorf("%w: ct25k message blocks have %d lines, want at least 20", ErrMalformedFile, len(cols))
	}

	times, err := readTimes(cols[0])
	if err != nil {
		return nil, err
	}
	h1, err := readHeaderLine1(cols[1], spec.family)
	if err != nil {
		return nil, err
	}
	msgNo, err := messageNumber(h1)
	if err != nil {
		return nil, err
	}
	h2, err := readHeaderLine2(cols[2])
	if err != nil {
		return nil, err
	}
	h3, err := readCTHeaderLine3(cols[3], msgNo)
	if err != nil {
		return nil, err
	}

	meta := mergeMetadata([]headerRecord{h1, h2, h3})
	profiles, err := assembleCT25kProfiles(cols[4:20])
	if err != nil {
		return nil, err
	}
	backscatter, warnings, err := decodeBackscatter(profiles, spec)
	if err != nil {
		return nil, err
	}
	if len(backscatter[0]) != ct25kGates {
		return nil, fmt.Errorf("%w: ct25k payload carries %d gates, want %d", ErrMalformedFile, len(backscatter[0]), ct25kGates)
	}

	return &ProfileSet{
		Model:         model,
		MessageNumber: msgNo,
		Time:          times,
		Range:         gateAltitudes(ct25kGates, ct25kResolution),
		Backscatter:   backscatter,
		Metadata:      meta,
		Warnings:      warnings,
	}, nil
}

// gateAltitudes builds the ascending range grid: gate i sits at
// (i+1) * resolution metres.
func gateAltitudes(gates int, resolution float64) []float64 {
	r := make([]float64, gates)
	for i := range r {
		r[i] = float64(i+1) * resolution
	}
	return r
}

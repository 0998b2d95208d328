package pipeline

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lidarlab/ceilo-ingest/internal/ceilo"
	"github.com/lidarlab/ceilo-ingest/internal/config"
)

// RawFile is one spool file awaiting decode.
type RawFile struct {
	Path    string
	Content []byte

	// Commit disposes of the source file: processed files are archived,
	// rejected files quarantined. Nil when the extractor has no spool
	// (tests, one-shot tools).
	Commit func(ctx context.Context, processed bool) error
}

// Product is the serialized output of one decoded and screened file, the
// document handed to the gridded-file writer downstream.
type Product struct {
	Site          config.Site           `json:"site"`
	Model         ceilo.Model           `json:"model"`
	MessageNumber int                   `json:"message_number"`
	SourceFile    string                `json:"source_file"`
	Time          []float64             `json:"time"`  // fractional hours
	Range         []float64             `json:"range"` // metres
	Backscatter   [][]float64           `json:"backscatter"`
	Beta          [][]float64           `json:"beta"`
	BetaSmooth    [][]float64           `json:"beta_smooth"`
	Metadata      map[string]any        `json:"metadata"`
	Warnings      []ceilo.DecodeWarning `json:"warnings,omitempty"`
	ProcessedAt   time.Time             `json:"processed_at"`
}

// OutputEvent is the on-wire form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests and fixture generators inject a
// fake for deterministic ProcessedAt stamps.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

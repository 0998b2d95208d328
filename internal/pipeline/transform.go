package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lidarlab/ceilo-ingest/internal/ceilo"
	"github.com/lidarlab/ceilo-ingest/internal/config"
	"github.com/lidarlab/ceilo-ingest/internal/observability"
	"github.com/lidarlab/ceilo-ingest/internal/screening"
)

// ProfileTransformer implements Transformer: it decodes a raw ceilometer
// file, runs the screening engine, and serializes the product.
type ProfileTransformer struct {
	site    config.Site
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a ProfileTransformer stamping products with the
// given site provenance.
func NewTransformer(site config.Site, logger *slog.Logger, metrics *observability.Metrics) *ProfileTransformer {
	return &ProfileTransformer{site: site, logger: logger, metrics: metrics}
}

func (t *ProfileTransformer) Transform(_ context.Context, raw RawFile) (OutputEvent, error) {
	ps, err := ceilo.Decode(raw.Content)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("decode %s: %w", raw.Path, err)
	}
	beta, betaSmooth, err := screening.Screen(ps)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("screen %s: %w", raw.Path, err)
	}

	t.metrics.FilesDecoded.WithLabelValues(string(ps.Model)).Inc()
	t.metrics.ProfileWarnings.Add(float64(len(ps.Warnings)))
	t.metrics.ProfilesPerFile.Observe(float64(ps.Profiles()))
	for _, w := range ps.Warnings {
		t.logger.Warn("profile decode warning", "path", raw.Path, "profile", w.Profile, "reason", w.Reason)
	}

	product := BuildProduct(t.site, filepath.Base(raw.Path), ps, beta, betaSmooth)
	return serializeProduct(product)
}

// BuildProduct assembles the output document for one decoded file.
func BuildProduct(site config.Site, sourceFile string, ps *ceilo.ProfileSet, beta, betaSmooth [][]float64) Product {
	return Product{
		Site:          site,
		Model:         ps.Model,
		MessageNumber: ps.MessageNumber,
		SourceFile:    sourceFile,
		Time:          ps.Time,
		Range:         ps.Range,
		Backscatter:   ps.Backscatter,
		Beta:          beta,
		BetaSmooth:    betaSmooth,
		Metadata:      ps.Metadata,
		Warnings:      ps.Warnings,
		ProcessedAt:   clock.Now().UTC(),
	}
}

// serializeProduct marshals a Product into an output event. The key makes
// reprocessing the same file land on the same partition.
func serializeProduct(product Product) (OutputEvent, error) {
	value, err := json.Marshal(product)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize product: %w", err)
	}
	key := fmt.Sprintf("%s/%s/%s", product.Site.Name, product.Model, product.SourceFile)
	return OutputEvent{
		Key:   []byte(key),
		Value: value,
		Headers: map[string]string{
			"model":        string(product.Model),
			"site":         product.Site.Name,
			"processed_at": product.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// Command ceilo2json converts a raw Vaisala ceilometer file into a JSON
// product document using the actual decode and screening pipeline, so fixture
// files match real service output.
//
// Usage:
//
//	go run ./cmd/ceilo2json -in ceilo_20240426.txt -out product.json [-site site.yaml] [-fixed-clock]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lidarlab/ceilo-ingest/internal/ceilo"
	"github.com/lidarlab/ceilo-ingest/internal/config"
	"github.com/lidarlab/ceilo-ingest/internal/pipeline"
	"github.com/lidarlab/ceilo-ingest/internal/screening"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "raw ceilometer file to convert")
	out := flag.String("out", "", "output path for the JSON product")
	sitePath := flag.String("site", "", "optional YAML site metadata file")
	fixedClock := flag.Bool("fixed-clock", false, "freeze processed_at for reproducible fixtures")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -in, -out")
	}

	var site config.Site
	if *sitePath != "" {
		s, err := config.LoadSite(*sitePath)
		if err != nil {
			return err
		}
		site = s
	}

	if *fixedClock {
		pipeline.SetClock(clockwork.NewFakeClockAt(
			time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
		))
		defer pipeline.SetClock(nil)
	}

	ps, err := ceilo.DecodeFile(*in)
	if err != nil {
		return err
	}
	beta, betaSmooth, err := screening.Screen(ps)
	if err != nil {
		return fmt.Errorf("screen %s: %w", *in, err)
	}

	product := pipeline.BuildProduct(site, filepath.Base(*in), ps, beta, betaSmooth)
	if err := writeJSON(*out, product); err != nil {
		return fmt.Errorf("writing product: %w", err)
	}
	log.Printf("wrote product: %s", *out)

	printStats(ps, beta, betaSmooth)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(ps *ceilo.ProfileSet, beta, betaSmooth [][]float64) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Model: %s (message %d)\n", ps.Model, ps.MessageNumber)
	fmt.Printf("Profiles: %d, gates: %d\n", ps.Profiles(), ps.Gates())
	fmt.Printf("Time span: %.4f - %.4f h\n", ps.Time[0], ps.Time[len(ps.Time)-1])
	fmt.Printf("Range: %.0f - %.0f m\n", ps.Range[0], ps.Range[len(ps.Range)-1])
	fmt.Printf("Decode warnings: %d\n", len(ps.Warnings))
	fmt.Printf("Nonzero bins: raw=%d beta=%d beta_smooth=%d\n",
		countNonzero(ps.Backscatter), countNonzero(beta), countNonzero(betaSmooth))
}

func countNonzero(field [][]float64) int {
	var n int
	for _, row := range field {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

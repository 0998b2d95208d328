// Package screening removes noise-driven returns from decoded ceilometer
// backscatter while preserving genuine cloud and aerosol signal. It produces
// two products per file: a directly screened field and a cloud-preserving
// smoothed field for downstream consumers with different sensitivity needs.
package screening

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lidarlab/ceilo-ingest/internal/ceilo"
)

const (
	m2km = 0.001

	// snrLimit is the signal-to-noise ratio below which a bin is zeroed.
	snrLimit = 5.0

	// cloudLimit marks bins as strong cloud returns; their values bypass
	// smoothing so cloud edges stay sharp.
	cloudLimit = 1e-6

	// sigmaTimeMinutes and sigmaAltMetres are the physical widths of the
	// Gaussian smoothing kernel, converted to grid units per file.
	sigmaTimeMinutes = 2.0
	sigmaAltMetres   = 5.0

	// ct25kCorrectionLimit is the altitude above which CT25k firmware stops
	// range-correcting; gates above it get the correction applied here.
	ct25kCorrectionLimit = 2400.0
)

// Screen runs the SNR screening and correction engine over a decoded file.
// It returns the screened backscatter and its smoothed-then-screened
// counterpart, both shaped like ps.Backscatter. The input is not modified.
func Screen(ps *ceilo.ProfileSet) (beta, betaSmooth [][]float64, err error) {
	if err := validate(ps); err != nil {
		return nil, nil, err
	}

	noise := ps.Model.Noise()
	rangeSq := rangeSquared(ps.Range)
	saturated := saturatedProfiles(ps.Backscatter, noise)

	beta = screenPass(ps.Backscatter, rangeSq, noise, saturated, false)

	smoothed := clone(beta)
	clouds := stashClouds(smoothed)
	sigmaTime, sigmaAlt, err := sigmaUnits(ps.Time, ps.Range)
	if err != nil {
		return nil, nil, err
	}
	gaussianFilter(smoothed, sigmaTime, sigmaAlt)
	clouds.restore(smoothed)
	betaSmooth = screenPass(smoothed, rangeSq, noise, saturated, true)

	if ps.Model == ceilo.ModelCT25k {
		correctUpperRange(beta, ps.Range)
		correctUpperRange(betaSmooth, ps.Range)
	}
	return beta, betaSmooth, nil
}

func validate(ps *ceilo.ProfileSet) error {
	if ps.Profiles() < 2 {
		return fmt.Errorf("screening needs at least 2 profiles, got %d", ps.Profiles())
	}
	if ps.Gates() < 2 {
		return fmt.Errorf("screening needs at least 2 range gates, got %d", ps.Gates())
	}
	for i, row := range ps.Backscatter {
		if len(row) != ps.Gates() {
			return fmt.Errorf("profile %d has %d gates, range grid has %d", i, len(row), ps.Gates())
		}
	}
	return nil
}

// rangeSquared returns the per-gate squared range in km², the factor that
// round-trips between range-corrected and range-uncorrected backscatter.
func rangeSquared(rng []float64) []float64 {
	rsq := make([]float64, len(rng))
	for i, r := range rng {
		rsq[i] = (r * m2km) * (r * m2km)
	}
	return rsq
}

// saturatedProfiles flags profiles whose backscatter variance over the top
// gate window falls strictly below the model's saturation limit.
func saturatedProfiles(backscatter [][]float64, noise ceilo.NoiseParams) []bool {
	saturated := make([]bool, len(backscatter))
	for i, profile := range backscatter {
		saturated[i] = stat.PopVariance(tail(profile, noise.GateWindow), nil) < noise.SaturationVarianceLimit
	}
	return saturated
}

// screenPass applies one full screening pass: uncorrect range, estimate the
// per-profile noise floor from the top gates, zero saturation artifacts and
// low-SNR bins, recorrect range. The screening threshold is defined on
// range-uncorrected units.
func screenPass(field [][]float64, rangeSq []float64, noise ceilo.NoiseParams, saturated []bool, smooth bool) [][]float64 {
	floor := noise.MinNoiseRaw
	if smooth {
		floor = noise.MinNoiseSmooth
	}

	out := clone(field)
	for i, profile := range out {
		for j := range profile {
			profile[j] /= rangeSq[j]
		}

		std := stat.PopStdDev(tail(profile, noise.GateWindow), nil)
		if std < floor {
			std = floor
		}

		// Low values above the peak of a saturated profile are sensor
		// artifacts, not atmosphere.
		if saturated[i] {
			peak := floats.MaxIdx(profile)
			for j := peak; j < len(profile); j++ {
				if profile[j] < noise.SaturationNoise {
					profile[j] = 0
				}
			}
		}

		for j := range profile {
			if profile[j]/std < snrLimit {
				profile[j] = 0
			}
			profile[j] *= rangeSq[j]
		}
	}
	return out
}

// sigmaUnits converts the physical smoothing widths to grid units using the
// mean time and altitude steps of the file.
func sigmaUnits(time, rng []float64) (sigmaTime, sigmaAlt float64, err error) {
	timeStep := meanStep(time) * 60 // fractional hours -> minutes
	altStep := meanStep(rng)
	if timeStep <= 0 {
		return 0, 0, fmt.Errorf("time axis is not increasing")
	}
	if altStep <= 0 {
		return 0, 0, fmt.Errorf("range axis is not increasing")
	}
	return sigmaTimeMinutes / timeStep, sigmaAltMetres / altStep, nil
}

func meanStep(x []float64) float64 {
	steps := make([]float64, len(x)-1)
	for i := range steps {
		steps[i] = x[i+1] - x[i]
	}
	return stat.Mean(steps, nil)
}

// cloudStash remembers strong cloud bins so smoothing cannot blur them.
type cloudStash struct {
	rows, cols []int
	values     []float64
}

func stashClouds(field [][]float64) *cloudStash {
	s := &cloudStash{}
	for i, row := range field {
		for j, v := range row {
			if v > cloudLimit {
				s.rows = append(s.rows, i)
				s.cols = append(s.cols, j)
				s.values = append(s.values, v)
			}
		}
	}
	return s
}

func (s *cloudStash) restore(field [][]float64) {
	for k := range s.values {
		field[s.rows[k]][s.cols[k]] = s.values[k]
	}
}

// correctUpperRange applies the missing range-squared correction to gates
// above the CT25k firmware's correction ceiling. Column-wise: the selection
// is by gate altitude, identical for every profile.
func correctUpperRange(field [][]float64, rng []float64) {
	for j, r := range rng {
		if r <= ct25kCorrectionLimit {
			continue
		}
		factor := (r * m2km) * (r * m2km)
		for i := range field {
			field[i][j] *= factor
		}
	}
}

func tail(x []float64, window int) []float64 {
	if window >= len(x) {
		return x
	}
	return x[len(x)-window:]
}

func clone(field [][]float64) [][]float64 {
	out := make([][]float64, len(field))
	for i, row := range field {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

package ceilo

// Model identifies a supported Vaisala ceilometer variant.
type Model string

const (
	ModelCL51  Model = "cl51"
	ModelCL31  Model = "cl31"
	ModelCT25k Model = "ct25k"
)

// family groups models that share header schemas: the CL31/CL51 message
// layout differs from the older CT25k by one leading character on header
// line 1 and by the presence of header line 4.
type family int

const (
	familyCL family = iota
	familyCT
)

// hexCodec holds the fixed-width hex decoding constants of one model:
// characters per range gate, the sign bit of the encoded word, and the
// two's-complement correction subtracted from flagged values.
type hexCodec struct {
	charsPerGate int
	overflowMask int64
	overflowSub  int64
}

// NoiseParams are the per-model constants of the SNR screening engine.
type NoiseParams struct {
	// GateWindow is the number of topmost range gates used for noise and
	// saturation estimates. Clamped to the profile length when shorter.
	GateWindow int

	// SaturationVarianceLimit marks a profile as saturated when the variance
	// over the gate window is strictly below it.
	SaturationVarianceLimit float64

	// SaturationNoise is the fixed threshold below which post-peak values in
	// a saturated profile are treated as artifacts and zeroed.
	SaturationNoise float64

	// MinNoiseRaw and MinNoiseSmooth floor the per-profile noise estimate in
	// the raw and smoothed screening passes respectively.
	MinNoiseRaw    float64
	MinNoiseSmooth float64
}

// modelSpec is the full immutable configuration of one model variant.
type modelSpec struct {
	family family
	codec  hexCodec
	scale  float64 // backscatter scale factor
	noise  NoiseParams
}

var modelSpecs = map[Model]modelSpec{
	ModelCL51: {
		family: familyCL,
		codec:  hexCodec{charsPerGate: 5, overflowMask: 524288, overflowSub: 1048576},
		scale:  1e8,
		noise: NoiseParams{
			GateWindow:              100,
			SaturationVarianceLimit: 1e-12,
			SaturationNoise:         3e-6,
			MinNoiseRaw:             2.9e-8,
			MinNoiseSmooth:          1.1e-8,
		},
	},
	ModelCL31: {
		family: familyCL,
		codec:  hexCodec{charsPerGate: 5, overflowMask: 524288, overflowSub: 1048576},
		scale:  1e8,
		noise: NoiseParams{
			GateWindow:              100,
			SaturationVarianceLimit: 1e-12,
			SaturationNoise:         3e-6,
			MinNoiseRaw:             2.9e-8,
			MinNoiseSmooth:          1.1e-8,
		},
	},
	ModelCT25k: {
		family: familyCT,
		codec:  hexCodec{charsPerGate: 4, overflowMask: 32768, overflowSub: 65536},
		scale:  1e7,
		noise: NoiseParams{
			GateWindow:              40,
			SaturationVarianceLimit: 2e-14,
			SaturationNoise:         0.3e-6,
			MinNoiseRaw:             1.5e-9,
			MinNoiseSmooth:          3e-10,
		},
	},
}

// Noise returns the screening constants for the model. The zero value is
// returned for unknown models; decode never produces one.
func (m Model) Noise() NoiseParams {
	return modelSpecs[m].noise
}

// detection signatures read from header line 1, chars [1:5].
var modelSignatures = map[string]Model{
	"CL01": ModelCL51,
	"CL02": ModelCL31,
	"CT02": ModelCT25k,
}

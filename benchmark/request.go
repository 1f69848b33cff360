package benchmark

import "github.com/ICRAR/f2j/cube"

// Request selects which quality metrics Compare computes. Every flag is
// independent; the calculator never pays for an accumulator whose dependent
// metrics are all disabled.
type Request struct {
	SquaredError              bool
	MeanSquaredError          bool
	RootMeanSquaredError      bool
	PeakSignalToNoiseRatio    bool
	AbsoluteError             bool
	MeanAbsoluteError         bool
	SquaredIntensitySum       bool
	Fidelity                  bool
	MaximumAbsoluteDistortion bool

	// WriteResidual asks for the per-pixel signed difference image,
	// clamped to the symmetric range of the component bit depth.
	WriteResidual bool
}

// AllMetrics selects every scalar metric but not the residual image.
func AllMetrics() Request {
	return Request{
		SquaredError:              true,
		MeanSquaredError:          true,
		RootMeanSquaredError:      true,
		PeakSignalToNoiseRatio:    true,
		AbsoluteError:             true,
		MeanAbsoluteError:         true,
		SquaredIntensitySum:       true,
		Fidelity:                  true,
		MaximumAbsoluteDistortion: true,
	}
}

// Any reports whether anything at all was requested.
func (r Request) Any() bool {
	return r.AnyMetric() || r.WriteResidual
}

// AnyMetric reports whether any scalar metric was requested.
func (r Request) AnyMetric() bool {
	return r.SquaredError || r.MeanSquaredError || r.RootMeanSquaredError ||
		r.PeakSignalToNoiseRatio || r.AbsoluteError || r.MeanAbsoluteError ||
		r.SquaredIntensitySum || r.Fidelity || r.MaximumAbsoluteDistortion
}

// needSquaredError reports whether the squared-error sum must be
// accumulated.
func (r Request) needSquaredError() bool {
	return r.SquaredError || r.MeanSquaredError || r.RootMeanSquaredError ||
		r.PeakSignalToNoiseRatio || r.Fidelity
}

func (r Request) needAbsoluteError() bool {
	return r.AbsoluteError || r.MeanAbsoluteError
}

func (r Request) needIntensitySquare() bool {
	return r.SquaredIntensitySum || r.Fidelity
}

// Sum is an optional unsigned accumulator value. Defined is false when the
// metric was not requested, its accumulator overflowed, or the component was
// skipped.
type Sum struct {
	Defined bool
	Value   uint64
}

// Scalar is an optional derived metric. For PSNR, Defined=false with
// Perfect=true is the "no distortion" sentinel: the squared error was zero
// and the ratio is unbounded. The sentinel is never coerced to a number.
type Scalar struct {
	Defined bool
	Perfect bool
	Value   float64
}

// ComponentResult holds the metrics of one compared component.
type ComponentResult struct {
	Index  int
	Pixels uint64

	// Skipped is true when the component's geometry or signedness did not
	// match and no pixel work was done.
	Skipped bool

	SquaredErrorSum        Sum
	AbsoluteErrorSum       Sum
	IntensitySquareSum     Sum
	MaxAbsoluteDistortion  Sum
	MeanSquaredError       Scalar
	RootMeanSquaredError   Scalar
	PeakSignalToNoiseRatio Scalar
	MeanAbsoluteError      Scalar
	Fidelity               Scalar
}

// Result is the outcome of one image comparison.
type Result struct {
	// Comparable is false when the images differ in pixel-count geometry
	// or component count; no per-pixel work was done and Components is
	// empty. This is an expected outcome, not an error.
	Comparable bool

	Components []ComponentResult

	// Residual is the signed difference image, present only when
	// requested and when every component could be compared.
	Residual *cube.Image
}

package benchmark

import (
	"fmt"
	"io"
	"strings"
)

// undefinedCell is printed in place of a metric whose accumulator wrapped.
const undefinedCell = "OVERFLOW"

// noPSNRCell is printed when the candidate is bit-identical to the
// reference and the peak signal-to-noise ratio is therefore unbounded.
const noPSNRCell = "NO-PSNR"

// Render writes the benchmarking report for one comparison: a bracketed
// header line naming the selected columns, then one value line per
// component. Skipped components and incomparable results render a short
// notice instead of a value line.
func Render(w io.Writer, name string, res *Result, req Request) error {
	if !res.Comparable {
		_, err := fmt.Fprintf(w, "%s: not comparable\n", name)
		return err
	}

	header := []string{"[Compressed File Name]", "[Pixels]"}
	if req.SquaredError {
		header = append(header, "[SE]")
	}
	if req.MeanSquaredError {
		header = append(header, "[MSE]")
	}
	if req.RootMeanSquaredError {
		header = append(header, "[RMSE]")
	}
	if req.PeakSignalToNoiseRatio {
		header = append(header, "[PSNR]")
	}
	if req.AbsoluteError {
		header = append(header, "[AE]")
	}
	if req.MeanAbsoluteError {
		header = append(header, "[MAE]")
	}
	if req.SquaredIntensitySum {
		header = append(header, "[SI]")
	}
	if req.Fidelity {
		header = append(header, "[Fidelity]")
	}
	if req.MaximumAbsoluteDistortion {
		header = append(header, "[MAD]")
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, " ")); err != nil {
		return err
	}

	for i := range res.Components {
		cr := &res.Components[i]
		if cr.Skipped {
			if _, err := fmt.Fprintf(w, "%s: component %d skipped\n", name, cr.Index); err != nil {
				return err
			}
			continue
		}

		cells := []string{name, fmt.Sprintf("%d", cr.Pixels)}
		if req.SquaredError {
			cells = append(cells, sumCell(cr.SquaredErrorSum))
		}
		if req.MeanSquaredError {
			cells = append(cells, scalarCell(cr.MeanSquaredError))
		}
		if req.RootMeanSquaredError {
			cells = append(cells, scalarCell(cr.RootMeanSquaredError))
		}
		if req.PeakSignalToNoiseRatio {
			cells = append(cells, psnrCell(cr.PeakSignalToNoiseRatio))
		}
		if req.AbsoluteError {
			cells = append(cells, sumCell(cr.AbsoluteErrorSum))
		}
		if req.MeanAbsoluteError {
			cells = append(cells, scalarCell(cr.MeanAbsoluteError))
		}
		if req.SquaredIntensitySum {
			cells = append(cells, sumCell(cr.IntensitySquareSum))
		}
		if req.Fidelity {
			cells = append(cells, scalarCell(cr.Fidelity))
		}
		if req.MaximumAbsoluteDistortion {
			cells = append(cells, sumCell(cr.MaxAbsoluteDistortion))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	return nil
}

func sumCell(s Sum) string {
	if !s.Defined {
		return undefinedCell
	}
	return fmt.Sprintf("%d", s.Value)
}

func scalarCell(s Scalar) string {
	if !s.Defined {
		return undefinedCell
	}
	return fmt.Sprintf("%f", s.Value)
}

func psnrCell(s Scalar) string {
	if s.Perfect {
		return noPSNRCell
	}
	return scalarCell(s)
}

package benchmark

import (
	"errors"
	"fmt"
	"math"

	"github.com/ICRAR/f2j/cube"
)

// ErrNilImage is returned when Compare is handed a nil reference or
// candidate.
var ErrNilImage = errors.New("images to compare cannot be nil")

// Compare measures distortion between a reference intensity image and a
// round-tripped candidate of the same schema.
//
// Incomparability is an expected outcome, not an error: when the images
// differ in pixel-count geometry or component count the returned Result has
// Comparable=false and no per-pixel work is done. A single component whose
// geometry or signedness differs is skipped with a diagnostic while its
// siblings are still processed.
//
// Each metric accumulator is overflow-checked: an unsigned running sum of
// non-negative terms can never legitimately decrease, so a decrease after an
// addition marks the accumulator as wrapped. Metrics depending on a wrapped
// accumulator are suppressed for that component; independent metrics
// survive.
func Compare(ref, cand *cube.Image, req Request, rep Reporter) (*Result, error) {
	if ref == nil || cand == nil {
		return nil, ErrNilImage
	}
	if rep == nil {
		rep = Discard
	}

	res := &Result{Comparable: true}

	// Advisory checks: logged, never fatal.
	if cand.ColorSpace != ref.ColorSpace {
		rep.Report(Diagnostic{CategoryMetadata, fmt.Sprintf(
			"color space of candidate (%s) does not match reference (%s)", cand.ColorSpace, ref.ColorSpace)})
	}
	if cand.ICCProfileLen != ref.ICCProfileLen {
		rep.Report(Diagnostic{CategoryMetadata, fmt.Sprintf(
			"ICC profile length of candidate (%d) does not match reference (%d)", cand.ICCProfileLen, ref.ICCProfileLen)})
	}
	if cand.X0 != ref.X0 || cand.Y0 != ref.Y0 {
		rep.Report(Diagnostic{CategoryMetadata, fmt.Sprintf(
			"origin of candidate (%d,%d) does not match reference (%d,%d)", cand.X0, cand.Y0, ref.X0, ref.Y0)})
	}

	// Sanity gate: these make the images incomparable pixel by pixel.
	if cand.Width != ref.Width {
		rep.Report(Diagnostic{CategoryGeometry, fmt.Sprintf(
			"width of candidate (%d) does not match reference (%d)", cand.Width, ref.Width)})
		res.Comparable = false
	}
	if cand.Height != ref.Height {
		rep.Report(Diagnostic{CategoryGeometry, fmt.Sprintf(
			"height of candidate (%d) does not match reference (%d)", cand.Height, ref.Height)})
		res.Comparable = false
	}
	if len(cand.Comps) != len(ref.Comps) {
		rep.Report(Diagnostic{CategoryGeometry, fmt.Sprintf(
			"candidate has %d components, reference has %d", len(cand.Comps), len(ref.Comps))})
		res.Comparable = false
	}
	if !res.Comparable {
		rep.Report(Diagnostic{CategoryGeometry, "unable to perform pixel by pixel comparison"})
		return res, nil
	}

	var residual *cube.Image
	canWriteResidual := req.WriteResidual
	if req.WriteResidual {
		residual = &cube.Image{
			Width:         ref.Width,
			Height:        ref.Height,
			X0:            ref.X0,
			Y0:            ref.Y0,
			ColorSpace:    ref.ColorSpace,
			ICCProfileLen: ref.ICCProfileLen,
			Comps:         make([]cube.Component, len(ref.Comps)),
		}
	}

	for i := range ref.Comps {
		rc := &ref.Comps[i]
		cc := &cand.Comps[i]

		cr := ComponentResult{Index: i, Pixels: uint64(rc.Pixels())}

		if rc.Width != cc.Width || rc.Height != cc.Height {
			rep.Report(Diagnostic{CategoryGeometry, fmt.Sprintf(
				"component %d has different dimensions in reference and candidate", i)})
			cr.Skipped = true
			canWriteResidual = false
			res.Components = append(res.Components, cr)
			continue
		}
		if rc.Signed != cc.Signed {
			rep.Report(Diagnostic{CategoryGeometry, fmt.Sprintf(
				"component %d is differently signed in reference and candidate", i)})
			cr.Skipped = true
			canWriteResidual = false
			res.Components = append(res.Components, cr)
			continue
		}

		compareComponent(&cr, rc, cc, req, rep, residual, i)
		res.Components = append(res.Components, cr)
	}

	if req.WriteResidual && canWriteResidual {
		res.Residual = residual
	}
	return res, nil
}

// compareComponent runs the single deterministic pixel pass for one
// component.
func compareComponent(cr *ComponentResult, rc, cc *cube.Component, req Request, rep Reporter, residual *cube.Image, idx int) {
	maxPix := rc.MaxValue()

	// Residual bounds: the symmetric signed interval of the component bit
	// depth.
	resMax := int64((maxPix+1)/2 - 1)
	resMin := -resMax - 1

	var resData []int32
	if residual != nil {
		resData = make([]int32, rc.Pixels())
		residual.Comps[idx] = cube.Component{
			Width:     rc.Width,
			Height:    rc.Height,
			Precision: rc.Precision,
			Signed:    true,
			X0:        rc.X0,
			Y0:        rc.Y0,
			Data:      resData,
		}
	}

	needMAD := req.MaximumAbsoluteDistortion
	seLive := req.needSquaredError()
	aeLive := req.needAbsoluteError()
	siLive := req.needIntensitySquare()
	seWrapped, aeWrapped, siWrapped := false, false, false

	var se, ae, si, mad uint64

	pixels := rc.Pixels()
	if !seLive && !aeLive && !siLive && !needMAD && resData == nil {
		pixels = 0 // nothing requested, skip the pass entirely
	}

	for k := 0; k < pixels; k++ {
		// Widen before any arithmetic so the squaring below cannot
		// overflow an intermediate.
		uv := int64(rc.Data[k])
		cv := int64(cc.Data[k])
		diff := uv - cv
		ad := diff
		if ad < 0 {
			ad = -ad
		}

		if needMAD && uint64(ad) > mad {
			mad = uint64(ad)
		}

		if seLive {
			old := se
			se += uint64(diff * diff)
			if se < old {
				seLive, seWrapped = false, true
				rep.Report(Diagnostic{CategoryOverflow, fmt.Sprintf(
					"squared-error sum overflowed at pixel %d of component %d", k, idx)})
			}
		}
		if aeLive {
			old := ae
			ae += uint64(ad)
			if ae < old {
				aeLive, aeWrapped = false, true
				rep.Report(Diagnostic{CategoryOverflow, fmt.Sprintf(
					"absolute-error sum overflowed at pixel %d of component %d", k, idx)})
			}
		}
		if siLive {
			old := si
			si += uint64(uv * uv)
			if si < old {
				siLive, siWrapped = false, true
				rep.Report(Diagnostic{CategoryOverflow, fmt.Sprintf(
					"intensity-square sum overflowed at pixel %d of component %d", k, idx)})
			}
		}

		if resData != nil {
			v := diff
			if v < resMin {
				rep.Report(Diagnostic{CategoryResidual, fmt.Sprintf(
					"residual at pixel %d of component %d clamped to %d", k, idx, resMin)})
				v = resMin
			} else if v > resMax {
				rep.Report(Diagnostic{CategoryResidual, fmt.Sprintf(
					"residual at pixel %d of component %d clamped to %d", k, idx, resMax)})
				v = resMax
			}
			resData[k] = int32(v)
		}

		// Once every requested accumulator has wrapped there is nothing
		// left this pass can contribute.
		if !seLive && !aeLive && !siLive && !needMAD && resData == nil {
			break
		}
	}

	seOK := req.needSquaredError() && !seWrapped
	aeOK := req.needAbsoluteError() && !aeWrapped
	siOK := req.needIntensitySquare() && !siWrapped

	if seOK {
		if req.SquaredError {
			cr.SquaredErrorSum = Sum{Defined: true, Value: se}
		}
		mse := float64(se) / float64(cr.Pixels)
		if req.MeanSquaredError {
			cr.MeanSquaredError = Scalar{Defined: true, Value: mse}
		}
		if req.RootMeanSquaredError {
			cr.RootMeanSquaredError = Scalar{Defined: true, Value: math.Sqrt(mse)}
		}
		if req.PeakSignalToNoiseRatio {
			if se == 0 {
				// Zero distortion: the ratio is unbounded, report the
				// sentinel rather than fabricating a number.
				cr.PeakSignalToNoiseRatio = Scalar{Perfect: true}
			} else {
				cr.PeakSignalToNoiseRatio = Scalar{
					Defined: true,
					Value:   10.0 * math.Log10(float64(maxPix)*float64(maxPix)/mse),
				}
			}
		}
	}
	if aeOK {
		if req.AbsoluteError {
			cr.AbsoluteErrorSum = Sum{Defined: true, Value: ae}
		}
		if req.MeanAbsoluteError {
			cr.MeanAbsoluteError = Scalar{Defined: true, Value: float64(ae) / float64(cr.Pixels)}
		}
	}
	if siOK && req.SquaredIntensitySum {
		cr.IntensitySquareSum = Sum{Defined: true, Value: si}
	}
	if req.Fidelity && seOK && siOK {
		switch {
		case si == 0 && se == 0:
			// Zero reference energy with zero error is perfect fidelity.
			cr.Fidelity = Scalar{Defined: true, Value: 1.0}
		case si == 0:
			// Non-zero error against zero energy: undefined.
		default:
			cr.Fidelity = Scalar{Defined: true, Value: 1.0 - float64(se)/float64(si)}
		}
	}
	if needMAD {
		cr.MaxAbsoluteDistortion = Sum{Defined: true, Value: mad}
	}
}

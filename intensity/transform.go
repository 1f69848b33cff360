package intensity

import (
	"fmt"
	"math"

	"github.com/ICRAR/f2j/cube"
)

// Options carries optional behavior for a transform call.
type Options struct {
	// Noise, when non-nil, perturbs each sample at the hook point of its
	// source-type family. See Perturber.
	Noise Perturber
}

// Transform maps one raw sample plane into a fixed-precision unsigned
// grayscale intensity image, applying the selected scale kind and the
// vertical flip from the external top-to-bottom sample order into the
// internal bottom-to-top raster convention.
//
// Every output value lies in [0, 2^bitdepth-1], where bitdepth is 8 for
// byte-typed sources and 16 otherwise. KindDefault is resolved before any
// per-pixel work. Unsupported (kind, type) combinations return
// ErrUnsupportedTransform.
func Transform(p *cube.Plane, kind Kind, rng Range, opts *Options) (*cube.Image, error) {
	var noise Perturber
	if opts != nil {
		noise = opts.Noise
	}
	switch s := p.Samples.(type) {
	case []uint8:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	case []int8:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	case []uint16:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	case []int16:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	case []uint32:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	case []int32:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	case []uint64:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	case []int64:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	case []float32:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	case []float64:
		return transformPlane(s, p.Type, kind, rng, p.Width, noise)
	}
	return nil, fmt.Errorf("%w: plane carries no samples", ErrInvalidGeometry)
}

// transformPlane is the single generic transform core. Per-type behavior is
// confined to the sample-type tag: the widening of samples into float64 (or
// int64 for the RAW path) is uniform for every member of cube.Sample.
func transformPlane[T cube.Sample](samples []T, st cube.SampleType, kind Kind, rng Range, width int, noise Perturber) (*cube.Image, error) {
	if width <= 0 || len(samples) == 0 || len(samples)%width != 0 {
		return nil, fmt.Errorf("%w: %d samples, width %d", ErrInvalidGeometry, len(samples), width)
	}

	kind = kind.Resolve(st)
	if !Supported(kind, st) {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupportedTransform, kind, st)
	}

	bitdepth := 16
	if familyOf(st) == familyByte {
		bitdepth = 8
	}
	maxIntensity := int32(1)<<uint(bitdepth) - 1

	height := len(samples) / width
	out := make([]int32, len(samples))
	negative := kind.Negative()

	if familyOf(st) == familyFloat {
		scale := newScaler(kind.Base(), rng, float64(maxIntensity))
		for r := 0; r < height; r++ {
			src := samples[r*width : (r+1)*width]
			dst := out[(height-1-r)*width:]
			for c, s := range src {
				v := float64(s)
				if noise != nil {
					v = clampRaw(noise.Perturb(v), rng)
				}
				pix := clampIntensity(scale.apply(v), maxIntensity)
				if negative {
					pix = maxIntensity - pix
				}
				dst[c] = pix
			}
		}
	} else {
		// RAW: identity for unsigned sources, sign-to-unsigned shift for
		// signed ones (the same DC-style shift the codec applies).
		var shift int64
		if st.Signed() {
			shift = (int64(maxIntensity) + 1) / 2
		}
		for r := 0; r < height; r++ {
			src := samples[r*width : (r+1)*width]
			dst := out[(height-1-r)*width:]
			for c, s := range src {
				v := int64(s) + shift
				if noise != nil {
					v = int64(math.Floor(noise.Perturb(float64(v)) + 0.5))
				}
				pix := clampIntensity64(v, maxIntensity)
				if negative {
					pix = maxIntensity - pix
				}
				dst[c] = pix
			}
		}
	}

	return cube.NewGrayImage(width, height, bitdepth, out), nil
}

// scaler holds the per-plane constants of one scaling formula. All formulas
// are precomputed once per plane; the per-pixel work is a single function
// application.
type scaler struct {
	kind   Kind
	min    float64
	zero   float64
	absMin float64
	scale  float64
	offset float64
}

// newScaler derives the scale factor and offsets for a base kind over the
// given dynamic range. Degenerate ranges (or zero denominators) leave the
// scale factor at 0 so the transform produces a well-defined constant image
// instead of dividing by zero.
func newScaler(kind Kind, rng Range, maxIntensity float64) scaler {
	s := scaler{kind: kind, min: rng.Min}

	switch kind {
	case KindLinear:
		absMin := math.Abs(rng.Min)
		if rng.Min < 0 {
			s.zero = absMin
		}
		if den := rng.Max + s.zero; den != 0 {
			s.scale = maxIntensity / den
		}

	case KindLog:
		switch {
		case rng.Min < 0:
			s.absMin = -rng.Min
			s.zero = 2 * s.absMin
		case rng.Min <= 0:
			s.absMin = 1e-6
			s.zero = s.absMin
		default:
			s.absMin = rng.Min
		}
		if den := math.Log((rng.Max + s.zero) / s.absMin); den != 0 {
			s.scale = maxIntensity / den
		}

	case KindSqrt:
		if !rng.Degenerate() {
			s.scale = maxIntensity / math.Sqrt(rng.Max-rng.Min)
		}

	case KindSquared:
		if !rng.Degenerate() {
			d := rng.Max - rng.Min
			s.scale = maxIntensity / (d * d)
		}

	case KindPower:
		if !rng.Degenerate() {
			emin, emax := math.Exp(rng.Min), math.Exp(rng.Max)
			s.scale = maxIntensity / (emax - emin)
			s.offset = maxIntensity * emin / (emin - emax)
		}
	}

	return s
}

func (s scaler) apply(v float64) float64 {
	switch s.kind {
	case KindLinear:
		return v * s.scale
	case KindLog:
		return s.scale * math.Log((v+s.zero)/s.absMin)
	case KindSqrt:
		return s.scale * math.Sqrt(v-s.min)
	case KindSquared:
		d := v - s.min
		return s.scale * d * d
	case KindPower:
		return s.scale*math.Exp(v) + s.offset
	}
	return 0
}

// clampIntensity truncates v into [0, max]. The comparisons are ordered so
// that NaN (log of a non-positive argument, sqrt below the range minimum)
// falls through to 0 rather than poisoning the output buffer.
func clampIntensity(v float64, max int32) int32 {
	if v >= float64(max) {
		return max
	}
	if v > 0 {
		return int32(v)
	}
	return 0
}

func clampIntensity64(v int64, max int32) int32 {
	if v >= int64(max) {
		return max
	}
	if v > 0 {
		return int32(v)
	}
	return 0
}

// clampRaw bounds a perturbed raw sample back into the plane's dynamic
// range.
func clampRaw(v float64, rng Range) float64 {
	if v < rng.Min {
		return rng.Min
	}
	if v > rng.Max {
		return rng.Max
	}
	return v
}

package intensity

import "github.com/ICRAR/f2j/cube"

// Range is the effective dynamic range of a plane, widened to float64.
// Invariant: Max >= Min. A degenerate Max == Min range is legal; the
// dependent scale factors become 0 and the transform yields a constant
// image.
type Range struct {
	Min float64
	Max float64
}

// Degenerate reports whether the range spans no interval.
func (r Range) Degenerate() bool { return r.Max == r.Min }

// AnalyzeRange determines the effective dynamic range of a plane. When the
// caller already has a declared [min,max] pair from format metadata it
// should use it directly and skip the scan; this function is the fallback
// that derives the range from the data with a single linear pass, seeded
// from the first sample. The plane is never mutated.
func AnalyzeRange(p *cube.Plane) (Range, error) {
	switch s := p.Samples.(type) {
	case []uint8:
		return scanRange(s)
	case []int8:
		return scanRange(s)
	case []uint16:
		return scanRange(s)
	case []int16:
		return scanRange(s)
	case []uint32:
		return scanRange(s)
	case []int32:
		return scanRange(s)
	case []uint64:
		return scanRange(s)
	case []int64:
		return scanRange(s)
	case []float32:
		return scanRange(s)
	case []float64:
		return scanRange(s)
	}
	return Range{}, ErrEmptyInput
}

func scanRange[T cube.Sample](samples []T) (Range, error) {
	if len(samples) == 0 {
		return Range{}, ErrEmptyInput
	}
	min, max := samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return Range{Min: float64(min), Max: float64(max)}, nil
}

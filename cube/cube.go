// Package cube defines the data model shared by the f2j pipeline: raw sample
// planes read from a scientific data cube, the fixed-precision intensity
// images handed to the compression codec, and the reader boundary that
// supplies planes.
package cube

import "fmt"

// SampleType identifies the numeric type of the raw samples in a plane.
type SampleType int

const (
	SampleUint8 SampleType = iota
	SampleInt8
	SampleUint16
	SampleInt16
	SampleUint32
	SampleInt32
	SampleUint64
	SampleInt64
	SampleFloat32
	SampleFloat64
)

// Bits returns the width of the sample type in bits.
func (t SampleType) Bits() int {
	switch t {
	case SampleUint8, SampleInt8:
		return 8
	case SampleUint16, SampleInt16:
		return 16
	case SampleUint32, SampleInt32, SampleFloat32:
		return 32
	default:
		return 64
	}
}

// Signed reports whether the sample type is signed.
func (t SampleType) Signed() bool {
	switch t {
	case SampleUint8, SampleUint16, SampleUint32, SampleUint64:
		return false
	default:
		return true
	}
}

// Float reports whether the sample type is floating point.
func (t SampleType) Float() bool {
	return t == SampleFloat32 || t == SampleFloat64
}

func (t SampleType) String() string {
	switch t {
	case SampleUint8:
		return "uint8"
	case SampleInt8:
		return "int8"
	case SampleUint16:
		return "uint16"
	case SampleInt16:
		return "int16"
	case SampleUint32:
		return "uint32"
	case SampleInt32:
		return "int32"
	case SampleUint64:
		return "uint64"
	case SampleInt64:
		return "int64"
	case SampleFloat32:
		return "float32"
	case SampleFloat64:
		return "float64"
	}
	return fmt.Sprintf("SampleType(%d)", int(t))
}

// Sample is the closed set of numeric types a data cube may carry.
type Sample interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 |
		~uint64 | ~int64 | ~float32 | ~float64
}

// Plane holds the raw samples of one 2-D slice of a data cube, addressed by
// (frame, stoke) indices along the higher axes. Samples holds a []T whose
// element type matches Type; it is owned by the reader and borrowed by the
// transform for the duration of one call.
type Plane struct {
	Frame  int
	Stoke  int
	Width  int
	Height int
	Type   SampleType

	// Samples is one of []uint8, []int8, []uint16, []int16, []uint32,
	// []int32, []uint64, []int64, []float32, []float64 per Type.
	Samples interface{}
}

// Len returns the number of samples in the plane.
func (p *Plane) Len() int {
	switch s := p.Samples.(type) {
	case []uint8:
		return len(s)
	case []int8:
		return len(s)
	case []uint16:
		return len(s)
	case []int16:
		return len(s)
	case []uint32:
		return len(s)
	case []int32:
		return len(s)
	case []uint64:
		return len(s)
	case []int64:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	}
	return 0
}

// ColorSpace identifies the color interpretation of an intensity image.
// The converter only produces grayscale images, but compare() checks the
// field on round-tripped images and reports mismatches.
type ColorSpace int

const (
	ColorSpaceUnknown ColorSpace = iota
	ColorSpaceGray
	ColorSpaceSRGB
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceGray:
		return "gray"
	case ColorSpaceSRGB:
		return "srgb"
	}
	return "unknown"
}

// Component is one plane of an intensity image. Data is stored as int32 so
// that 8- and 16-bit unsigned intensities, and the signed residual domain,
// all fit with headroom for arithmetic.
type Component struct {
	Width     int
	Height    int
	Precision int  // bits per sample, 8 or 16 for forward transforms
	Signed    bool // false for intensities, true for residual components
	X0        int  // origin offset on the reference grid
	Y0        int
	Data      []int32
}

// Pixels returns the number of samples in the component.
func (c *Component) Pixels() int {
	return c.Width * c.Height
}

// MaxValue returns 2^Precision - 1, the largest representable intensity.
func (c *Component) MaxValue() int64 {
	return (int64(1) << uint(c.Precision)) - 1
}

// Image is the internal raster representation exchanged with the codec
// boundary: raster order top-to-bottom, left-to-right, one or more
// components of identical geometry.
type Image struct {
	Width         int
	Height        int
	X0            int
	Y0            int
	ColorSpace    ColorSpace
	ICCProfileLen int
	Comps         []Component
}

// NewGrayImage builds a single-component unsigned grayscale image around
// data, which must have width*height elements.
func NewGrayImage(width, height, precision int, data []int32) *Image {
	return &Image{
		Width:      width,
		Height:     height,
		ColorSpace: ColorSpaceGray,
		Comps: []Component{{
			Width:     width,
			Height:    height,
			Precision: precision,
			Data:      data,
		}},
	}
}

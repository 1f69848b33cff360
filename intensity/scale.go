package intensity

import (
	"strings"

	"github.com/ICRAR/f2j/cube"
)

// Kind selects the transformation applied to raw samples to convert each
// datum into a fixed-precision grayscale intensity. Every base kind has a
// photometrically inverted NEGATIVE_ variant: result = maxIntensity - base.
type Kind int

const (
	// KindDefault resolves to KindRaw for integer sources and KindLog for
	// floating-point sources, once per plane before any per-pixel work.
	KindDefault Kind = iota
	KindRaw
	KindNegativeRaw
	KindLinear
	KindNegativeLinear
	KindLog
	KindNegativeLog
	KindSqrt
	KindNegativeSqrt
	KindSquared
	KindNegativeSquared
	KindPower
	KindNegativePower
)

var kindNames = map[Kind]string{
	KindDefault:         "DEFAULT",
	KindRaw:             "RAW",
	KindNegativeRaw:     "NEGATIVE_RAW",
	KindLinear:          "LINEAR",
	KindNegativeLinear:  "NEGATIVE_LINEAR",
	KindLog:             "LOG",
	KindNegativeLog:     "NEGATIVE_LOG",
	KindSqrt:            "SQRT",
	KindNegativeSqrt:    "NEGATIVE_SQRT",
	KindSquared:         "SQUARED",
	KindNegativeSquared: "NEGATIVE_SQUARED",
	KindPower:           "POWER",
	KindNegativePower:   "NEGATIVE_POWER",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "DEFAULT"
}

// ParseKind maps a case-insensitive scale name to its Kind. Unknown names
// return KindDefault and ok=false so callers can fall back with a
// diagnostic, matching the reference command-line behavior.
func ParseKind(name string) (Kind, bool) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == want {
			return k, true
		}
	}
	return KindDefault, false
}

// Negative reports whether the kind is a photometric inversion.
func (k Kind) Negative() bool {
	switch k {
	case KindNegativeRaw, KindNegativeLinear, KindNegativeLog,
		KindNegativeSqrt, KindNegativeSquared, KindNegativePower:
		return true
	}
	return false
}

// Base strips the photometric inversion from a kind.
func (k Kind) Base() Kind {
	switch k {
	case KindNegativeRaw:
		return KindRaw
	case KindNegativeLinear:
		return KindLinear
	case KindNegativeLog:
		return KindLog
	case KindNegativeSqrt:
		return KindSqrt
	case KindNegativeSquared:
		return KindSquared
	case KindNegativePower:
		return KindPower
	}
	return k
}

// Resolve replaces KindDefault with the per-type default: RAW for integer
// sources, LOG for floating-point sources.
func (k Kind) Resolve(t cube.SampleType) Kind {
	if k != KindDefault {
		return k
	}
	if t.Float() {
		return KindLog
	}
	return KindRaw
}

// family groups sample types by the scaling formulas that apply to them.
type family int

const (
	familyByte    family = iota // 8-bit integers
	familyShort                 // 16-bit integers
	familyWideInt               // 32/64-bit integers, rejected at transform time
	familyFloat                 // 32/64-bit floating point
)

func familyOf(t cube.SampleType) family {
	switch t {
	case cube.SampleUint8, cube.SampleInt8:
		return familyByte
	case cube.SampleUint16, cube.SampleInt16:
		return familyShort
	case cube.SampleFloat32, cube.SampleFloat64:
		return familyFloat
	}
	return familyWideInt
}

// kindSupport is the closed compatibility matrix of base scale kinds per
// type family. Adding a kind or a family is a data change here, not a new
// conditional in the transform loop.
var kindSupport = map[family]map[Kind]bool{
	familyByte: {
		KindRaw: true,
	},
	familyShort: {
		KindRaw: true,
	},
	familyWideInt: {},
	familyFloat: {
		KindLinear:  true,
		KindLog:     true,
		KindSqrt:    true,
		KindSquared: true,
		KindPower:   true,
	},
}

// Supported reports whether the kind (after DEFAULT resolution) applies to
// the sample type.
func Supported(k Kind, t cube.SampleType) bool {
	return kindSupport[familyOf(t)][k.Resolve(t).Base()]
}

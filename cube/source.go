package cube

import (
	"errors"
	"fmt"
)

// ErrSourceRead classifies failures in the scientific-file reader: open
// failures, malformed headers, or dimension mismatches across declared axes.
// A read error is fatal to the current plane; the orchestrator aborts the
// batch when it sees one.
var ErrSourceRead = errors.New("source read failed")

// ReadError wraps a reader failure with the plane indices it occurred at.
type ReadError struct {
	Frame int
	Stoke int
	Err   error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading plane frame=%d stoke=%d: %v", e.Frame, e.Stoke, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is makes every ReadError match ErrSourceRead.
func (e *ReadError) Is(target error) bool { return target == ErrSourceRead }

// Source supplies raw sample planes from a scientific data cube. The
// converter never retains a plane across iterations: each plane is read,
// transformed, and released before the next one is requested.
type Source interface {
	// Planes returns the extent of the higher axes: the number of frames
	// (depth axis) and stokes (spectral axis). Both are at least 1.
	Planes() (frames, stokes int)

	// ReadPlane reads one 2-D slice. Failures are reported as *ReadError.
	ReadPlane(frame, stoke int) (*Plane, error)

	// DeclaredRange returns the [min,max] dynamic range declared by the
	// file header, if any. When ok is false the range must be derived by
	// scanning the plane.
	DeclaredRange() (min, max float64, ok bool)

	// ComponentBitWidth returns the intensity precision the source maps
	// to: 8 for byte-typed sources, 16 otherwise.
	ComponentBitWidth() int
}

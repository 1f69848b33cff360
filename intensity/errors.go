package intensity

import "errors"

var (
	// ErrEmptyInput is returned when a range scan or transform is asked to
	// process a plane with no samples.
	ErrEmptyInput = errors.New("empty input plane")

	// ErrInvalidGeometry is returned when the sample count is not a
	// positive multiple of the plane width, or the width is not positive.
	ErrInvalidGeometry = errors.New("invalid plane geometry")

	// ErrUnsupportedTransform is returned for (scale kind, sample type)
	// combinations outside the supported matrix.
	ErrUnsupportedTransform = errors.New("unsupported transform for sample type")
)

package convert

import "errors"

var (
	// ErrCodecNotFound is returned when no codec is registered under the
	// requested name or extension
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInvalidParameter is returned when conversion parameters are invalid
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNilSource is returned when the conversion is given no source
	ErrNilSource = errors.New("source cannot be nil")

	// ErrNoPlanes is returned when the source declares an empty cube
	ErrNoPlanes = errors.New("source has no planes")
)

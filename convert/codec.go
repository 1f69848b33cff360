package convert

import "github.com/ICRAR/f2j/cube"

// Codec is the boundary between plane conversion and a concrete compressed
// image format. Implementations encode a transformed intensity image into a
// codestream and decode one back for quality benchmarking.
type Codec interface {
	// Encode encodes an intensity image with the given parameters
	Encode(img *cube.Image, params Parameters) ([]byte, error)

	// Decode decodes a codestream back into an intensity image
	Decode(data []byte) (*cube.Image, error)

	// Name returns the registry name (e.g. "jp2", "j2k")
	Name() string

	// Extension returns the output file extension including the dot
	Extension() string
}

// Parameters is the generic parameter surface shared by all codecs.
type Parameters interface {
	// Validate checks the parameters and normalizes defaulted values
	Validate() error

	// GetParameter retrieves a parameter by name
	GetParameter(name string) interface{}

	// SetParameter sets a parameter value
	SetParameter(name string, value interface{})
}

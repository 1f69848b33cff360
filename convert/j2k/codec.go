// Package j2k provides the JPEG 2000 output codecs behind the conversion
// boundary.
package j2k

import (
	"fmt"

	"github.com/cocosip/go-dicom-codec/jpeg2000"

	"github.com/ICRAR/f2j/convert"
	"github.com/ICRAR/f2j/cube"
)

var _ convert.Codec = (*Codec)(nil)

// Codec implements JPEG 2000 encoding and decoding over the conversion
// boundary. The same implementation backs both registered output formats;
// only the name and extension differ.
type Codec struct {
	name string
	ext  string
}

// NewCodec creates a JPEG 2000 codec registered under the given name and
// file extension.
func NewCodec(name, ext string) *Codec {
	return &Codec{name: name, ext: ext}
}

// Name returns the registry name
func (c *Codec) Name() string {
	return c.name
}

// Extension returns the output file extension
func (c *Codec) Extension() string {
	return c.ext
}

// Encode encodes an intensity image to a JPEG 2000 codestream.
func (c *Codec) Encode(img *cube.Image, params convert.Parameters) ([]byte, error) {
	if img == nil || len(img.Comps) == 0 {
		return nil, fmt.Errorf("%w: image has no components", convert.ErrInvalidParameter)
	}

	p := c.extractParameters(params)
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid JPEG 2000 parameters: %w", err)
	}

	first := &img.Comps[0]
	for i := 1; i < len(img.Comps); i++ {
		cc := &img.Comps[i]
		if cc.Width != first.Width || cc.Height != first.Height ||
			cc.Precision != first.Precision || cc.Signed != first.Signed {
			return nil, fmt.Errorf("%w: component %d schema differs from component 0", convert.ErrInvalidParameter, i)
		}
	}

	ep := jpeg2000.DefaultEncodeParams(first.Width, first.Height, len(img.Comps), first.Precision, first.Signed)
	ep.Lossless = p.Lossless()
	if !ep.Lossless {
		ep.Quality = qualityFor(p)
	}
	ep.NumLevels = p.NumLevels
	ep.NumLayers = p.Layers()
	ep.ProgressionOrder = progressionOrders[p.ProgressionOrder]
	ep.TileWidth = p.TileWidth
	ep.TileHeight = p.TileHeight
	ep.CodeBlockWidth = p.CodeBlockWidth
	ep.CodeBlockHeight = p.CodeBlockHeight

	components := make([][]int32, len(img.Comps))
	for i := range img.Comps {
		components[i] = img.Comps[i].Data
	}

	data, err := jpeg2000.NewEncoder(ep).EncodeComponents(components)
	if err != nil {
		return nil, fmt.Errorf("JPEG 2000 encode failed: %w", err)
	}
	return data, nil
}

// Decode decodes a JPEG 2000 codestream back into an intensity image.
func (c *Codec) Decode(data []byte) (*cube.Image, error) {
	dec := jpeg2000.NewDecoder()
	if err := dec.Decode(data); err != nil {
		return nil, fmt.Errorf("JPEG 2000 decode failed: %w", err)
	}

	img := &cube.Image{
		Width:      dec.Width(),
		Height:     dec.Height(),
		ColorSpace: cube.ColorSpaceGray,
		Comps:      make([]cube.Component, dec.Components()),
	}
	if dec.Components() > 1 {
		img.ColorSpace = cube.ColorSpaceSRGB
	}
	for i := range img.Comps {
		samples, err := dec.GetComponentData(i)
		if err != nil {
			return nil, fmt.Errorf("JPEG 2000 decode failed: %w", err)
		}
		img.Comps[i] = cube.Component{
			Width:     dec.Width(),
			Height:    dec.Height(),
			Precision: dec.BitDepth(),
			Signed:    dec.IsSigned(),
			Data:      samples,
		}
	}
	return img, nil
}

// extractParameters narrows the generic surface to EncodeParameters,
// falling back to defaults when given nil or a foreign implementation.
func (c *Codec) extractParameters(params convert.Parameters) *EncodeParameters {
	if p, ok := params.(*EncodeParameters); ok && p != nil {
		return p
	}
	return NewEncodeParameters()
}

// qualityFor maps the layer ladder onto the backing encoder's 1-100 quality
// knob. An explicit quality ladder uses its best (last) entry; a ratio
// ladder is inverted, so ratio 1 maps to 100 and higher ratios compress
// harder.
func qualityFor(p *EncodeParameters) int {
	if n := len(p.Quality); n > 0 {
		return clampQuality(int(p.Quality[n-1] + 0.5))
	}
	if n := len(p.Rates); n > 0 {
		return clampQuality(int(100.0/p.Rates[n-1] + 0.5))
	}
	return 80
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// RegisterJPEG2000Codecs registers the JP2 and raw codestream output
// formats in the default registry.
func RegisterJPEG2000Codecs() {
	convert.Register(NewCodec("jp2", ".jp2"))
	convert.Register(NewCodec("j2k", ".j2k"))
}

func init() {
	RegisterJPEG2000Codecs()
}

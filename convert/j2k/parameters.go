package j2k

import (
	"fmt"

	"github.com/ICRAR/f2j/convert"
)

// Ensure EncodeParameters implements convert.Parameters
var _ convert.Parameters = (*EncodeParameters)(nil)

// Progression order names accepted by WithProgressionOrder.
var progressionOrders = map[string]uint8{
	"LRCP": 0,
	"RLCP": 1,
	"RPCL": 2,
	"PCRL": 3,
	"CPRL": 4,
}

// EncodeParameters contains the JPEG 2000 encoding surface exposed to
// conversion callers. The zero value (after Validate) encodes lossless with
// a reversible wavelet.
type EncodeParameters struct {
	// Rates holds compression ratios, one per quality layer, best layer
	// last (e.g. 20,10,5). Mutually exclusive with Quality.
	Rates []float64

	// Quality holds quality values (1-100, higher is better), one per
	// layer. Mutually exclusive with Rates.
	Quality []float64

	// Irreversible selects the irreversible 9/7 wavelet; the default is
	// the reversible 5/3.
	Irreversible bool

	// NumLevels specifies the number of wavelet decomposition levels
	// (0-6). Default: 5.
	NumLevels int

	// ProgressionOrder is one of LRCP, RLCP, RPCL, PCRL, CPRL.
	// Default: LRCP.
	ProgressionOrder string

	// TileWidth and TileHeight partition the image; 0 means a single tile.
	TileWidth  int
	TileHeight int

	// CodeBlockWidth and CodeBlockHeight are powers of two in 4..1024
	// whose product must not exceed 4096. Default: 64x64.
	CodeBlockWidth  int
	CodeBlockHeight int

	// internal storage for compatibility with the generic parameter surface
	params map[string]interface{}
}

// NewEncodeParameters creates EncodeParameters with default values.
func NewEncodeParameters() *EncodeParameters {
	return &EncodeParameters{
		NumLevels:        5,
		ProgressionOrder: "LRCP",
		CodeBlockWidth:   64,
		CodeBlockHeight:  64,
		params:           make(map[string]interface{}),
	}
}

// Lossless reports whether these parameters request a fully lossless
// encode: no rate or quality layers and a reversible wavelet.
func (p *EncodeParameters) Lossless() bool {
	return len(p.Rates) == 0 && len(p.Quality) == 0 && !p.Irreversible
}

// Layers returns the number of quality layers implied by the rate or
// quality ladders, at least 1.
func (p *EncodeParameters) Layers() int {
	if n := len(p.Rates); n > 0 {
		return n
	}
	if n := len(p.Quality); n > 0 {
		return n
	}
	return 1
}

// Validate checks if the parameters are valid and normalizes values.
func (p *EncodeParameters) Validate() error {
	if len(p.Rates) > 0 && len(p.Quality) > 0 {
		return fmt.Errorf("%w: rates and quality layers are mutually exclusive", convert.ErrInvalidParameter)
	}
	for _, r := range p.Rates {
		if r < 1 {
			return fmt.Errorf("%w: compression ratio %g is below 1", convert.ErrInvalidParameter, r)
		}
	}
	for _, q := range p.Quality {
		if q < 1 || q > 100 {
			return fmt.Errorf("%w: quality %g is outside 1-100", convert.ErrInvalidParameter, q)
		}
	}
	if p.NumLevels < 0 || p.NumLevels > 6 {
		p.NumLevels = 5
	}
	if p.ProgressionOrder == "" {
		p.ProgressionOrder = "LRCP"
	}
	if _, ok := progressionOrders[p.ProgressionOrder]; !ok {
		return fmt.Errorf("%w: unknown progression order %q", convert.ErrInvalidParameter, p.ProgressionOrder)
	}
	if p.CodeBlockWidth == 0 && p.CodeBlockHeight == 0 {
		p.CodeBlockWidth, p.CodeBlockHeight = 64, 64
	}
	if err := validateCodeBlock(p.CodeBlockWidth); err != nil {
		return err
	}
	if err := validateCodeBlock(p.CodeBlockHeight); err != nil {
		return err
	}
	if p.CodeBlockWidth*p.CodeBlockHeight > 4096 {
		return fmt.Errorf("%w: code-block area %dx%d exceeds 4096", convert.ErrInvalidParameter, p.CodeBlockWidth, p.CodeBlockHeight)
	}
	if p.TileWidth < 0 || p.TileHeight < 0 {
		return fmt.Errorf("%w: negative tile size", convert.ErrInvalidParameter)
	}
	return nil
}

func validateCodeBlock(n int) error {
	if n < 4 || n > 1024 || n&(n-1) != 0 {
		return fmt.Errorf("%w: code-block dimension %d must be a power of two in 4..1024", convert.ErrInvalidParameter, n)
	}
	return nil
}

// GetParameter retrieves a parameter by name (implements convert.Parameters).
func (p *EncodeParameters) GetParameter(name string) interface{} {
	switch name {
	case "rates":
		return p.Rates
	case "quality":
		return p.Quality
	case "irreversible":
		return p.Irreversible
	case "numLevels":
		return p.NumLevels
	case "progressionOrder":
		return p.ProgressionOrder
	case "tileWidth":
		return p.TileWidth
	case "tileHeight":
		return p.TileHeight
	case "codeBlockWidth":
		return p.CodeBlockWidth
	case "codeBlockHeight":
		return p.CodeBlockHeight
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements convert.Parameters).
func (p *EncodeParameters) SetParameter(name string, value interface{}) {
	switch name {
	case "rates":
		if v, ok := value.([]float64); ok {
			p.Rates = v
		}
	case "quality":
		if v, ok := value.([]float64); ok {
			p.Quality = v
		}
	case "irreversible":
		if v, ok := value.(bool); ok {
			p.Irreversible = v
		}
	case "numLevels":
		if v, ok := value.(int); ok {
			p.NumLevels = v
		}
	case "progressionOrder":
		if v, ok := value.(string); ok {
			p.ProgressionOrder = v
		}
	case "tileWidth":
		if v, ok := value.(int); ok {
			p.TileWidth = v
		}
	case "tileHeight":
		if v, ok := value.(int); ok {
			p.TileHeight = v
		}
	case "codeBlockWidth":
		if v, ok := value.(int); ok {
			p.CodeBlockWidth = v
		}
	case "codeBlockHeight":
		if v, ok := value.(int); ok {
			p.CodeBlockHeight = v
		}
	default:
		if p.params == nil {
			p.params = make(map[string]interface{})
		}
		p.params[name] = value
	}
}

// WithRates sets the compression-ratio ladder and returns the parameters
// for chaining.
func (p *EncodeParameters) WithRates(rates []float64) *EncodeParameters {
	p.Rates = rates
	return p
}

// WithQuality sets the quality ladder and returns the parameters for
// chaining.
func (p *EncodeParameters) WithQuality(quality []float64) *EncodeParameters {
	p.Quality = quality
	return p
}

// WithIrreversible sets wavelet mode and returns the parameters for chaining.
func (p *EncodeParameters) WithIrreversible(irreversible bool) *EncodeParameters {
	p.Irreversible = irreversible
	return p
}

// WithNumLevels sets the number of wavelet levels and returns the
// parameters for chaining.
func (p *EncodeParameters) WithNumLevels(levels int) *EncodeParameters {
	p.NumLevels = levels
	return p
}

// WithProgressionOrder sets the progression order and returns the
// parameters for chaining.
func (p *EncodeParameters) WithProgressionOrder(order string) *EncodeParameters {
	p.ProgressionOrder = order
	return p
}

// WithTileSize sets the tile dimensions and returns the parameters for
// chaining.
func (p *EncodeParameters) WithTileSize(width, height int) *EncodeParameters {
	p.TileWidth = width
	p.TileHeight = height
	return p
}

// WithCodeBlockSize sets the code-block dimensions and returns the
// parameters for chaining.
func (p *EncodeParameters) WithCodeBlockSize(width, height int) *EncodeParameters {
	p.CodeBlockWidth = width
	p.CodeBlockHeight = height
	return p
}

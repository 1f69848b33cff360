// Package dicomcube adapts a multi-frame DICOM file to the cube.Source
// boundary. Each frame of the file is a cube frame; each sample channel
// (SamplesPerPixel) maps to a stoke of the cube.
package dicomcube

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/element"
	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"

	"github.com/ICRAR/f2j/cube"
)

var _ cube.Source = (*Source)(nil)

// Source reads sample planes out of one parsed DICOM file. The whole
// native pixel buffer is held in memory; planes are materialized on demand.
type Source struct {
	path       string
	rows       int
	cols       int
	bitsStored int
	signed     bool
	channels   int
	frames     int
	pixels     []byte // native little-endian sample data
}

// Open parses a DICOM file and prepares it as a plane source. Encapsulated
// (compressed) pixel data is transcoded to native form first, using
// whatever codecs are registered in the global registry.
func Open(path string) (*Source, error) {
	result, err := parser.ParseFile(path,
		parser.WithReadOption(parser.ReadAll),
		parser.WithLargeObjectSize(100*1024*1024),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", cube.ErrSourceRead, path, err)
	}

	ds := result.Dataset
	ts := result.TransferSyntax
	if ts.IsEncapsulated() {
		registry := codec.GetGlobalRegistry()
		transcoder := codec.NewTranscoder(ts, transfer.ExplicitVRLittleEndian, codec.WithCodecRegistry(registry))
		newDS, err := transcoder.Transcode(ds)
		if err != nil {
			return nil, fmt.Errorf("%w: transcoding %s to native: %w", cube.ErrSourceRead, path, err)
		}
		ds = newDS
	}

	s := &Source{
		path:       path,
		rows:       int(ds.TryGetUInt16(tag.Rows, 0)),
		cols:       int(ds.TryGetUInt16(tag.Columns, 0)),
		bitsStored: int(ds.TryGetUInt16(tag.BitsStored, 0)),
		signed:     ds.TryGetUInt16(tag.PixelRepresentation, 0) != 0,
		channels:   int(ds.TryGetUInt16(tag.SamplesPerPixel, 1)),
	}
	if s.rows <= 0 || s.cols <= 0 {
		return nil, fmt.Errorf("%w: %s declares empty geometry %dx%d", cube.ErrSourceRead, path, s.cols, s.rows)
	}
	if s.bitsStored < 1 || s.bitsStored > 16 {
		return nil, fmt.Errorf("%w: %s has unsupported bit depth %d", cube.ErrSourceRead, path, s.bitsStored)
	}
	if s.channels < 1 {
		s.channels = 1
	}

	pd, ok := ds.Get(tag.PixelData)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no pixel data", cube.ErrSourceRead, path)
	}
	switch v := pd.(type) {
	case *element.OtherByte:
		s.pixels = v.GetData()
	case *element.OtherWord:
		s.pixels = v.GetData()
	default:
		return nil, fmt.Errorf("%w: %s has unexpected pixel data type %T", cube.ErrSourceRead, path, pd)
	}

	frameBytes := s.rows * s.cols * s.channels * s.bytesPerSample()
	if frameBytes == 0 || len(s.pixels)%frameBytes != 0 {
		return nil, fmt.Errorf("%w: %s pixel data length %d does not divide into %d-byte frames",
			cube.ErrSourceRead, path, len(s.pixels), frameBytes)
	}
	s.frames = len(s.pixels) / frameBytes
	if s.frames == 0 {
		return nil, fmt.Errorf("%w: %s has no frames", cube.ErrSourceRead, path)
	}
	return s, nil
}

// Path returns the file this source was opened from.
func (s *Source) Path() string {
	return s.path
}

// Planes returns the frame count and the channel count mapped to the
// stoke axis.
func (s *Source) Planes() (frames, stokes int) {
	return s.frames, s.channels
}

// DeclaredRange always reports no declared range: the dynamic range of a
// plane is discovered by scanning it.
func (s *Source) DeclaredRange() (min, max float64, ok bool) {
	return 0, 0, false
}

// ComponentBitWidth returns 8 for byte-deep files and 16 otherwise.
func (s *Source) ComponentBitWidth() int {
	if s.bitsStored <= 8 {
		return 8
	}
	return 16
}

// ReadPlane extracts one channel of one frame as a typed sample plane.
func (s *Source) ReadPlane(frame, stoke int) (*cube.Plane, error) {
	if frame < 0 || frame >= s.frames || stoke < 0 || stoke >= s.channels {
		return nil, &cube.ReadError{Frame: frame, Stoke: stoke,
			Err: fmt.Errorf("plane out of range (%d frames, %d stokes)", s.frames, s.channels)}
	}

	n := s.rows * s.cols
	p := &cube.Plane{
		Frame:  frame,
		Stoke:  stoke,
		Width:  s.cols,
		Height: s.rows,
	}

	bytesPer := s.bytesPerSample()
	base := frame * n * s.channels * bytesPer

	switch {
	case s.bitsStored <= 8 && !s.signed:
		samples := make([]uint8, n)
		for i := 0; i < n; i++ {
			samples[i] = s.pixels[base+(i*s.channels+stoke)]
		}
		p.Type, p.Samples = cube.SampleUint8, samples
	case s.bitsStored <= 8:
		samples := make([]int8, n)
		for i := 0; i < n; i++ {
			raw := int32(s.pixels[base+(i*s.channels+stoke)])
			samples[i] = int8(signExtend(raw, s.bitsStored))
		}
		p.Type, p.Samples = cube.SampleInt8, samples
	case !s.signed:
		samples := make([]uint16, n)
		for i := 0; i < n; i++ {
			off := base + (i*s.channels+stoke)*2
			samples[i] = binary.LittleEndian.Uint16(s.pixels[off:])
		}
		p.Type, p.Samples = cube.SampleUint16, samples
	default:
		samples := make([]int16, n)
		for i := 0; i < n; i++ {
			off := base + (i*s.channels+stoke)*2
			raw := int32(binary.LittleEndian.Uint16(s.pixels[off:]))
			samples[i] = int16(signExtend(raw, s.bitsStored))
		}
		p.Type, p.Samples = cube.SampleInt16, samples
	}
	return p, nil
}

func (s *Source) bytesPerSample() int {
	if s.bitsStored <= 8 {
		return 1
	}
	return 2
}

// signExtend interprets the low bits of raw as a two's-complement value of
// the stored width.
func signExtend(raw int32, bits int) int32 {
	signBit := int32(1) << uint(bits-1)
	if raw >= signBit {
		raw -= signBit << 1
	}
	return raw
}

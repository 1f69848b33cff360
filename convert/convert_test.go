package convert_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/ICRAR/f2j/benchmark"
	"github.com/ICRAR/f2j/convert"
	"github.com/ICRAR/f2j/cube"
	"github.com/ICRAR/f2j/intensity"
)

// memSource serves float64 gradient planes from memory.
type memSource struct {
	width    int
	height   int
	frames   int
	stokes   int
	failAt   int // frame index that fails to read, -1 for none
	declared *intensity.Range
}

func (s *memSource) Planes() (frames, stokes int) { return s.frames, s.stokes }

func (s *memSource) DeclaredRange() (min, max float64, ok bool) {
	if s.declared == nil {
		return 0, 0, false
	}
	return s.declared.Min, s.declared.Max, true
}

func (s *memSource) ComponentBitWidth() int { return 16 }

func (s *memSource) ReadPlane(frame, stoke int) (*cube.Plane, error) {
	if frame == s.failAt {
		return nil, &cube.ReadError{Frame: frame, Stoke: stoke, Err: errors.New("simulated corrupt plane")}
	}
	samples := make([]float64, s.width*s.height)
	for i := range samples {
		samples[i] = float64(i + frame + stoke)
	}
	return &cube.Plane{
		Frame: frame, Stoke: stoke,
		Width: s.width, Height: s.height,
		Type: cube.SampleFloat64, Samples: samples,
	}, nil
}

// memCodec stores encoded images in memory under an opaque token and
// returns them from Decode with a fixed distortion added.
type memCodec struct {
	images     map[string]*cube.Image
	distortion int32
}

func newMemCodec(distortion int32) *memCodec {
	return &memCodec{images: make(map[string]*cube.Image), distortion: distortion}
}

func (c *memCodec) Name() string      { return "mem" }
func (c *memCodec) Extension() string { return ".mem" }

func (c *memCodec) Encode(img *cube.Image, params convert.Parameters) ([]byte, error) {
	token := strconv.Itoa(len(c.images))
	clone := *img
	clone.Comps = make([]cube.Component, len(img.Comps))
	for i, comp := range img.Comps {
		clone.Comps[i] = comp
		clone.Comps[i].Data = append([]int32(nil), comp.Data...)
	}
	c.images[token] = &clone
	return []byte(token), nil
}

func (c *memCodec) Decode(data []byte) (*cube.Image, error) {
	img, ok := c.images[string(data)]
	if !ok {
		return nil, fmt.Errorf("unknown token %q", data)
	}
	clone := *img
	clone.Comps = make([]cube.Component, len(img.Comps))
	for i, comp := range img.Comps {
		clone.Comps[i] = comp
		clone.Comps[i].Data = append([]int32(nil), comp.Data...)
		for k := range clone.Comps[i].Data {
			v := clone.Comps[i].Data[k] + c.distortion
			if v < 0 {
				v = 0
			}
			clone.Comps[i].Data[k] = v
		}
	}
	return &clone, nil
}

// lossyParams flags itself as not lossless so the orchestrator writes the
// lossless companion.
type lossyParams struct{}

func (lossyParams) Validate() error                  { return nil }
func (lossyParams) GetParameter(string) interface{}  { return nil }
func (lossyParams) SetParameter(string, interface{}) {}
func (lossyParams) Lossless() bool                   { return false }

func TestConvertAllPlanes(t *testing.T) {
	dir := t.TempDir()
	src := &memSource{width: 8, height: 8, frames: 3, stokes: 2, failAt: -1}
	codec := newMemCodec(0)

	opts := &convert.Options{
		Transform: intensity.KindLinear,
		OutputDir: dir,
		Prefix:    "cube",
		Frame:     -1,
	}
	outputs, err := convert.Convert(src, codec, opts, nil)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if len(outputs) != 6 {
		t.Fatalf("got %d outputs, want 6", len(outputs))
	}

	for _, out := range outputs {
		want := filepath.Join(dir, fmt.Sprintf("cube_%d_%d.mem", out.Frame, out.Stoke))
		if out.Path != want {
			t.Errorf("path = %q, want %q", out.Path, want)
		}
		if _, err := os.Stat(out.Path); err != nil {
			t.Errorf("output file missing: %v", err)
		}
		if out.Benchmark != nil {
			t.Error("benchmark result present although none was requested")
		}
	}
}

func TestConvertSingleFrame(t *testing.T) {
	dir := t.TempDir()
	src := &memSource{width: 4, height: 4, frames: 5, stokes: 1, failAt: -1}

	opts := &convert.Options{OutputDir: dir, Frame: 2}
	outputs, err := convert.Convert(src, newMemCodec(0), opts, nil)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("got %d outputs, want 1", len(outputs))
	}
	if outputs[0].Frame != 2 {
		t.Errorf("converted frame %d, want 2", outputs[0].Frame)
	}

	if _, err := convert.Convert(src, newMemCodec(0), &convert.Options{OutputDir: dir, Frame: 5}, nil); err == nil {
		t.Error("Convert() with out-of-range frame returned no error")
	}
}

func TestConvertBenchmarkAndResidual(t *testing.T) {
	dir := t.TempDir()
	src := &memSource{width: 8, height: 8, frames: 1, stokes: 1, failAt: -1}

	req := benchmark.AllMetrics()
	req.WriteResidual = true
	opts := &convert.Options{
		OutputDir: dir,
		Frame:     -1,
		Benchmark: req,
	}
	outputs, err := convert.Convert(src, newMemCodec(5), opts, nil)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	out := outputs[0]
	if out.Benchmark == nil {
		t.Fatal("no benchmark result attached")
	}
	cr := out.Benchmark.Components[0]
	if !cr.MeanAbsoluteError.Defined {
		t.Fatal("MAE undefined")
	}
	// Distortion adds 5 to every decoded pixel, except those clamped at 0.
	if cr.MeanAbsoluteError.Value > 5 || cr.MeanAbsoluteError.Value == 0 {
		t.Errorf("MAE = %v, want in (0, 5]", cr.MeanAbsoluteError.Value)
	}
	if out.ResidualPath == "" {
		t.Fatal("no residual written")
	}
	if _, err := os.Stat(out.ResidualPath); err != nil {
		t.Errorf("residual file missing: %v", err)
	}
	if filepath.Base(out.ResidualPath) != "plane_0_0_RESIDUAL.mem" {
		t.Errorf("residual name = %q, want plane_0_0_RESIDUAL.mem", filepath.Base(out.ResidualPath))
	}
}

func TestConvertBatchAbort(t *testing.T) {
	dir := t.TempDir()
	src := &memSource{width: 4, height: 4, frames: 3, stokes: 1, failAt: 1}

	outputs, err := convert.Convert(src, newMemCodec(0), &convert.Options{OutputDir: dir, Frame: -1}, nil)
	if err == nil {
		t.Fatal("Convert() returned no error for a corrupt plane")
	}
	if !errors.Is(err, cube.ErrSourceRead) {
		t.Errorf("error = %v, want it to match cube.ErrSourceRead", err)
	}
	// The frame before the failure was converted; nothing after it was.
	if len(outputs) != 1 || outputs[0].Frame != 0 {
		t.Errorf("outputs = %+v, want exactly frame 0", outputs)
	}
}

func TestConvertLosslessCompanion(t *testing.T) {
	dir := t.TempDir()
	src := &memSource{width: 4, height: 4, frames: 1, stokes: 1, failAt: -1}

	// Lossy main encode: companion requested and written.
	opts := &convert.Options{
		OutputDir:         dir,
		Frame:             -1,
		Parameters:        lossyParams{},
		LosslessCompanion: true,
	}
	outputs, err := convert.Convert(src, newMemCodec(0), opts, nil)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if outputs[0].CompanionPath == "" {
		t.Fatal("no lossless companion written")
	}
	if filepath.Base(outputs[0].CompanionPath) != "plane_0_0_LOSSLESS.mem" {
		t.Errorf("companion name = %q, want plane_0_0_LOSSLESS.mem", filepath.Base(outputs[0].CompanionPath))
	}

	// Lossless main encode (nil parameters): companion suppressed.
	opts.Parameters = nil
	outputs, err = convert.Convert(src, newMemCodec(0), opts, nil)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if outputs[0].CompanionPath != "" {
		t.Error("companion written although the main encode is lossless")
	}
}

func TestConvertDeclaredRangeUsed(t *testing.T) {
	dir := t.TempDir()
	// Declared range wider than the data: the peak sample must not reach
	// the intensity maximum.
	src := &memSource{
		width: 2, height: 2, frames: 1, stokes: 1, failAt: -1,
		declared: &intensity.Range{Min: 0, Max: 1000},
	}
	codec := newMemCodec(0)

	_, err := convert.Convert(src, codec, &convert.Options{OutputDir: dir, Frame: -1, Transform: intensity.KindLinear}, nil)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	img := codec.images["0"]
	for _, v := range img.Comps[0].Data {
		if v >= 65535 {
			t.Errorf("pixel = %d; declared range should keep intensities below the maximum", v)
		}
	}
}

func TestConvertNilArguments(t *testing.T) {
	if _, err := convert.Convert(nil, newMemCodec(0), nil, nil); !errors.Is(err, convert.ErrNilSource) {
		t.Errorf("error = %v, want %v", err, convert.ErrNilSource)
	}
	src := &memSource{width: 1, height: 1, frames: 1, stokes: 1, failAt: -1}
	if _, err := convert.Convert(src, nil, nil, nil); !errors.Is(err, convert.ErrCodecNotFound) {
		t.Errorf("error = %v, want %v", err, convert.ErrCodecNotFound)
	}
}

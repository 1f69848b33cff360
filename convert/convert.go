// Package convert drives the plane-by-plane conversion of a scientific
// data cube into compressed images: read, intensity-transform, encode,
// optionally decode back and benchmark.
package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ICRAR/f2j/benchmark"
	"github.com/ICRAR/f2j/cube"
	"github.com/ICRAR/f2j/intensity"
)

// Options control a conversion run.
type Options struct {
	// Transform selects the intensity scale. KindDefault resolves per
	// plane from the sample type.
	Transform intensity.Kind

	// Range overrides dynamic-range discovery. When nil the source's
	// declared range is used, and failing that each plane is scanned.
	Range *intensity.Range

	// Noise optionally perturbs every transformed intensity.
	Noise intensity.Perturber

	// Parameters are passed to the codec; nil means codec defaults
	// (lossless for JPEG 2000).
	Parameters Parameters

	// Benchmark selects the quality metrics computed after a decode of
	// the freshly written codestream. The zero value disables the
	// decode pass entirely.
	Benchmark benchmark.Request

	// OutputDir receives the written files. Empty means the current
	// directory.
	OutputDir string

	// Prefix is the output basename prefix. Default: "plane".
	Prefix string

	// Frame restricts the run to a single frame index; -1 converts all.
	Frame int

	// LosslessCompanion writes an additional lossless encode of each
	// plane. Suppressed when the main encode is already lossless.
	LosslessCompanion bool
}

// PlaneOutput describes the files written for one plane.
type PlaneOutput struct {
	Frame int
	Stoke int

	// Path of the main codestream.
	Path string

	// CompanionPath of the lossless companion, empty when not written.
	CompanionPath string

	// ResidualPath of the residual image, empty when not written.
	ResidualPath string

	// Benchmark holds the comparison result, nil when no metrics were
	// requested.
	Benchmark *benchmark.Result
}

// Convert runs the conversion pipeline over every selected plane of the
// source. The first failing plane aborts the batch; everything written so
// far stays on disk and is described by the returned outputs.
func Convert(src cube.Source, codec Codec, opts *Options, rep benchmark.Reporter) ([]PlaneOutput, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if codec == nil {
		return nil, ErrCodecNotFound
	}
	if opts == nil {
		opts = &Options{Frame: -1}
	}
	if rep == nil {
		rep = benchmark.Discard
	}

	frames, stokes := src.Planes()
	if frames < 1 || stokes < 1 {
		return nil, ErrNoPlanes
	}
	if opts.Frame >= frames {
		return nil, fmt.Errorf("%w: frame %d of %d", ErrInvalidParameter, opts.Frame, frames)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "plane"
	}

	var outputs []PlaneOutput
	for frame := 0; frame < frames; frame++ {
		if opts.Frame >= 0 && frame != opts.Frame {
			continue
		}
		for stoke := 0; stoke < stokes; stoke++ {
			out, err := convertPlane(src, codec, opts, rep, prefix, frame, stoke)
			if err != nil {
				return outputs, fmt.Errorf("converting frame=%d stoke=%d: %w", frame, stoke, err)
			}
			outputs = append(outputs, out)
		}
	}
	return outputs, nil
}

func convertPlane(src cube.Source, codec Codec, opts *Options, rep benchmark.Reporter, prefix string, frame, stoke int) (PlaneOutput, error) {
	out := PlaneOutput{Frame: frame, Stoke: stoke}

	plane, err := src.ReadPlane(frame, stoke)
	if err != nil {
		return out, err
	}

	rng, err := planeRange(src, plane, opts)
	if err != nil {
		return out, err
	}

	img, err := intensity.Transform(plane, opts.Transform, rng, &intensity.Options{Noise: opts.Noise})
	if err != nil {
		return out, err
	}

	data, err := codec.Encode(img, opts.Parameters)
	if err != nil {
		return out, err
	}

	base := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_%d_%d", prefix, frame, stoke))
	out.Path = base + codec.Extension()
	if err := os.WriteFile(out.Path, data, 0o644); err != nil {
		return out, fmt.Errorf("writing %s: %w", out.Path, err)
	}

	if opts.LosslessCompanion && !losslessParameters(opts.Parameters) {
		companion, err := codec.Encode(img, nil)
		if err != nil {
			return out, err
		}
		out.CompanionPath = base + "_LOSSLESS" + codec.Extension()
		if err := os.WriteFile(out.CompanionPath, companion, 0o644); err != nil {
			return out, fmt.Errorf("writing %s: %w", out.CompanionPath, err)
		}
	}

	if !opts.Benchmark.Any() {
		return out, nil
	}

	decoded, err := codec.Decode(data)
	if err != nil {
		return out, err
	}
	result, err := benchmark.Compare(img, decoded, opts.Benchmark, rep)
	if err != nil {
		return out, err
	}
	out.Benchmark = result

	if result.Residual != nil {
		// The residual is written lossless regardless of the main
		// encode's parameters.
		residual, err := codec.Encode(result.Residual, nil)
		if err != nil {
			return out, err
		}
		out.ResidualPath = base + "_RESIDUAL" + codec.Extension()
		if err := os.WriteFile(out.ResidualPath, residual, 0o644); err != nil {
			return out, fmt.Errorf("writing %s: %w", out.ResidualPath, err)
		}
	}
	return out, nil
}

// planeRange resolves the dynamic range for one plane: explicit override,
// then the source's declared range, then a scan of the plane itself.
func planeRange(src cube.Source, plane *cube.Plane, opts *Options) (intensity.Range, error) {
	if opts.Range != nil {
		return *opts.Range, nil
	}
	if min, max, ok := src.DeclaredRange(); ok {
		return intensity.Range{Min: min, Max: max}, nil
	}
	return intensity.AnalyzeRange(plane)
}

// losslessParameters reports whether the parameters describe a fully
// lossless encode. Codecs advertise this through an optional method.
func losslessParameters(params Parameters) bool {
	if params == nil {
		return true
	}
	if lp, ok := params.(interface{ Lossless() bool }); ok {
		return lp.Lossless()
	}
	return false
}

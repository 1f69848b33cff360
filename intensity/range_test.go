package intensity_test

import (
	"errors"
	"testing"

	"github.com/ICRAR/f2j/cube"
	"github.com/ICRAR/f2j/intensity"
)

func TestAnalyzeRange(t *testing.T) {
	tests := []struct {
		name    string
		plane   *cube.Plane
		wantMin float64
		wantMax float64
	}{
		{
			name: "float64 gradient",
			plane: &cube.Plane{
				Width: 4, Height: 1, Type: cube.SampleFloat64,
				Samples: []float64{3.5, -2.25, 0, 7.125},
			},
			wantMin: -2.25,
			wantMax: 7.125,
		},
		{
			name: "int16 negatives",
			plane: &cube.Plane{
				Width: 3, Height: 1, Type: cube.SampleInt16,
				Samples: []int16{-32768, 0, 32767},
			},
			wantMin: -32768,
			wantMax: 32767,
		},
		{
			name: "uint8 single value",
			plane: &cube.Plane{
				Width: 1, Height: 1, Type: cube.SampleUint8,
				Samples: []uint8{200},
			},
			wantMin: 200,
			wantMax: 200,
		},
		{
			name: "descending float32",
			plane: &cube.Plane{
				Width: 3, Height: 1, Type: cube.SampleFloat32,
				Samples: []float32{9, 5, 1},
			},
			wantMin: 1,
			wantMax: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := intensity.AnalyzeRange(tt.plane)
			if err != nil {
				t.Fatalf("AnalyzeRange() unexpected error: %v", err)
			}
			if rng.Min != tt.wantMin {
				t.Errorf("Min = %v, want %v", rng.Min, tt.wantMin)
			}
			if rng.Max != tt.wantMax {
				t.Errorf("Max = %v, want %v", rng.Max, tt.wantMax)
			}
		})
	}
}

func TestAnalyzeRangeEmpty(t *testing.T) {
	plane := &cube.Plane{Width: 0, Height: 0, Type: cube.SampleFloat64, Samples: []float64{}}
	if _, err := intensity.AnalyzeRange(plane); !errors.Is(err, intensity.ErrEmptyInput) {
		t.Errorf("AnalyzeRange(empty) error = %v, want %v", err, intensity.ErrEmptyInput)
	}

	plane = &cube.Plane{Width: 1, Height: 1}
	if _, err := intensity.AnalyzeRange(plane); !errors.Is(err, intensity.ErrEmptyInput) {
		t.Errorf("AnalyzeRange(nil samples) error = %v, want %v", err, intensity.ErrEmptyInput)
	}
}

func TestRangeDegenerate(t *testing.T) {
	if !(intensity.Range{Min: 5, Max: 5}).Degenerate() {
		t.Error("Range{5,5}.Degenerate() = false, want true")
	}
	if (intensity.Range{Min: 5, Max: 6}).Degenerate() {
		t.Error("Range{5,6}.Degenerate() = true, want false")
	}
}

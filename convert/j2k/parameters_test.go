package j2k_test

import (
	"errors"
	"testing"

	"github.com/ICRAR/f2j/convert"
	"github.com/ICRAR/f2j/convert/j2k"
)

func TestEncodeParametersDefaults(t *testing.T) {
	p := j2k.NewEncodeParameters()
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() on defaults: %v", err)
	}
	if !p.Lossless() {
		t.Error("defaults are not lossless")
	}
	if p.Layers() != 1 {
		t.Errorf("Layers() = %d, want 1", p.Layers())
	}
	if p.NumLevels != 5 {
		t.Errorf("NumLevels = %d, want 5", p.NumLevels)
	}
	if p.CodeBlockWidth != 64 || p.CodeBlockHeight != 64 {
		t.Errorf("code-block = %dx%d, want 64x64", p.CodeBlockWidth, p.CodeBlockHeight)
	}
}

func TestEncodeParametersValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*j2k.EncodeParameters)
		wantErr bool
	}{
		{
			name:   "rate ladder",
			mutate: func(p *j2k.EncodeParameters) { p.WithRates([]float64{20, 10, 5}) },
		},
		{
			name:   "quality ladder",
			mutate: func(p *j2k.EncodeParameters) { p.WithQuality([]float64{30, 60, 90}) },
		},
		{
			name: "rates and quality together",
			mutate: func(p *j2k.EncodeParameters) {
				p.WithRates([]float64{10}).WithQuality([]float64{80})
			},
			wantErr: true,
		},
		{
			name:    "ratio below one",
			mutate:  func(p *j2k.EncodeParameters) { p.WithRates([]float64{0.5}) },
			wantErr: true,
		},
		{
			name:    "quality above 100",
			mutate:  func(p *j2k.EncodeParameters) { p.WithQuality([]float64{150}) },
			wantErr: true,
		},
		{
			name:    "code-block below minimum",
			mutate:  func(p *j2k.EncodeParameters) { p.WithCodeBlockSize(2, 64) },
			wantErr: true,
		},
		{
			name:    "code-block not a power of two",
			mutate:  func(p *j2k.EncodeParameters) { p.WithCodeBlockSize(48, 64) },
			wantErr: true,
		},
		{
			name:    "code-block area above 4096",
			mutate:  func(p *j2k.EncodeParameters) { p.WithCodeBlockSize(128, 64) },
			wantErr: true,
		},
		{
			name:   "code-block at area limit",
			mutate: func(p *j2k.EncodeParameters) { p.WithCodeBlockSize(64, 64) },
		},
		{
			name:   "wide flat code-block",
			mutate: func(p *j2k.EncodeParameters) { p.WithCodeBlockSize(1024, 4) },
		},
		{
			name:    "unknown progression order",
			mutate:  func(p *j2k.EncodeParameters) { p.WithProgressionOrder("XXXX") },
			wantErr: true,
		},
		{
			name:   "RPCL progression",
			mutate: func(p *j2k.EncodeParameters) { p.WithProgressionOrder("RPCL") },
		},
		{
			name:    "negative tile size",
			mutate:  func(p *j2k.EncodeParameters) { p.WithTileSize(-1, 0) },
			wantErr: true,
		},
		{
			name:   "tiled",
			mutate: func(p *j2k.EncodeParameters) { p.WithTileSize(512, 512) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := j2k.NewEncodeParameters()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr {
				if !errors.Is(err, convert.ErrInvalidParameter) {
					t.Errorf("Validate() error = %v, want %v", err, convert.ErrInvalidParameter)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestEncodeParametersNormalization(t *testing.T) {
	p := j2k.NewEncodeParameters().WithNumLevels(9)
	p.ProgressionOrder = ""
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if p.NumLevels != 5 {
		t.Errorf("NumLevels = %d, want normalized 5", p.NumLevels)
	}
	if p.ProgressionOrder != "LRCP" {
		t.Errorf("ProgressionOrder = %q, want LRCP", p.ProgressionOrder)
	}
}

func TestEncodeParametersLossless(t *testing.T) {
	if j2k.NewEncodeParameters().WithRates([]float64{10}).Lossless() {
		t.Error("rate ladder reported lossless")
	}
	if j2k.NewEncodeParameters().WithIrreversible(true).Lossless() {
		t.Error("irreversible wavelet reported lossless")
	}
	if !j2k.NewEncodeParameters().Lossless() {
		t.Error("defaults reported lossy")
	}
}

func TestEncodeParametersGenericSurface(t *testing.T) {
	p := j2k.NewEncodeParameters()
	p.SetParameter("irreversible", true)
	p.SetParameter("numLevels", 3)
	p.SetParameter("progressionOrder", "CPRL")
	p.SetParameter("custom", 42)

	if got := p.GetParameter("irreversible"); got != true {
		t.Errorf("irreversible = %v, want true", got)
	}
	if got := p.GetParameter("numLevels"); got != 3 {
		t.Errorf("numLevels = %v, want 3", got)
	}
	if got := p.GetParameter("progressionOrder"); got != "CPRL" {
		t.Errorf("progressionOrder = %v, want CPRL", got)
	}
	if got := p.GetParameter("custom"); got != 42 {
		t.Errorf("custom = %v, want 42", got)
	}

	// A value of the wrong type is ignored, not coerced.
	p.SetParameter("numLevels", "six")
	if got := p.GetParameter("numLevels"); got != 3 {
		t.Errorf("numLevels after bad set = %v, want 3", got)
	}
}

var _ convert.Parameters = (*j2k.EncodeParameters)(nil)

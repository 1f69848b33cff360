// Command f2j converts a scientific data cube into JPEG 2000 images,
// optionally benchmarking the compression quality of every plane.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/ICRAR/f2j/benchmark"
	"github.com/ICRAR/f2j/config"
	"github.com/ICRAR/f2j/convert"
	"github.com/ICRAR/f2j/convert/j2k"
	"github.com/ICRAR/f2j/cube/dicomcube"
	"github.com/ICRAR/f2j/intensity"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "f2j: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func run() error {
	input := flag.String("input", "", "Input data cube (multi-frame DICOM file)")
	configPath := flag.String("config", "", "Conversion profile (YAML)")
	outDir := flag.String("output", "", "Output directory")
	prefix := flag.String("prefix", "", "Output basename prefix")
	format := flag.String("format", "", "Output format: jp2 or j2k")
	rates := flag.String("rates", "", "Comma-separated compression ratios, best layer last (e.g. 20,10,5)")
	quality := flag.String("quality", "", "Comma-separated quality layers 1-100 (mutually exclusive with -rates)")
	levels := flag.Int("levels", -1, "Wavelet decomposition levels (0-6)")
	progression := flag.String("progression", "", "Progression order: LRCP, RLCP, RPCL, PCRL or CPRL")
	tiles := flag.String("tiles", "", "Tile size as WxH (e.g. 512x512)")
	codeBlock := flag.String("codeblock", "", "Code-block size as WxH (power of two, 4-1024, area <= 4096)")
	irreversible := flag.Bool("irreversible", false, "Use the irreversible 9/7 wavelet")
	lossless := flag.Bool("lossless", false, "Also write a lossless encode of each plane")
	frame := flag.Int("frame", -1, "Convert a single frame index (-1 = all)")
	scale := flag.String("scale", "", "Intensity transform: raw, linear, log, sqrt, squared, power or a negative_ variant")
	noiseSigma := flag.Float64("noise", 0, "Gaussian noise standard deviation added to every intensity (0 = off)")
	noiseSeed := flag.Int64("seed", 1, "Noise generator seed")
	metrics := flag.String("benchmark", "", "Comma-separated quality metrics: se,mse,rmse,psnr,ae,mae,si,fidelity,mad or all")
	residual := flag.Bool("residual", false, "Write the residual image of each benchmarked plane")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		return fmt.Errorf("no input file")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, *outDir, *prefix, *format, *levels, *progression, *irreversible, *lossless, *residual)

	kind := intensity.KindDefault
	scaleName := cfg.Transform.Scale
	if *scale != "" {
		scaleName = *scale
	}
	if scaleName != "" {
		k, ok := intensity.ParseKind(scaleName)
		if !ok {
			fmt.Fprintf(os.Stderr, "f2j: unknown transform %q, using the type-driven default\n", scaleName)
		}
		kind = k
	}

	params := j2k.NewEncodeParameters().
		WithIrreversible(cfg.Encoding.Irreversible).
		WithNumLevels(cfg.Encoding.NumLevels).
		WithProgressionOrder(cfg.Encoding.ProgressionOrder).
		WithTileSize(cfg.Encoding.TileWidth, cfg.Encoding.TileHeight).
		WithCodeBlockSize(cfg.Encoding.CodeBlockWidth, cfg.Encoding.CodeBlockHeight)
	if *rates != "" {
		cfg.Encoding.Rates, err = parseFloats(*rates)
		if err != nil {
			return fmt.Errorf("parsing -rates: %w", err)
		}
	}
	if *quality != "" {
		cfg.Encoding.Quality, err = parseFloats(*quality)
		if err != nil {
			return fmt.Errorf("parsing -quality: %w", err)
		}
	}
	if *tiles != "" {
		w, h, err := parsePair(*tiles)
		if err != nil {
			return fmt.Errorf("parsing -tiles: %w", err)
		}
		params.WithTileSize(w, h)
	}
	if *codeBlock != "" {
		w, h, err := parsePair(*codeBlock)
		if err != nil {
			return fmt.Errorf("parsing -codeblock: %w", err)
		}
		params.WithCodeBlockSize(w, h)
	}
	params.WithRates(cfg.Encoding.Rates).WithQuality(cfg.Encoding.Quality)
	if err := params.Validate(); err != nil {
		return err
	}

	metricNames := cfg.Benchmark.Metrics
	if *metrics != "" {
		metricNames = strings.Split(*metrics, ",")
	}
	req, err := parseMetrics(metricNames)
	if err != nil {
		return err
	}
	req.WriteResidual = cfg.Benchmark.WriteResidual

	opts := &convert.Options{
		Transform:         kind,
		Parameters:        params,
		Benchmark:         req,
		OutputDir:         cfg.Output.Dir,
		Prefix:            cfg.Output.Prefix,
		Frame:             *frame,
		LosslessCompanion: cfg.Encoding.LosslessCompanion,
	}
	if cfg.Transform.UseRange {
		opts.Range = &intensity.Range{Min: cfg.Transform.Min, Max: cfg.Transform.Max}
	}
	sigma := cfg.Transform.NoiseSigma
	seed := cfg.Transform.NoiseSeed
	if *noiseSigma > 0 {
		sigma, seed = *noiseSigma, *noiseSeed
	}
	if sigma > 0 {
		opts.Noise = &intensity.GaussianNoise{
			Rand:  rand.New(rand.NewSource(seed)),
			Sigma: sigma,
		}
	}

	codec, err := convert.Lookup(cfg.Encoding.Format)
	if err != nil {
		return fmt.Errorf("output format %q: %w", cfg.Encoding.Format, err)
	}

	src, err := dicomcube.Open(*input)
	if err != nil {
		return err
	}

	reporter := &benchmark.LineReporter{W: os.Stderr}
	outputs, err := convert.Convert(src, codec, opts, reporter)
	if err != nil {
		return err
	}

	for _, out := range outputs {
		fmt.Printf("wrote %s\n", out.Path)
		if out.CompanionPath != "" {
			fmt.Printf("wrote %s\n", out.CompanionPath)
		}
		if out.ResidualPath != "" {
			fmt.Printf("wrote %s\n", out.ResidualPath)
		}
		if out.Benchmark != nil {
			if err := benchmark.Render(os.Stdout, out.Path, out.Benchmark, req); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyFlags folds explicitly set command-line values over the loaded
// profile. Boolean flags only override when set to true; their profile
// value wins otherwise.
func applyFlags(cfg *config.Config, outDir, prefix, format string, levels int, progression string, irreversible, lossless, residual bool) {
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if prefix != "" {
		cfg.Output.Prefix = prefix
	}
	if format != "" {
		cfg.Encoding.Format = format
	}
	if levels >= 0 {
		cfg.Encoding.NumLevels = levels
	}
	if progression != "" {
		cfg.Encoding.ProgressionOrder = progression
	}
	if irreversible {
		cfg.Encoding.Irreversible = true
	}
	if lossless {
		cfg.Encoding.LosslessCompanion = true
	}
	if residual {
		cfg.Benchmark.WriteResidual = true
	}
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parsePair(s string) (int, int, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected WxH, got %q", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func parseMetrics(names []string) (benchmark.Request, error) {
	var req benchmark.Request
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "all":
			req = benchmark.AllMetrics()
		case "se":
			req.SquaredError = true
		case "mse":
			req.MeanSquaredError = true
		case "rmse":
			req.RootMeanSquaredError = true
		case "psnr":
			req.PeakSignalToNoiseRatio = true
		case "ae":
			req.AbsoluteError = true
		case "mae":
			req.MeanAbsoluteError = true
		case "si":
			req.SquaredIntensitySum = true
		case "fidelity":
			req.Fidelity = true
		case "mad":
			req.MaximumAbsoluteDistortion = true
		default:
			return req, fmt.Errorf("unknown metric %q", name)
		}
	}
	return req, nil
}

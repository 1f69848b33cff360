// Package benchmark measures distortion between a reference intensity image
// and its compressed-then-decompressed counterpart, and reconstructs the
// residual difference image for independent lossless re-encoding.
package benchmark

import (
	"fmt"
	"io"
)

// Category classifies a diagnostic event.
type Category string

const (
	// CategoryMetadata covers advisory mismatches that never block the
	// pixel comparison: color space, ICC profile length, origin offsets.
	CategoryMetadata Category = "metadata"

	// CategoryGeometry covers dimension, component-count, and signedness
	// mismatches that make images (or single components) incomparable.
	CategoryGeometry Category = "geometry"

	// CategoryOverflow reports a wrapped metric accumulator.
	CategoryOverflow Category = "overflow"

	// CategoryResidual reports residual values clamped into the signed
	// output range.
	CategoryResidual Category = "residual"
)

// Diagnostic is one advisory event. Diagnostics are reported as structured
// category+message pairs rather than free text so test suites can match on
// them.
type Diagnostic struct {
	Category Category
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Category, d.Message)
}

// Reporter receives diagnostic events. Reporting never aborts processing.
type Reporter interface {
	Report(d Diagnostic)
}

// LineReporter writes one human-readable line per event.
type LineReporter struct {
	W io.Writer
}

func (r *LineReporter) Report(d Diagnostic) {
	fmt.Fprintln(r.W, d.String())
}

// Collector retains events in order, for inspection in tests.
type Collector struct {
	Events []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.Events = append(c.Events, d)
}

// Has reports whether any collected event carries the category.
func (c *Collector) Has(cat Category) bool {
	for _, d := range c.Events {
		if d.Category == cat {
			return true
		}
	}
	return false
}

type discard struct{}

func (discard) Report(Diagnostic) {}

// Discard drops all diagnostics.
var Discard Reporter = discard{}

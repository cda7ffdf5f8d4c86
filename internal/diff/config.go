// Package diff implements the drawing comparison engine: entity
// normalization, fingerprint-bucketed matching between two parsed drawings,
// change classification, and rendering of the classified result into either
// a color-coded drawing or a textual label report.
package diff

import (
	"errors"
	"fmt"
)

// ErrBadTolerance reports a tolerance configuration that would silently
// produce meaningless results.
var ErrBadTolerance = errors.New("invalid tolerance configuration")

// Config controls one comparison run. Pass it explicitly into each
// invocation; the engine keeps no process-wide state.
type Config struct {
	// Tolerance is the maximum per-value deviation for two geometric
	// signatures to be considered equal. Zero means exact comparison.
	Tolerance float64

	// LayerSensitive requires matched entities to live on the same layer.
	LayerSensitive bool

	// ModifiedPositionBand, when positive, is a looser secondary tolerance:
	// entity pairs that miss the primary tolerance but fall within this band
	// are classified MODIFIED ("likely the same shape, slightly moved").
	// Zero disables the band; then any same-fingerprint signature mismatch
	// is MODIFIED.
	ModifiedPositionBand float64

	// ReportMoved splits position-only label changes out of MODIFIED into
	// the MOVED status in label diffs.
	ReportMoved bool

	// ExpandBlocks flattens INSERT references into their member entities at
	// absolute coordinates before comparison. When disabled, an INSERT is
	// compared as a single placement.
	ExpandBlocks bool
}

// DefaultConfig returns the standard comparison configuration.
func DefaultConfig() Config {
	return Config{
		Tolerance:      1e-4,
		LayerSensitive: true,
	}
}

// Validate fails fast on configurations that cannot produce a meaningful
// diff. Called at the entry of every comparison before any matching work.
func (c Config) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %g", ErrBadTolerance, c.Tolerance)
	}
	if c.ModifiedPositionBand < 0 {
		return fmt.Errorf("%w: negative position band %g", ErrBadTolerance, c.ModifiedPositionBand)
	}
	if c.ModifiedPositionBand > 0 && c.ModifiedPositionBand < c.Tolerance {
		return fmt.Errorf("%w: position band %g is tighter than tolerance %g",
			ErrBadTolerance, c.ModifiedPositionBand, c.Tolerance)
	}
	return nil
}

// fingerprintStep returns the coarse grid step used for candidate bucketing:
// one order of magnitude wider than the tolerance, so two anchors within
// tolerance land in the same or an adjacent cell.
func (c Config) fingerprintStep() float64 {
	return c.Tolerance * 10
}

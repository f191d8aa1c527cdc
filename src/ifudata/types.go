// Package ifudata loads and prepares the spatial tables and fit results
// produced by the pipeline: the per-spaxel bin table, the stellar-kinematics
// results and the emission-line results. It owns the conversion from the
// compressed per-bin representation to the per-spaxel "long" representation
// and the quality filtering applied before any map is drawn.
package ifudata

import (
	"math"
	"strconv"
)

func trimFloat(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// Sentinel written by the fitting stage for lines it did not attempt to fit.
// Applied uniformly to all quantities, velocity included (upstream contract).
const SentinelNotFitted = -1.0

// DefaultAoNThreshold is the minimum amplitude-over-noise for a fit to be
// considered reliable.
const DefaultAoNThreshold = 4.0

// Table holds the per-spaxel bin table: one row per spatial sample.
// X is stored sign-flipped relative to the file so that right ascension
// offsets grow leftward when the display axis is inverted.
type Table struct {
	Root    string // run name, used in figure annotations and file names
	X       []float64
	Y       []float64
	Flux    []float64
	BinID   []int
	UBins   []int // sorted unique |BinID| over the full table
	Pixsize float64
}

// NSamples returns the number of spatial samples in the table.
func (t *Table) NSamples() int { return len(t.X) }

// KinResult holds the per-bin stellar kinematics (one entry per unique bin).
type KinResult struct {
	V     []float64
	Sigma []float64
	H3    []float64
	H4    []float64
}

// Line identifies one fitted emission line.
type Line struct {
	Name   string
	Lambda float64
}

// Label returns the identifier used in output file names, e.g. "Ha6562.80".
func (l Line) Label() string {
	return l.Name + trimFloat(l.Lambda)
}

// LineResult holds the per-bin emission-line fit results. The outer index is
// the bin row, the inner index the emission line.
type LineResult struct {
	Lines []Line
	V     [][]float64
	Sigma [][]float64
	Flux  [][]float64
	Ampl  [][]float64
	AoN   [][]float64
}

// NLines returns the number of fitted emission lines.
func (r *LineResult) NLines() int { return len(r.Lines) }

// Column extracts one line's values from a bin-by-line matrix.
func Column(m [][]float64, line int) []float64 {
	out := make([]float64, len(m))
	for i := range m {
		if line < len(m[i]) {
			out[i] = m[i][line]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

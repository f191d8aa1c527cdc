package ifudata

import (
	"math"
	"sort"
)

// ApplyAoN masks every quantity at samples whose amplitude-over-noise falls
// below the threshold. The AoN array itself is masked as well so later
// passes see a consistent picture. Arrays are modified in place.
func ApplyAoN(aon []float64, threshold float64, quantities ...[]float64) {
	for i, a := range aon {
		if a >= threshold {
			continue
		}
		for _, q := range quantities {
			if i < len(q) {
				q[i] = math.NaN()
			}
		}
		aon[i] = math.NaN()
	}
}

// MaskSentinel replaces the upstream "fit not attempted" marker with NaN.
// The check is exact and applied to velocity too; see the upstream contract
// note on SentinelNotFitted.
func MaskSentinel(vals []float64) {
	for i, v := range vals {
		if v == SentinelNotFitted {
			vals[i] = math.NaN()
		}
	}
}

// Recenter shifts vals by their own NaN-ignoring median so the displayed
// zero point is the field's typical value. Returns the median removed.
// A slice with no valid values is left untouched.
func Recenter(vals []float64) float64 {
	med := NanMedian(vals)
	if math.IsNaN(med) {
		return med
	}
	for i, v := range vals {
		if !math.IsNaN(v) {
			vals[i] = v - med
		}
	}
	return med
}

// RecenterAll removes a single median computed across every slice, keeping
// all emission lines on one shared velocity zero point.
func RecenterAll(groups [][]float64) float64 {
	var all []float64
	for _, g := range groups {
		all = append(all, g...)
	}
	med := NanMedian(all)
	if math.IsNaN(med) {
		return med
	}
	for _, g := range groups {
		for i, v := range g {
			if !math.IsNaN(v) {
				g[i] = v - med
			}
		}
	}
	return med
}

// NanMedian returns the median of the valid values, averaging the central
// pair for even counts. NaN when nothing is valid.
//
// gonum's stat.Quantile(0.5, ...) does not average the central pair for any
// of its cumulant kinds, so this matches the upstream convention by hand.
func NanMedian(vals []float64) float64 {
	valid := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	sort.Float64s(valid)
	n := len(valid)
	if n%2 == 1 {
		return valid[n/2]
	}
	return (valid[n/2-1] + valid[n/2]) / 2
}

// NanMin returns the smallest valid value, NaN if there is none.
func NanMin(vals []float64) float64 {
	min := math.NaN()
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

// NanMax returns the largest valid value, NaN if there is none.
func NanMax(vals []float64) float64 {
	max := math.NaN()
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// AllMissing reports whether no sample carries a valid value. Quantities in
// this state are skipped entirely rather than rendered as an empty frame.
func AllMissing(vals []float64) bool {
	for _, v := range vals {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

// DegenerateCoords reports whether every coordinate is zero or NaN, in which
// case the map cannot carry meaningful spatial information.
func DegenerateCoords(coords []float64) bool {
	for _, c := range coords {
		if c != 0 && !math.IsNaN(c) {
			return false
		}
	}
	return true
}

// Package maps renders two-dimensional spatial maps of binned measurement
// values: rasterization onto a uniform pixel grid, isophote contours from a
// triangulated flux surface, display-range calibration (automatic or
// operator-driven) and figure composition.
package maps

import "fmt"

// Quantity describes one plottable measurement and its display metadata.
type Quantity struct {
	Key      string // short key used in prompts and file names
	Label    string // panel annotation
	Decimals int    // digits shown when labelling vmin/vmax
	Log10    bool   // display the decimal log of the values
}

// KinQuantities is the stellar-kinematics map family, plotted as one 2x2
// composite.
var KinQuantities = []Quantity{
	{Key: "V", Label: "V stellar [km/s]", Decimals: 0},
	{Key: "SIGMA", Label: "sigma stellar [km/s]", Decimals: 0},
	{Key: "H3", Label: "h3", Decimals: 2},
	{Key: "H4", Label: "h4", Decimals: 2},
}

// LineQuantities is the emission-line map family, plotted one panel per
// quantity per line.
var LineQuantities = []Quantity{
	{Key: "V", Label: "V [km/s]", Decimals: 0},
	{Key: "S", Label: "sigma [km/s]", Decimals: 0},
	{Key: "F", Label: "Flux", Decimals: 2, Log10: true},
	{Key: "A", Label: "Ampl", Decimals: 2},
}

// LineQuantityIndex resolves the standalone-mode type selector (V, S, F, A)
// to its position in LineQuantities.
func LineQuantityIndex(key string) (int, error) {
	for i, q := range LineQuantities {
		if q.Key == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown plot type %q (want V, S, F or A)", key)
}

// RangeLabel formats a calibrated bound with the quantity's precision.
func (q Quantity) RangeLabel(vmin, vmax float64) string {
	return fmt.Sprintf("%.*f / %.*f", q.Decimals, vmin, q.Decimals, vmax)
}

package maps

import (
	"fmt"
	"math"
	"os"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bronreichardtchu/gist-geckos/src/ifudata"
)

const histogramBins = 30

// WriteHistogram renders the value distribution of one quantity as a bar
// chart, written next to the interactive preview as a calibration aid for
// choosing vmin/vmax. Degenerate distributions (empty or constant) are
// skipped silently; the histogram is advisory.
func WriteHistogram(vals []float64, q Quantity, path string) error {
	valid := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			valid = append(valid, v)
		}
	}
	if len(valid) < 2 {
		return nil
	}
	sort.Float64s(valid)
	min, max := valid[0], valid[len(valid)-1]
	if !(max > min) {
		return nil
	}

	dividers := make([]float64, histogramBins+1)
	floats.Span(dividers, min, max+(max-min)*1e-9)
	counts := stat.Histogram(nil, dividers, valid, nil)

	bars := make([]chart.Value, len(counts))
	for i, n := range counts {
		center := (dividers[i] + dividers[i+1]) / 2
		label := ""
		if i%5 == 0 {
			label = fmt.Sprintf("%.*f", q.Decimals, center)
		}
		bars[i] = chart.Value{Value: n, Label: label}
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("%s value distribution (n=%d)", q.Key, len(valid)),
		Width:      900,
		Height:     340,
		BarWidth:   20,
		BarSpacing: 4,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 12, Right: 12, Bottom: 24}},
		Bars:       bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write histogram: %w", err)
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render histogram: %w", err)
	}
	ifudata.Debugf("histogram written to %s", path)
	return nil
}

package maps

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/bronreichardtchu/gist-geckos/src/ifudata"
)

// GandalfOptions configures emission-line map rendering.
type GandalfOptions struct {
	Outdir       string
	Level        string // "BIN" or "SPAXEL"
	Interactive  bool
	AoNThreshold float64
	Style        Style
	Prompter     Prompter
}

// lineData holds the filtered per-spaxel arrays for every emission line,
// indexed [line][sample].
type lineData struct {
	lines []ifudata.Line
	vel   [][]float64
	sigma [][]float64
	flux  [][]float64
	ampl  [][]float64
}

// prepareLineData expands BIN-level results to the per-spaxel form, applies
// the AoN threshold and the not-fitted sentinel, and recentres velocity on
// one shared zero point across all lines.
func prepareLineData(table *ifudata.Table, res *ifudata.LineResult, level string, threshold float64) *lineData {
	n := res.NLines()
	d := &lineData{lines: res.Lines}
	var aon [][]float64
	if level == "BIN" {
		idx := ifudata.NewBinIndex(table.UBins)
		d.vel = idx.ExpandMatrix(res.V, table.BinID, n)
		d.sigma = idx.ExpandMatrix(res.Sigma, table.BinID, n)
		d.flux = idx.ExpandMatrix(res.Flux, table.BinID, n)
		d.ampl = idx.ExpandMatrix(res.Ampl, table.BinID, n)
		aon = idx.ExpandMatrix(res.AoN, table.BinID, n)
	} else {
		d.vel = columns(res.V, n)
		d.sigma = columns(res.Sigma, n)
		d.flux = columns(res.Flux, n)
		d.ampl = columns(res.Ampl, n)
		aon = columns(res.AoN, n)
	}
	for l := 0; l < n; l++ {
		ifudata.ApplyAoN(aon[l], threshold, d.flux[l], d.ampl[l], d.vel[l], d.sigma[l])
		ifudata.MaskSentinel(d.flux[l])
		ifudata.MaskSentinel(d.ampl[l])
		ifudata.MaskSentinel(d.vel[l])
		ifudata.MaskSentinel(d.sigma[l])
	}
	med := ifudata.RecenterAll(d.vel)
	ifudata.Debugf("line velocity zero point shifted by %.2f km/s", med)
	return d
}

func columns(m [][]float64, n int) [][]float64 {
	out := make([][]float64, n)
	for l := 0; l < n; l++ {
		out[l] = ifudata.Column(m, l)
	}
	return out
}

// quantityValues returns the display values for one line and quantity,
// applying the log scaling for flux.
func (d *lineData) quantityValues(line, qi int) []float64 {
	var src []float64
	switch qi {
	case 0:
		src = d.vel[line]
	case 1:
		src = d.sigma[line]
	case 2:
		src = d.flux[line]
	case 3:
		src = d.ampl[line]
	}
	if !LineQuantities[qi].Log10 {
		return src
	}
	out := make([]float64, len(src))
	for i, v := range src {
		lv := math.Log10(v)
		if math.IsNaN(lv) || math.IsInf(lv, 0) {
			lv = math.NaN()
		}
		out[i] = lv
	}
	return out
}

// PlotAllLineMaps is the pipeline entrypoint: every emission line times
// every quantity, strictly sequential, one figure at a time.
func PlotAllLineMaps(table *ifudata.Table, res *ifudata.LineResult, o GandalfOptions) error {
	d := prepareLineData(table, res, o.Level, o.AoNThreshold)
	for li := range d.lines {
		st := NewRangeState(len(LineQuantities))
		for qi := range LineQuantities {
			if err := plotLine(table, d, li, qi, st, o); err != nil {
				return err
			}
		}
	}
	return nil
}

// PlotOneLineMap is the standalone entrypoint: one selected line and
// quantity, normally interactive.
func PlotOneLineMap(table *ifudata.Table, res *ifudata.LineResult, lineIdx, qtyIdx int, o GandalfOptions) error {
	if lineIdx < 0 || lineIdx >= res.NLines() {
		return fmt.Errorf("line index %d out of range (have %d lines)", lineIdx, res.NLines())
	}
	d := prepareLineData(table, res, o.Level, o.AoNThreshold)
	st := NewRangeState(len(LineQuantities))
	return plotLine(table, d, lineIdx, qtyIdx, st, o)
}

// plotLine renders one line+quantity map through the calibration loop.
// Quantities with no valid values anywhere are skipped without a figure.
func plotLine(table *ifudata.Table, d *lineData, li, qi int, st *RangeState, o GandalfOptions) error {
	q := LineQuantities[qi]
	line := d.lines[li]
	vals := d.quantityValues(li, qi)
	if ifudata.AllMissing(vals) {
		ifudata.Warnf("%s %s: no valid values, map skipped", line.Label(), q.Key)
		return nil
	}

	mapsDir, err := EnsureMapsDir(o.Outdir)
	if err != nil {
		return err
	}
	root := ifudata.GandalfRoot(o.Outdir)
	final := filepath.Join(mapsDir,
		fmt.Sprintf("%s_gandalf-%s_%s_%s.png", root, line.Label(), q.Key, o.Level))
	preview := filepath.Join(mapsDir, "preview.png")

	render := func(st *RangeState, mode Mode, save bool) error {
		offset, err := ResolveContourOffset(st, mode, o.Prompter)
		if err != nil {
			return err
		}
		contours, err := BuildContours(table.X, table.Y, table.Flux, table.Pixsize, offset)
		if err != nil {
			return err
		}
		vmin, vmax, err := ResolveRange(st, qi, q, vals, mode, o.Prompter)
		if err != nil {
			return err
		}
		grid, err := Rasterize(table.X, table.Y, vals, table.Pixsize)
		if err != nil {
			if errors.Is(err, ErrAllMissing) {
				return nil
			}
			return err
		}
		panel := &Panel{
			Quantity: q, Grid: grid, VMin: vmin, VMax: vmax,
			Title: root, LineTag: line.Name, XLabel: true, YLabel: true,
		}

		if mode == ModeInteractive {
			hist := filepath.Join(mapsDir, fmt.Sprintf("preview_%s_hist.png", q.Key))
			if err := WriteHistogram(vals, q, hist); err != nil {
				ifudata.Warnf("%v", err)
			}
		}

		path := preview
		if save {
			path = final
		}
		comp := Composer{Rows: 1, Cols: 1, Style: o.Style}
		if err := comp.Compose([]*Panel{panel}, contours, path); err != nil {
			return err
		}
		if save {
			ifudata.Infof("map written to %s", path)
		} else {
			ifudata.Infof("preview written to %s", path)
		}
		return nil
	}

	return RunLoop(st, o.Interactive, render, o.Prompter)
}

package maps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bronreichardtchu/gist-geckos/src/ifudata"
)

// KinOptions configures one stellar-kinematics map-family invocation.
type KinOptions struct {
	Outdir      string
	Flavor      string // "kin" or "sfh"
	Interactive bool
	Style       Style
	Prompter    Prompter
}

// PlotKinMaps renders the V / SIGMA / H3 / H4 composite: expansion to the
// per-spaxel form, velocity recentring, one 2x2 figure with isophote
// contours and a shared colorbar. Interactive mode previews and loops until
// the operator accepts.
func PlotKinMaps(table *ifudata.Table, res *ifudata.KinResult, o KinOptions) error {
	inside := table.Inside()
	idx := ifudata.NewBinIndex(table.UBins)
	long := [][]float64{
		idx.Expand(res.V, inside.BinID),
		idx.Expand(res.Sigma, inside.BinID),
		idx.Expand(res.H3, inside.BinID),
		idx.Expand(res.H4, inside.BinID),
	}
	med := ifudata.Recenter(long[0])
	ifudata.Debugf("velocity zero point shifted by %.2f km/s", med)

	mapsDir, err := EnsureMapsDir(o.Outdir)
	if err != nil {
		return err
	}
	final := filepath.Join(mapsDir, table.Root+"_kin.png")
	if o.Flavor == "sfh" {
		final = filepath.Join(mapsDir, table.Root+"_sfh-kin.png")
	}
	preview := filepath.Join(mapsDir, "preview.png")

	st := NewRangeState(len(KinQuantities))
	render := func(st *RangeState, mode Mode, save bool) error {
		offset, err := ResolveContourOffset(st, mode, o.Prompter)
		if err != nil {
			return err
		}
		contours, err := BuildContours(inside.X, inside.Y, inside.Flux, inside.Pixsize, offset)
		if err != nil {
			return err
		}

		panels := make([]*Panel, len(KinQuantities))
		for qi, q := range KinQuantities {
			vals := long[qi]
			if ifudata.AllMissing(vals) {
				ifudata.Warnf("%s: no valid values, panel skipped", q.Key)
				continue
			}
			vmin, vmax, err := ResolveRange(st, qi, q, vals, mode, o.Prompter)
			if err != nil {
				return err
			}
			grid, err := Rasterize(inside.X, inside.Y, vals, inside.Pixsize)
			if err != nil {
				if errors.Is(err, ErrAllMissing) {
					continue
				}
				return err
			}
			p := &Panel{Quantity: q, Grid: grid, VMin: vmin, VMax: vmax,
				XLabel: qi >= 2, YLabel: qi%2 == 0}
			if qi == 0 {
				p.Title = table.Root
			}
			panels[qi] = p

			if mode == ModeInteractive {
				hist := filepath.Join(mapsDir, fmt.Sprintf("preview_%s_hist.png", q.Key))
				if err := WriteHistogram(vals, q, hist); err != nil {
					ifudata.Warnf("%v", err)
				}
			}
		}

		path := preview
		if save {
			path = final
		}
		comp := Composer{Rows: 2, Cols: 2, Style: o.Style}
		if err := comp.Compose(panels, contours, path); err != nil {
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

// EnsureMapsDir creates the maps/ output directory on demand.
func EnsureMapsDir(outdir string) (string, error) {
	dir := filepath.Join(outdir, "maps")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create maps directory: %w", err)
	}
	return dir, nil
}

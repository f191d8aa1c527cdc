package ifudata

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/astrogo/fitsio"
	"gonum.org/v1/gonum/floats"
)

// RunRoot derives the run name from the output directory: the last path
// element. All pipeline products are named <RunRoot>_<product>.fits.
func RunRoot(outdir string) string {
	return filepath.Base(filepath.Clean(outdir))
}

// GandalfRoot derives the run name the emission-line products are filed
// under: the part of the directory name before the first underscore
// (runs are named like FCC167_Full-Opt).
func GandalfRoot(outdir string) string {
	root := RunRoot(outdir)
	if i := strings.Index(root, "_"); i > 0 {
		root = root[:i]
	}
	return root
}

// LoadTable reads the per-spaxel bin table <outdir>/<root>_table.fits.
// X is sign-flipped on load so right-ascension offsets grow leftward once
// the display axis is inverted. Degenerate coordinate sets are logged and
// kept; the maps will be meaningless but the pipeline expects them anyway.
func LoadTable(outdir string) (*Table, error) {
	root := RunRoot(outdir)
	path := filepath.Join(outdir, root+"_table.fits")
	f, r, err := openFITS(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	defer f.Close()

	pixsize, err := headerFloat(f.HDU(0), "PIXSIZE")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	tbl, ok := f.HDU(1).(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("%s: HDU 1 is not a binary table", path)
	}
	n := tbl.NumRows()
	rows, err := tbl.Read(0, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer rows.Close()

	t := &Table{
		Root:    root,
		X:       make([]float64, 0, n),
		Y:       make([]float64, 0, n),
		Flux:    make([]float64, 0, n),
		BinID:   make([]int, 0, n),
		Pixsize: pixsize,
	}
	for rows.Next() {
		rec := make(map[string]interface{})
		if err := rows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		t.X = append(t.X, toFloat(rec["X"]))
		t.Y = append(t.Y, toFloat(rec["Y"]))
		t.Flux = append(t.Flux, toFloat(rec["FLUX"]))
		t.BinID = append(t.BinID, int(toFloat(rec["BIN_ID"])))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	floats.Scale(-1, t.X)
	t.UBins = uniqueAbs(t.BinID)

	if DegenerateCoords(t.X) {
		Warnf("all X coordinates are 0.0 or NaN; maps will not carry spatial information")
	}
	if DegenerateCoords(t.Y) {
		Warnf("all Y coordinates are 0.0 or NaN; maps will not carry spatial information")
	}
	return t, nil
}

// Inside returns the subset of rows with BIN_ID >= 0, i.e. spaxels inside
// the Voronoi field. UBins stays computed over the full table so compressed
// result rows keep their alignment.
func (t *Table) Inside() *Table {
	out := &Table{Root: t.Root, UBins: t.UBins, Pixsize: t.Pixsize}
	for i, id := range t.BinID {
		if id < 0 {
			continue
		}
		out.X = append(out.X, t.X[i])
		out.Y = append(out.Y, t.Y[i])
		out.Flux = append(out.Flux, t.Flux[i])
		out.BinID = append(out.BinID, id)
	}
	return out
}

// LoadKin reads the stellar kinematics results, flavor "kin" or "sfh".
// H3 and H4 columns are optional; absent moments come back as zero maps,
// matching how older runs without higher moments are handled.
func LoadKin(outdir, flavor string) (*KinResult, error) {
	root := RunRoot(outdir)
	path := filepath.Join(outdir, root+"_"+flavor+".fits")
	f, r, err := openFITS(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	defer f.Close()

	tbl, ok := f.HDU(1).(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("%s: HDU 1 is not a binary table", path)
	}
	n := tbl.NumRows()
	rows, err := tbl.Read(0, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer rows.Close()

	res := &KinResult{
		V:     make([]float64, 0, n),
		Sigma: make([]float64, 0, n),
		H3:    make([]float64, 0, n),
		H4:    make([]float64, 0, n),
	}
	for rows.Next() {
		rec := make(map[string]interface{})
		if err := rows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		res.V = append(res.V, toFloat(rec["V"]))
		res.Sigma = append(res.Sigma, toFloat(rec["SIGMA"]))
		res.H3 = append(res.H3, optFloat(rec, "H3"))
		res.H4 = append(res.H4, optFloat(rec, "H4"))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// LoadLineResult reads the emission-line fit results at the given processing
// level ("BIN" or "SPAXEL"). HDU 1 carries the line identities, HDU 2 the
// per-bin (or per-spaxel) vector columns.
func LoadLineResult(outdir, level string) (*LineResult, error) {
	if level != "BIN" && level != "SPAXEL" {
		return nil, fmt.Errorf("unknown processing level %q (want BIN or SPAXEL)", level)
	}
	root := GandalfRoot(outdir)
	path := filepath.Join(outdir, root+"_gandalf_"+level+".fits")
	f, r, err := openFITS(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	defer f.Close()

	setup, ok := f.HDU(1).(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("%s: HDU 1 is not a binary table", path)
	}
	srows, err := setup.Read(0, setup.NumRows())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer srows.Close()

	res := &LineResult{}
	for srows.Next() {
		rec := make(map[string]interface{})
		if err := srows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		name, _ := rec["name"].(string)
		res.Lines = append(res.Lines, Line{
			Name:   strings.TrimSpace(name),
			Lambda: toFloat(rec["_lambda"]),
		})
	}
	if err := srows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	raw, ok := f.HDU(2).(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("%s: HDU 2 is not a binary table", path)
	}
	rrows, err := raw.Read(0, raw.NumRows())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer rrows.Close()

	for rrows.Next() {
		rec := make(map[string]interface{})
		if err := rrows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		res.V = append(res.V, toFloatSlice(rec["V"]))
		res.Sigma = append(res.Sigma, toFloatSlice(rec["SIGMA"]))
		res.Flux = append(res.Flux, toFloatSlice(rec["FLUX"]))
		res.Ampl = append(res.Ampl, toFloatSlice(rec["AMPL"]))
		res.AoN = append(res.AoN, toFloatSlice(rec["AON"]))
	}
	if err := rrows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func openFITS(path string) (*fitsio.File, *os.File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := fitsio.Open(r)
	if err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, r, nil
}

func headerFloat(hdu fitsio.HDU, key string) (float64, error) {
	card := hdu.Header().Get(key)
	if card == nil {
		return 0, fmt.Errorf("missing header card %s", key)
	}
	v := toFloat(card.Value)
	if math.IsNaN(v) {
		return 0, fmt.Errorf("header card %s is not numeric", key)
	}
	return v, nil
}

// toFloat coerces the scalar column types the pipeline writes.
func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case int:
		return float64(x)
	default:
		return math.NaN()
	}
}

func toFloatSlice(v interface{}) []float64 {
	switch x := v.(type) {
	case []float64:
		return x
	case []float32:
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out
	default:
		return nil
	}
}

func optFloat(rec map[string]interface{}, key string) float64 {
	v, ok := rec[key]
	if !ok {
		return 0
	}
	return toFloat(v)
}

func uniqueAbs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	var out []int
	for _, id := range ids {
		if id < 0 {
			id = -id
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

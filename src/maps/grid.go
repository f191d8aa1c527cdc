package maps

import (
	"errors"
	"math"

	"github.com/bronreichardtchu/gist-geckos/src/ifudata"
)

// fieldMargin pads the coordinate extent on every side, in sky units.
const fieldMargin = 6.0

// ErrAllMissing is returned when a quantity has no valid value anywhere;
// callers skip the panel instead of rendering an empty frame.
var ErrAllMissing = errors.New("all values missing")

// Grid is a uniform raster over the sampled field of view. Cell (i, j)
// covers sky coordinate (Xmin + i*Pix, Ymin + j*Pix). It satisfies
// gonum/plot's plotter.GridXYZ, so it can be handed straight to a heat map.
type Grid struct {
	Xmin, Ymin float64
	Pix        float64
	Nx, Ny     int
	vals       []float64
}

// NewGrid sizes the raster from the coordinate extent plus the fixed margin.
func NewGrid(x, y []float64, pixsize float64) *Grid {
	xmin := ifudata.NanMin(x) - fieldMargin
	xmax := ifudata.NanMax(x) + fieldMargin
	ymin := ifudata.NanMin(y) - fieldMargin
	ymax := ifudata.NanMax(y) + fieldMargin
	nx := int(math.Round((xmax-xmin)/pixsize)) + 1
	ny := int(math.Round((ymax-ymin)/pixsize)) + 1
	g := &Grid{Xmin: xmin, Ymin: ymin, Pix: pixsize, Nx: nx, Ny: ny}
	g.vals = make([]float64, nx*ny)
	for i := range g.vals {
		g.vals[i] = math.NaN()
	}
	return g
}

// Rasterize builds a grid and bins every sample into its nearest pixel.
// Collisions overwrite (bin expansion makes within-bin values identical, so
// the winner does not matter). Fails with ErrAllMissing when no sample
// carries a value.
func Rasterize(x, y, vals []float64, pixsize float64) (*Grid, error) {
	if ifudata.AllMissing(vals) {
		return nil, ErrAllMissing
	}
	g := NewGrid(x, y, pixsize)
	for k := range vals {
		i, j, ok := g.Index(x[k], y[k])
		if !ok {
			continue
		}
		g.vals[i*g.Ny+j] = vals[k]
	}
	return g, nil
}

// Index maps a sky coordinate to its pixel, reporting false for samples
// outside the raster (NaN coordinates included).
func (g *Grid) Index(x, y float64) (i, j int, ok bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	i = int(math.Round((x - g.Xmin) / g.Pix))
	j = int(math.Round((y - g.Ymin) / g.Pix))
	if i < 0 || i >= g.Nx || j < 0 || j >= g.Ny {
		return 0, 0, false
	}
	return i, j, true
}

// Dims returns the raster size, columns (X) first.
func (g *Grid) Dims() (c, r int) { return g.Nx, g.Ny }

// Z returns the value at column c, row r.
func (g *Grid) Z(c, r int) float64 { return g.vals[c*g.Ny+r] }

// X returns the sky coordinate of column c.
func (g *Grid) X(c int) float64 { return g.Xmin + float64(c)*g.Pix }

// Y returns the sky coordinate of row r.
func (g *Grid) Y(r int) float64 { return g.Ymin + float64(r)*g.Pix }

// Set assigns one cell. Exposed for tests and synthetic rasters.
func (g *Grid) Set(c, r int, v float64) { g.vals[c*g.Ny+r] = v }

package maps

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
	"gonum.org/v1/gonum/floats"
)

// Isophote spacing in log10-flux, and the shape-quality cutoff below which
// border triangles are dropped from the mesh.
const (
	contourStep        = 0.2
	flatTriangleCutoff = 0.01
)

// DefaultContourOffset is the starting isophote, in dex above the faintest
// flux, when the operator has not tuned it.
const DefaultContourOffset = 0.20

// Point is a vertex of a contour polyline, in sky coordinates.
type Point struct {
	X, Y float64
}

// ContourSet holds the iso-level values and, per level, the polylines to be
// drawn over the map.
type ContourSet struct {
	Levels []float64
	Paths  [][][]Point // [level][path][vertex]
}

// ContourLevels returns the fixed-step level sequence in log10-flux space:
// starting at the faintest flux plus offset, ending strictly below the
// brightest flux.
func ContourLevels(logFlux []float64, offset float64) []float64 {
	min := floats.Min(finiteOnly(logFlux))
	max := floats.Max(finiteOnly(logFlux))
	var levels []float64
	for lv := min + offset; lv < max; lv += contourStep {
		levels = append(levels, lv)
	}
	return levels
}

// BuildContours triangulates the sample positions (shifted by half a pixel
// so contour vertices align with pixel edges), drops degenerate border
// triangles and traces the isophotes of the log-scaled flux surface.
func BuildContours(x, y, flux []float64, pixsize, offset float64) (*ContourSet, error) {
	pts := make([]delaunay.Point, len(x))
	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	floats.AddConst(-pixsize/2, xs)
	floats.AddConst(-pixsize/2, ys)
	for i := range pts {
		pts[i] = delaunay.Point{X: xs[i], Y: ys[i]}
	}
	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("triangulate field: %w", err)
	}

	logFlux := make([]float64, len(flux))
	for i, f := range flux {
		logFlux[i] = math.Log10(f)
	}

	set := &ContourSet{Levels: ContourLevels(logFlux, offset)}
	set.Paths = make([][][]Point, len(set.Levels))

	// Triangle index triples, with flat border triangles masked out.
	var kept [][3]int
	for t := 0; t+2 < len(tri.Triangles); t += 3 {
		a, b, c := tri.Triangles[t], tri.Triangles[t+1], tri.Triangles[t+2]
		if circleRatio(pts[a], pts[b], pts[c]) < flatTriangleCutoff {
			continue
		}
		if !isFinite(logFlux[a]) || !isFinite(logFlux[b]) || !isFinite(logFlux[c]) {
			continue
		}
		kept = append(kept, [3]int{a, b, c})
	}

	for li, lv := range set.Levels {
		var segs [][2]Point
		for _, tr := range kept {
			if s, ok := levelSegment(pts, logFlux, tr, lv); ok {
				segs = append(segs, s)
			}
		}
		set.Paths[li] = chainSegments(segs)
	}
	return set, nil
}

// circleRatio is the incircle-to-circumcircle radius ratio, scaled so an
// equilateral triangle scores 1 and a degenerate sliver scores 0.
func circleRatio(a, b, c delaunay.Point) float64 {
	la := math.Hypot(b.X-c.X, b.Y-c.Y)
	lb := math.Hypot(a.X-c.X, a.Y-c.Y)
	lc := math.Hypot(a.X-b.X, a.Y-b.Y)
	s := (la + lb + lc) / 2
	area2 := s * (s - la) * (s - lb) * (s - lc)
	if area2 <= 0 || la == 0 || lb == 0 || lc == 0 {
		return 0
	}
	area := math.Sqrt(area2)
	// 2*(area/s) / (la*lb*lc/(4*area))
	return 8 * area * area / (s * la * lb * lc)
}

// levelSegment intersects one triangle with an iso-level, returning the
// crossing segment if the level passes through it.
func levelSegment(pts []delaunay.Point, z []float64, tr [3]int, lv float64) ([2]Point, bool) {
	var crossings []Point
	for e := 0; e < 3; e++ {
		i, j := tr[e], tr[(e+1)%3]
		zi, zj := z[i], z[j]
		if (zi < lv) == (zj < lv) {
			continue
		}
		t := (lv - zi) / (zj - zi)
		crossings = append(crossings, Point{
			X: pts[i].X + t*(pts[j].X-pts[i].X),
			Y: pts[i].Y + t*(pts[j].Y-pts[i].Y),
		})
	}
	if len(crossings) != 2 {
		return [2]Point{}, false
	}
	return [2]Point{crossings[0], crossings[1]}, true
}

// chainSegments joins the per-triangle crossing segments into polylines by
// matching shared endpoints.
func chainSegments(segs [][2]Point) [][]Point {
	const q = 1e9 // endpoint quantization for matching
	key := func(p Point) [2]int64 {
		return [2]int64{int64(math.Round(p.X * q)), int64(math.Round(p.Y * q))}
	}
	type end struct {
		seg int
		pt  int
	}
	adj := make(map[[2]int64][]end)
	for si, s := range segs {
		adj[key(s[0])] = append(adj[key(s[0])], end{si, 0})
		adj[key(s[1])] = append(adj[key(s[1])], end{si, 1})
	}
	used := make([]bool, len(segs))
	var paths [][]Point
	for si := range segs {
		if used[si] {
			continue
		}
		used[si] = true
		path := []Point{segs[si][0], segs[si][1]}
		// extend forward from the tail, then backward from the head
		for dir := 0; dir < 2; dir++ {
			for {
				tip := path[len(path)-1]
				found := false
				for _, e := range adj[key(tip)] {
					if used[e.seg] {
						continue
					}
					used[e.seg] = true
					path = append(path, segs[e.seg][1-e.pt])
					found = true
					break
				}
				if !found {
					break
				}
			}
			reverse(path)
		}
		paths = append(paths, path)
	}
	return paths
}

func reverse(p []Point) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finiteOnly(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []float64{0}
	}
	return out
}

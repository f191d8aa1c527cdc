package maps

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func syntheticGrid(t *testing.T) *Grid {
	t.Helper()
	var x, y, vals []float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			x = append(x, float64(i))
			y = append(y, float64(j))
			vals = append(vals, float64(i-j))
		}
	}
	g, err := Rasterize(x, y, vals, 1)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	return g
}

func TestComposeWritesFigure(t *testing.T) {
	g := syntheticGrid(t)
	panel := &Panel{
		Quantity: LineQuantities[0],
		Grid:     g,
		VMin:     -3, VMax: 3,
		Title: "NGC0000", LineTag: "Ha",
		XLabel: true, YLabel: true,
	}
	path := filepath.Join(t.TempDir(), "map.png")
	comp := Composer{Rows: 1, Cols: 1, Style: DefaultStyle()}
	if err := comp.Compose([]*Panel{panel}, nil, path); err != nil {
		t.Fatalf("compose: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("figure not written: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("figure file is empty")
	}
}

func TestComposeGridLayoutWithEmptyTile(t *testing.T) {
	g := syntheticGrid(t)
	panels := []*Panel{
		{Quantity: KinQuantities[0], Grid: g, VMin: -3, VMax: 3, Title: "RUN", YLabel: true},
		{Quantity: KinQuantities[1], Grid: g, VMin: 0, VMax: 3},
		nil, // skipped quantity leaves its tile empty
		{Quantity: KinQuantities[3], Grid: g, VMin: -0.1, VMax: 0.1, XLabel: true},
	}
	path := filepath.Join(t.TempDir(), "kin.png")
	comp := Composer{Rows: 2, Cols: 2, Style: DefaultStyle()}
	if err := comp.Compose(panels, nil, path); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("figure not written: %v", err)
	}
}

func TestComposeRejectsTooManyPanels(t *testing.T) {
	g := syntheticGrid(t)
	p := &Panel{Quantity: KinQuantities[0], Grid: g, VMin: 0, VMax: 1}
	comp := Composer{Rows: 1, Cols: 1, Style: DefaultStyle()}
	if err := comp.Compose([]*Panel{p, p}, nil, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatalf("expected error for oversized panel list")
	}
}

func TestComposeWithContourOverlay(t *testing.T) {
	var x, y, flux []float64
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			x = append(x, float64(i))
			y = append(y, float64(j))
			r2 := (float64(i)-2)*(float64(i)-2) + (float64(j)-2)*(float64(j)-2)
			flux = append(flux, 100*math.Exp(-r2/3))
		}
	}
	contours, err := BuildContours(x, y, flux, 1, 0.2)
	if err != nil {
		t.Fatalf("contours: %v", err)
	}
	g := syntheticGrid(t)
	panel := &Panel{Quantity: LineQuantities[2], Grid: g, VMin: -3, VMax: 3}
	path := filepath.Join(t.TempDir(), "overlay.png")
	comp := Composer{Rows: 1, Cols: 1, Style: DefaultStyle()}
	if err := comp.Compose([]*Panel{panel}, contours, path); err != nil {
		t.Fatalf("compose with contours: %v", err)
	}
}

package maps

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteHistogram(t *testing.T) {
	vals := make([]float64, 0, 200)
	for i := 0; i < 200; i++ {
		vals = append(vals, math.Sin(float64(i))*50)
	}
	vals = append(vals, math.NaN())
	path := filepath.Join(t.TempDir(), "hist.png")
	if err := WriteHistogram(vals, LineQuantities[0], path); err != nil {
		t.Fatalf("histogram: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("histogram not written: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("histogram file is empty")
	}
}

func TestWriteHistogramSkipsDegenerateInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist.png")
	if err := WriteHistogram([]float64{math.NaN(), math.NaN()}, LineQuantities[0], path); err != nil {
		t.Fatalf("all-NaN input should be skipped, got %v", err)
	}
	if err := WriteHistogram([]float64{5, 5, 5}, LineQuantities[0], path); err != nil {
		t.Fatalf("constant input should be skipped, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be written for degenerate input")
	}
}

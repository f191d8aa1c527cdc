package ifudata

import (
	"math"
	"testing"
)

func TestApplyAoNThreshold(t *testing.T) {
	aon := []float64{3, 3, 5, 5}
	vel := []float64{100, -100, 50, -50}
	sig := []float64{10, 20, 30, 40}
	ApplyAoN(aon, 4, vel, sig)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(vel[i]) || !math.IsNaN(sig[i]) || !math.IsNaN(aon[i]) {
			t.Fatalf("sample %d below threshold not masked: vel=%v sig=%v aon=%v", i, vel[i], sig[i], aon[i])
		}
	}
	if vel[2] != 50 || vel[3] != -50 || sig[2] != 30 || sig[3] != 40 {
		t.Fatalf("samples above threshold changed: vel=%v sig=%v", vel, sig)
	}
}

func TestMaskSentinelExactMatchOnly(t *testing.T) {
	vals := []float64{-1, -1.0001, 0, 5, -1}
	MaskSentinel(vals)
	if !math.IsNaN(vals[0]) || !math.IsNaN(vals[4]) {
		t.Fatalf("sentinel values not masked: %v", vals)
	}
	if vals[1] != -1.0001 || vals[2] != 0 || vals[3] != 5 {
		t.Fatalf("non-sentinel values changed: %v", vals)
	}
}

func TestRecenterSubtractsMedian(t *testing.T) {
	vals := []float64{110, 100, math.NaN(), 90}
	med := Recenter(vals)
	if med != 100 {
		t.Fatalf("median got %v want 100", med)
	}
	if vals[0] != 10 || vals[1] != 0 || vals[3] != -10 {
		t.Fatalf("recentred values wrong: %v", vals)
	}
	if !math.IsNaN(vals[2]) {
		t.Fatalf("missing value should stay missing")
	}
}

func TestRecenterAllUsesSharedMedian(t *testing.T) {
	a := []float64{10, 10}
	b := []float64{-10, -10}
	med := RecenterAll([][]float64{a, b})
	if med != 0 {
		t.Fatalf("shared median got %v want 0", med)
	}
	if a[0] != 10 || b[0] != -10 {
		t.Fatalf("zero median should leave values unchanged: %v %v", a, b)
	}
}

func TestNanMedianEvenCountAveragesCentralPair(t *testing.T) {
	if m := NanMedian([]float64{10, 10, -10, -10}); m != 0 {
		t.Fatalf("even-count median got %v want 0", m)
	}
	if m := NanMedian([]float64{1, math.NaN(), 3, 2}); m != 2 {
		t.Fatalf("NaN-ignoring median got %v want 2", m)
	}
	if m := NanMedian([]float64{math.NaN()}); !math.IsNaN(m) {
		t.Fatalf("all-NaN median should be NaN, got %v", m)
	}
}

func TestNanMinMax(t *testing.T) {
	vals := []float64{math.NaN(), -3, 7, math.NaN(), 0}
	if min := NanMin(vals); min != -3 {
		t.Fatalf("NanMin got %v want -3", min)
	}
	if max := NanMax(vals); max != 7 {
		t.Fatalf("NanMax got %v want 7", max)
	}
	if !math.IsNaN(NanMin([]float64{math.NaN()})) {
		t.Fatalf("NanMin of all-NaN should be NaN")
	}
}

func TestAllMissing(t *testing.T) {
	if !AllMissing([]float64{math.NaN(), math.NaN()}) {
		t.Fatalf("all-NaN slice not reported missing")
	}
	if AllMissing([]float64{math.NaN(), 1}) {
		t.Fatalf("slice with one valid value reported missing")
	}
}

func TestDegenerateCoords(t *testing.T) {
	if !DegenerateCoords([]float64{0, math.NaN(), 0}) {
		t.Fatalf("zero/NaN coordinates not reported degenerate")
	}
	if DegenerateCoords([]float64{0, 0.5}) {
		t.Fatalf("valid coordinate reported degenerate")
	}
}

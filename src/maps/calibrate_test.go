package maps

import (
	"io"
	"math"
	"testing"
)

// scriptPrompter feeds canned answers and records the prompts it saw.
type scriptPrompter struct {
	answers []string
	next    int
	prompts []string
}

func (s *scriptPrompter) Prompt(msg string) (string, error) {
	s.prompts = append(s.prompts, msg)
	if s.next >= len(s.answers) {
		return "", io.EOF
	}
	a := s.answers[s.next]
	s.next++
	return a, nil
}

func TestResolveRangeAutomaticIsDataDriven(t *testing.T) {
	st := NewRangeState(1)
	st.VMin[0], st.VMax[0] = -999, 999 // stored state must be ignored
	vals := []float64{math.NaN(), -4, 2}
	vmin, vmax, err := ResolveRange(st, 0, KinQuantities[0], vals, ModeAuto, nil)
	if err != nil {
		t.Fatalf("auto: %v", err)
	}
	if vmin != -4 || vmax != 2 {
		t.Fatalf("auto range got [%v,%v] want [-4,2]", vmin, vmax)
	}
}

func TestResolveRangeReplayIgnoresData(t *testing.T) {
	st := NewRangeState(1)
	st.VMin[0], st.VMax[0] = -120, 120
	for pass := 0; pass < 3; pass++ {
		vmin, vmax, err := ResolveRange(st, 0, KinQuantities[0], []float64{float64(pass)}, ModeReplay, nil)
		if err != nil {
			t.Fatalf("replay: %v", err)
		}
		if vmin != -120 || vmax != 120 {
			t.Fatalf("replay pass %d got [%v,%v] want [-120,120]", pass, vmin, vmax)
		}
	}
}

func TestResolveRangeEmptyInputKeepsPrevious(t *testing.T) {
	st := NewRangeState(1)
	st.VMin[0], st.VMax[0] = -50, 60
	pr := &scriptPrompter{answers: []string{""}}
	vmin, vmax, err := ResolveRange(st, 0, KinQuantities[0], []float64{1, 2}, ModeInteractive, pr)
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if vmin != -50 || vmax != 60 {
		t.Fatalf("empty input got [%v,%v] want previous [-50,60]", vmin, vmax)
	}
}

func TestResolveRangeParsesAndStoresPair(t *testing.T) {
	st := NewRangeState(2)
	pr := &scriptPrompter{answers: []string{"-30, 45.5"}}
	vmin, vmax, err := ResolveRange(st, 1, KinQuantities[1], []float64{1, 2}, ModeInteractive, pr)
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if vmin != -30 || vmax != 45.5 {
		t.Fatalf("parsed range got [%v,%v] want [-30,45.5]", vmin, vmax)
	}
	if st.VMin[1] != -30 || st.VMax[1] != 45.5 {
		t.Fatalf("state not updated: [%v,%v]", st.VMin[1], st.VMax[1])
	}
	if st.VMin[0] != 0 || st.VMax[0] != 0 {
		t.Fatalf("other quantity's slot changed: [%v,%v]", st.VMin[0], st.VMax[0])
	}
}

func TestResolveRangeRepromptsOnMalformedInput(t *testing.T) {
	st := NewRangeState(1)
	pr := &scriptPrompter{answers: []string{"garbage", "1,2,3", "-1,1"}}
	vmin, vmax, err := ResolveRange(st, 0, KinQuantities[0], []float64{5}, ModeInteractive, pr)
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if len(pr.prompts) != 3 {
		t.Fatalf("expected 3 prompts, got %d", len(pr.prompts))
	}
	if vmin != -1 || vmax != 1 {
		t.Fatalf("final range got [%v,%v] want [-1,1]", vmin, vmax)
	}
}

func TestResolveContourOffset(t *testing.T) {
	st := NewRangeState(1)
	if off, err := ResolveContourOffset(st, ModeAuto, nil); err != nil || off != DefaultContourOffset {
		t.Fatalf("auto offset got (%v,%v) want (%v,nil)", off, err, DefaultContourOffset)
	}

	pr := &scriptPrompter{answers: []string{"0.6"}}
	off, err := ResolveContourOffset(st, ModeInteractive, pr)
	if err != nil || off != 0.6 {
		t.Fatalf("interactive offset got (%v,%v) want (0.6,nil)", off, err)
	}
	if st.ContourOffset != 0.6 {
		t.Fatalf("offset not stored: %v", st.ContourOffset)
	}

	// Empty answer keeps the stored value on the next round.
	pr = &scriptPrompter{answers: []string{""}}
	off, err = ResolveContourOffset(st, ModeInteractive, pr)
	if err != nil || off != 0.6 {
		t.Fatalf("kept offset got (%v,%v) want (0.6,nil)", off, err)
	}
}

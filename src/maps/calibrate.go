package maps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/bronreichardtchu/gist-geckos/src/ifudata"
)

// Mode selects how display ranges are chosen for one rendering pass.
type Mode int

const (
	// ModeAuto derives vmin/vmax from the data (pipeline-driven runs).
	ModeAuto Mode = iota
	// ModeInteractive prompts, offering the stored pair as the default.
	ModeInteractive
	// ModeReplay reuses the stored pair verbatim (final save pass).
	ModeReplay
)

// RangeState carries the calibrated display bounds across interactive
// iterations: one (vmin, vmax) slot per quantity of a map family plus the
// family's shared contour offset. It is owned by a single interaction loop
// and never shared.
type RangeState struct {
	VMin, VMax    []float64
	ContourOffset float64
}

// NewRangeState allocates slots for a family of n quantities.
func NewRangeState(n int) *RangeState {
	return &RangeState{
		VMin:          make([]float64, n),
		VMax:          make([]float64, n),
		ContourOffset: DefaultContourOffset,
	}
}

// Prompter supplies one line of operator input for a given prompt. The
// console implementation blocks; tests script it.
type Prompter interface {
	Prompt(msg string) (string, error)
}

// ResolveRange picks the display bounds for quantity qi according to the
// mode. Interactive choices are stored back so a later replay pass and the
// next iteration's default both see them. Malformed input re-prompts; it is
// never silently substituted.
func ResolveRange(st *RangeState, qi int, q Quantity, vals []float64, mode Mode, pr Prompter) (vmin, vmax float64, err error) {
	switch mode {
	case ModeAuto:
		return ifudata.NanMin(vals), ifudata.NanMax(vals), nil
	case ModeReplay:
		return st.VMin[qi], st.VMax[qi], nil
	}
	for {
		msg := fmt.Sprintf(" Enter vmin,vmax for %s! Good guess: [%.2f,%.2f]; Previously chosen: [%g,%g]; New values: ",
			q.Key, ifudata.NanMin(vals), ifudata.NanMax(vals), st.VMin[qi], st.VMax[qi])
		line, err := pr.Prompt(msg)
		if err != nil {
			return 0, 0, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return st.VMin[qi], st.VMax[qi], nil
		}
		lo, hi, perr := parsePair(line)
		if perr != nil {
			ifudata.Warnf("could not read range %q: %v", line, perr)
			continue
		}
		st.VMin[qi], st.VMax[qi] = lo, hi
		return lo, hi, nil
	}
}

// ResolveContourOffset picks the starting isophote offset the same three
// ways, one shared scalar per map family.
func ResolveContourOffset(st *RangeState, mode Mode, pr Prompter) (float64, error) {
	if mode != ModeInteractive {
		return st.ContourOffset, nil
	}
	for {
		line, err := pr.Prompt(fmt.Sprintf("Enter value of minimum isophote [Previously: %.2f]: ", st.ContourOffset))
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return st.ContourOffset, nil
		}
		v, perr := strconv.ParseFloat(line, 64)
		if perr != nil {
			ifudata.Warnf("could not read offset %q: %v", line, perr)
			continue
		}
		st.ContourOffset = v
		return v, nil
	}
}

func parsePair(s string) (lo, hi float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want two comma-separated numbers")
	}
	lo, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	hi, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// ConsolePrompter reads operator input from the terminal.
type ConsolePrompter struct {
	rl *readline.Instance
}

// NewConsolePrompter opens the terminal line reader.
func NewConsolePrompter() (*ConsolePrompter, error) {
	rl, err := readline.New("")
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return &ConsolePrompter{rl: rl}, nil
}

// Prompt blocks until the operator answers.
func (c *ConsolePrompter) Prompt(msg string) (string, error) {
	c.rl.SetPrompt(msg)
	return c.rl.Readline()
}

// Close releases the terminal.
func (c *ConsolePrompter) Close() error { return c.rl.Close() }

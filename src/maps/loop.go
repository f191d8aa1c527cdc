package maps

import (
	"strings"

	"github.com/bronreichardtchu/gist-geckos/src/ifudata"
)

// loopState enumerates the calibration loop's states.
type loopState int

const (
	statePreview loopState = iota
	stateDecide
	stateSave
	stateRecalibrate
)

// RenderFunc draws one full figure pass with ranges resolved according to
// mode. final marks the committed pass that persists the output file.
type RenderFunc func(st *RangeState, mode Mode, final bool) error

// RunLoop drives the preview/accept/recalibrate cycle around a render
// function. Non-interactive invocations go straight to a single automatic
// save pass. Interactive ones preview with editable ranges, then ask; accept
// replays the confirmed ranges into a final save, reject (or anything
// unrecognized) loops back into another calibration pass seeded with the
// previous choice. There is no iteration cap; only an accept terminates.
func RunLoop(st *RangeState, interactive bool, render RenderFunc, pr Prompter) error {
	if !interactive {
		return render(st, ModeAuto, true)
	}
	state := statePreview
	for {
		switch state {
		case statePreview:
			if err := render(st, ModeInteractive, false); err != nil {
				return err
			}
			state = stateDecide
		case stateDecide:
			ans, err := pr.Prompt(" Save plot [y/n]? ")
			if err != nil {
				return err
			}
			switch strings.ToLower(strings.TrimSpace(ans)) {
			case "y", "yes":
				state = stateSave
			case "n", "no":
				state = stateRecalibrate
			default:
				ifudata.Infof("you should have hit 'y' or 'n'; trying another round")
				state = stateRecalibrate
			}
		case stateSave:
			return render(st, ModeReplay, true)
		case stateRecalibrate:
			state = statePreview
		}
	}
}

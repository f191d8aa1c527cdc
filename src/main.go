// Map plotting entrypoint for pipeline runs.
//
// Two modes of use:
//  1. Pipeline mode (default): render every map of the selected result type
//     with automatic display ranges and exit.
//  2. Interactive mode (-interactive): preview each map, prompt for display
//     ranges and the minimum isophote, and save only on explicit accept.
//
// Design notes:
//   - The run directory (-runname) is the single source of inputs; all
//     figures land in its maps/ subdirectory.
//   - Standalone emission-line plotting requires -line and -type; omitting
//     them is a usage error, not a silent default.
//   - Dependency direction: main -> maps for rendering; ifudata for loading
//     and filtering only.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bronreichardtchu/gist-geckos/src/ifudata"
	"github.com/bronreichardtchu/gist-geckos/src/maps"
)

func main() {
	runname := flag.String("runname", "", "Path to the pipeline output directory of one run")
	mode := flag.String("mode", "kin", "Result type to plot: kin, sfh or gandalf")
	level := flag.String("level", "BIN", "Processing level for gandalf maps: BIN or SPAXEL")
	lineIdx := flag.Int("line", -1, "Emission-line index for standalone gandalf plotting")
	plotType := flag.String("type", "", "Quantity for standalone gandalf plotting: V, S, F or A")
	aon := flag.Float64("aon", ifudata.DefaultAoNThreshold, "Minimum AoN of data to be plotted")
	interactive := flag.Bool("interactive", false, "Preview maps and prompt for display ranges before saving")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	ifudata.SetLogLevel(*logLevel)

	if *runname == "" {
		fmt.Fprintln(os.Stderr, "no -runname given")
		flag.Usage()
		os.Exit(1)
	}

	table, err := ifudata.LoadTable(*runname)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load bin table: %v\n", err)
		os.Exit(1)
	}

	var prompter maps.Prompter
	if *interactive {
		cp, err := maps.NewConsolePrompter()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		defer cp.Close()
		prompter = cp
	}

	switch *mode {
	case "kin", "sfh":
		res, err := ifudata.LoadKin(*runname, *mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load %s results: %v\n", *mode, err)
			os.Exit(1)
		}
		err = maps.PlotKinMaps(table, res, maps.KinOptions{
			Outdir:      *runname,
			Flavor:      *mode,
			Interactive: *interactive,
			Style:       maps.DefaultStyle(),
			Prompter:    prompter,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "plot %s maps: %v\n", *mode, err)
			os.Exit(1)
		}

	case "gandalf":
		res, err := ifudata.LoadLineResult(*runname, *level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load gandalf results: %v\n", err)
			os.Exit(1)
		}
		opts := maps.GandalfOptions{
			Outdir:       *runname,
			Level:        *level,
			Interactive:  *interactive,
			AoNThreshold: *aon,
			Style:        maps.DefaultStyle(),
			Prompter:     prompter,
		}
		if *lineIdx >= 0 || *plotType != "" {
			// Standalone single-map mode: both selectors are required.
			if *lineIdx < 0 {
				fmt.Fprintln(os.Stderr, "no -line set")
				os.Exit(1)
			}
			qi, err := maps.LineQuantityIndex(*plotType)
			if err != nil {
				fmt.Fprintf(os.Stderr, "no usable -type set: %v\n", err)
				os.Exit(1)
			}
			if err := maps.PlotOneLineMap(table, res, *lineIdx, qi, opts); err != nil {
				fmt.Fprintf(os.Stderr, "plot line map: %v\n", err)
				os.Exit(1)
			}
		} else {
			if err := maps.PlotAllLineMaps(table, res, opts); err != nil {
				fmt.Fprintf(os.Stderr, "plot line maps: %v\n", err)
				os.Exit(1)
			}
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown -mode %q (want kin, sfh or gandalf)\n", *mode)
		os.Exit(1)
	}
}

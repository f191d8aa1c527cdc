// mapviewer is a small browser for the figures a run's maps/ directory
// accumulates. It exists mainly for the interactive calibration loop: the
// plotting tool writes preview.png and histogram charts there, and this
// viewer redisplays them on each refresh while the operator answers the
// console prompts.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	dir    string

	files     []string
	selected  string
	fileList  *widget.List
	imgCanvas *canvas.Image
	dirLabel  *widget.Label
}

// scanMaps lists the PNG figures in the maps directory, newest last.
func scanMaps(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func (st *uiState) refresh() {
	files, err := scanMaps(st.dir)
	if err != nil {
		st.dirLabel.SetText(fmt.Sprintf("%s (%v)", st.dir, err))
		return
	}
	st.files = files
	st.dirLabel.SetText(fmt.Sprintf("%s (%d figures)", st.dir, len(files)))
	st.fileList.Refresh()
	// Keep showing the selected file; previews are overwritten in place, so
	// reloading the same path picks up the new pass.
	if st.selected != "" {
		st.show(st.selected)
	}
}

func (st *uiState) show(name string) {
	st.selected = name
	st.imgCanvas.File = filepath.Join(st.dir, name)
	st.imgCanvas.Refresh()
	st.window.SetTitle("mapviewer - " + name)
}

func main() {
	dir := flag.String("dir", "maps", "Path to a run's maps/ output directory")
	flag.Parse()

	st := &uiState{dir: *dir}
	st.app = app.New()
	st.window = st.app.NewWindow("mapviewer")

	st.imgCanvas = &canvas.Image{FillMode: canvas.ImageFillContain}
	st.imgCanvas.SetMinSize(fyne.NewSize(760, 700))
	st.dirLabel = widget.NewLabel(*dir)

	st.fileList = widget.NewList(
		func() int { return len(st.files) },
		func() fyne.CanvasObject { return widget.NewLabel("map file") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(st.files[i])
		},
	)
	st.fileList.OnSelected = func(i widget.ListItemID) {
		if i >= 0 && i < len(st.files) {
			st.show(st.files[i])
		}
	}

	refresh := widget.NewButton("Refresh", st.refresh)
	left := container.NewBorder(refresh, nil, nil, nil, st.fileList)
	content := container.NewBorder(st.dirLabel, nil, left, nil, st.imgCanvas)

	st.window.SetContent(content)
	st.window.Resize(fyne.NewSize(1100, 760))
	st.refresh()
	st.window.ShowAndRun()
}

package maps

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Style is the immutable figure configuration handed to the composer. There
// is deliberately no process-wide style state.
type Style struct {
	PanelSize    vg.Length // width and height of one square panel
	DPI          int
	Colors       int // palette granularity for the heat maps
	ContourWidth vg.Length
	BarWidth     vg.Length // width of the colorbar strip
	Pad          vg.Length
}

// DefaultStyle mirrors the figure geometry of the pipeline plots.
func DefaultStyle() Style {
	return Style{
		PanelSize:    5 * vg.Inch,
		DPI:          150,
		Colors:       255,
		ContourWidth: vg.Points(1),
		BarWidth:     vg.Points(36),
		Pad:          vg.Points(4),
	}
}

// Panel is one quantity's map plus its annotations.
type Panel struct {
	Quantity   Quantity
	Grid       *Grid
	VMin, VMax float64
	Title      string // top-right annotation (run name); usually panel 0 only
	LineTag    string // bottom-left annotation (emission-line name)
	XLabel     bool   // draw the Δα axis label (bottom row)
	YLabel     bool   // draw the Δδ axis label (left column)
}

// Composer lays panels out in a fixed grid with a shared colorbar strip and
// writes the figure as PNG.
type Composer struct {
	Rows, Cols int
	Style      Style
}

// Compose renders the panels plus contour overlay into path. len(panels)
// must not exceed Rows*Cols; nil entries leave their tile empty.
func (c Composer) Compose(panels []*Panel, contours *ContourSet, path string) error {
	if len(panels) > c.Rows*c.Cols {
		return fmt.Errorf("compose: %d panels exceed %dx%d layout", len(panels), c.Rows, c.Cols)
	}
	plots := make([][]*plot.Plot, c.Rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, c.Cols)
		for col := range plots[r] {
			i := r*c.Cols + col
			if i < len(panels) && panels[i] != nil {
				plots[r][col] = c.panelPlot(panels[i], contours)
			}
		}
	}

	width := vg.Length(c.Cols)*c.Style.PanelSize + c.Style.BarWidth + 2*c.Style.Pad
	height := vg.Length(c.Rows) * c.Style.PanelSize
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(c.Style.DPI))
	dc := draw.New(img)

	mainDC := draw.Crop(dc, 0, -c.Style.BarWidth-2*c.Style.Pad, 0, 0)
	tiles := draw.Tiles{
		Rows: c.Rows, Cols: c.Cols,
		PadX: c.Style.Pad, PadY: c.Style.Pad,
		PadTop: c.Style.Pad, PadBottom: c.Style.Pad,
		PadLeft: c.Style.Pad, PadRight: c.Style.Pad,
	}
	canvases := plot.Align(plots, tiles, mainDC)
	for r := range plots {
		for col := range plots[r] {
			if plots[r][col] != nil {
				plots[r][col].Draw(canvases[r][col])
			}
		}
	}

	barDC := draw.Crop(dc, width-c.Style.BarWidth-c.Style.Pad, 0, c.Style.Pad, -c.Style.Pad)
	c.colorBar().Draw(barDC)

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	return nil
}

// panelPlot assembles one heat-map panel: inverted X so Δα grows leftward,
// contour overlay, corner annotations.
func (c Composer) panelPlot(p *Panel, contours *ContourSet) *plot.Plot {
	plt := plot.New()
	plt.X.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	if p.XLabel {
		plt.X.Label.Text = "Δα [arcsec]"
	}
	if p.YLabel {
		plt.Y.Label.Text = "Δδ [arcsec]"
	}

	vmin, vmax := p.VMin, p.VMax
	if !(vmax > vmin) {
		vmax = vmin + 1 // degenerate range; keep the palette mapping defined
	}
	h := plotter.NewHeatMap(p.Grid, moreland.SmoothBlueRed().Palette(c.Style.Colors))
	h.Min, h.Max = vmin, vmax
	plt.Add(h)

	if contours != nil {
		for _, paths := range contours.Paths {
			for _, path := range paths {
				xys := make(plotter.XYs, len(path))
				for i, pt := range path {
					xys[i].X, xys[i].Y = pt.X, pt.Y
				}
				l, err := plotter.NewLine(xys)
				if err != nil {
					continue
				}
				l.LineStyle.Color = color.Black
				l.LineStyle.Width = c.Style.ContourWidth
				plt.Add(l)
			}
		}
	}

	c.annotate(plt, p)
	return plt
}

// annotate places the corner texts in data coordinates derived from the
// grid extent. The X axis is inverted, so "left" on screen is max X.
func (c Composer) annotate(plt *plot.Plot, p *Panel) {
	g := p.Grid
	left := g.X(g.Nx - 1)  // displayed left edge (inverted axis)
	right := g.X(0)        // displayed right edge
	top := g.Y(g.Ny - 1)
	bottom := g.Y(0)
	inX := (left - right) * 0.03
	inY := (top - bottom) * 0.03

	var xys plotter.XYs
	var texts []string
	add := func(x, y float64, s string) {
		if s == "" {
			return
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
		texts = append(texts, s)
	}
	add(left-inX, top-inY, p.Quantity.Label)
	add(right+inX, top-inY, p.Title)
	add(right+inX, bottom+inY, p.Quantity.RangeLabel(p.VMin, p.VMax))
	add(left-inX, bottom+inY, p.LineTag)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return
	}
	plt.Add(labels)
}

// colorBar renders the shared palette strip. Like the pipeline figures it is
// purely a color reference: no ticks, no scale.
func (c Composer) colorBar() *plot.Plot {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(0)
	cm.SetMax(1)
	bar := &plotter.ColorBar{ColorMap: cm}
	bar.Vertical = true
	plt := plot.New()
	plt.Add(bar)
	plt.HideAxes()
	return plt
}

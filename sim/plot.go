package sim

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/ShenWang9202/emgr/matrix"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var palette = []color.Color{
	color.RGBA{R: 255, B: 128, A: 255},
	color.RGBA{G: 160, A: 255},
	color.RGBA{R: 169, G: 169, B: 169, A: 255},
	color.RGBA{B: 255, A: 255},
}

// NewDecayPlot creates semi-logarithmic plot of gramian singular value decay.
// series maps legend names to singular values; values are normalized by the
// largest one of each series.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * no series is supplied
// * either of the supplied series is empty
// * gonum plot fails to be created
func NewDecayPlot(title string, series map[string][]float64) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("Invalid data supplied")
	}

	names := make([]string, 0, len(series))
	for name, vals := range series {
		if len(vals) == 0 {
			return nil, fmt.Errorf("Invalid data dimensions: %s", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = "Index"
	p.Y.Label.Text = "Normalized Singular Value"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	for i, name := range names {
		line, points, err := plotter.NewLinePoints(makeDecayPoints(series[name]))
		if err != nil {
			return nil, err
		}
		line.Color = palette[i%len(palette)]
		points.Color = palette[i%len(palette)]
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(2)

		p.Add(line, points)
		p.Legend.Add(name, line, points)
	}

	return p, nil
}

// makeDecayPoints normalizes vals by the largest magnitude and clamps them to Eps
// so they can be drawn on a logarithmic axis
func makeDecayPoints(vals []float64) plotter.XYs {
	top := 0.0
	for _, v := range vals {
		top = math.Max(top, math.Abs(v))
	}
	if top == 0 {
		top = 1.0
	}

	pts := make(plotter.XYs, len(vals))
	for i, v := range vals {
		pts[i].X = float64(i + 1)
		pts[i].Y = math.Max(math.Abs(v)/top, matrix.Eps)
	}

	return pts
}

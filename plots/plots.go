// Package plots renders diagnostic PNGs: chunk heatmaps and label count
// distributions. Nothing here feeds back into a dataset.
package plots

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/wcharczuk/go-chart"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// grid exposes a colorplot to plotter.HeatMap: columns are time samples,
// rows are the oxidation index.
type grid struct{ m mat.Matrix }

func (g grid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}
func (g grid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// Heatmap writes m as a PNG heatmap to path on fs.
func Heatmap(fs afero.Fs, path, title string, m mat.Matrix) error {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return errors.Errorf("heatmap %s: empty matrix", path)
	}
	if mat.Min(m) == mat.Max(m) {
		return errors.Errorf("heatmap %s: constant matrix", path)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (samples)"
	p.Y.Label.Text = "oxidation index"
	p.Add(plotter.NewHeatMap(grid{m}, palette.Heat(64, 1)))

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return errors.Wrapf(err, "heatmap %s", path)
	}
	return writeFile(fs, path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}

// Counts writes a bar chart of per-label counts to path on fs. Bars follow
// the order of keys.
func Counts(fs afero.Fs, path, title string, keys []string, counts map[string]int) error {
	if len(keys) == 0 {
		return errors.Errorf("counts %s: nothing to plot", path)
	}
	bars := make([]chart.Value, 0, len(keys))
	top := 0
	for _, k := range keys {
		bars = append(bars, chart.Value{Label: k, Value: float64(counts[k])})
		if counts[k] > top {
			top = counts[k]
		}
	}
	if top == 0 {
		return errors.Errorf("counts %s: all counts are zero", path)
	}

	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.StyleShow(),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Height:     512,
		BarWidth:   60,
		XAxis:      chart.StyleShow(),
		YAxis: chart.YAxis{
			Style: chart.StyleShow(),
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top) * 1.1},
		},
		Bars: bars,
	}
	return writeFile(fs, path, func(w io.Writer) error {
		return graph.Render(chart.PNG, w)
	})
}

func writeFile(fs afero.Fs, path string, fn func(io.Writer) error) error {
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "render %s", path)
	}
	return f.Close()
}

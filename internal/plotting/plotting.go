// Package plotting draws x/y projections of phase-space trajectories, as a
// PNG through gonum/plot or as an HTML scatter chart through go-echarts.
package plotting

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("plotting: no data")

// Series is one named trajectory projected onto the x/y plane.
type Series struct {
	Name string
	X, Y []float64
}

// SeriesFromDense takes rows 0 and 1 of a D×N position batch.
func SeriesFromDense(name string, pos *mat.Dense) Series {
	return Series{
		Name: name,
		X:    mat.Row(nil, 0, pos),
		Y:    mat.Row(nil, 1, pos),
	}
}

func (s Series) xys() plotter.XYs {
	n := min(len(s.X), len(s.Y))
	pts := make(plotter.XYs, n)
	for i := range pts {
		pts[i] = plotter.XY{X: s.X[i], Y: s.Y[i]}
	}
	return pts
}

// extent is the half-width of a square window centred on the origin that
// holds every finite point.
func extent(series []Series) float64 {
	var m float64
	for _, s := range series {
		for _, p := range s.xys() {
			for _, v := range [2]float64{p.X, p.Y} {
				if a := math.Abs(v); !math.IsInf(a, 0) && !math.IsNaN(a) && a > m {
					m = a
				}
			}
		}
	}
	if m == 0 {
		return 1
	}
	return m * 1.1
}

func checkSeries(series []Series) error {
	if len(series) == 0 {
		return ErrNoData
	}
	for _, s := range series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("series %q: %d x values but %d y values", s.Name, len(s.X), len(s.Y))
		}
		if len(s.X) == 0 {
			return fmt.Errorf("%w: series %q is empty", ErrNoData, s.Name)
		}
	}
	return nil
}

// SaveTrajectoryPNG writes one line per series to path. The image format
// follows the file extension.
func SaveTrajectoryPNG(path, title string, series ...Series) error {
	if err := checkSeries(series); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	pad := extent(series)
	p.X.Min, p.X.Max = -pad, pad
	p.Y.Min, p.Y.Max = -pad, pad
	p.Add(plotter.NewGrid())

	for i, s := range series {
		pts := s.xys()
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Name, line)

		// Mark where each trajectory starts.
		start, err := plotter.NewScatter(pts[:1])
		if err != nil {
			return err
		}
		start.GlyphStyle.Color = plotutil.Color(i)
		start.GlyphStyle.Shape = draw.CircleGlyph{}
		start.GlyphStyle.Radius = vg.Points(3)
		p.Add(start)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

// RenderTrajectoryHTML writes a standalone HTML page with one scatter series
// per trajectory on symmetric square axes.
func RenderTrajectoryHTML(w io.Writer, title string, series ...Series) error {
	if err := checkSeries(series); err != nil {
		return err
	}
	pad := extent(series)

	total := 0
	for _, s := range series {
		total += len(s.X)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("series=%d points=%d", len(series), total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "y", NameLocation: "middle", NameGap: 30}),
	)

	for _, s := range series {
		data := make([]opts.ScatterData, 0, len(s.X))
		for _, p := range s.xys() {
			data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}})
		}
		scatter.AddSeries(s.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

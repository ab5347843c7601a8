package histogram

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoSeries indicates a plot request without any histogram.
var ErrNoSeries = errors.New("no series to plot")

// PlotOptions labels and sizes a plot. Zero sizes default to 8x5 inches.
type PlotOptions struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
}

func (o PlotOptions) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w == 0 {
		w = 8 * vg.Inch
	}
	if h == 0 {
		h = 5 * vg.Inch
	}
	return w, h
}

// Plot renders one line per series, in name order, and writes it to w as
// PNG.
func Plot(w io.Writer, opts PlotOptions, series map[string]*Histogram) error {
	p, err := newPlot(opts, series)
	if err != nil {
		return err
	}
	width, height := opts.size()
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

// SavePlot is like Plot but writes to path, choosing the image format from
// the extension (.png, .svg, .pdf, ...).
func SavePlot(path string, opts PlotOptions, series map[string]*Histogram) error {
	p, err := newPlot(opts, series)
	if err != nil {
		return err
	}
	width, height := opts.size()
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

func newPlot(opts PlotOptions, series map[string]*Histogram) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(plotter.NewGrid())

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	slices.Sort(names)

	for i, name := range names {
		h := series[name]
		centers := h.Centers()
		pts := make(plotter.XYs, len(centers))
		for j, x := range centers {
			pts[j] = plotter.XY{X: x, Y: h.counts[j]}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

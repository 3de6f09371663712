package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const format = "svg"

var (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch

	ErrNoColumns = errors.New("not enough columns to plot")

	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Options controls the scatter plot.
type Options struct {
	// X and Y are the plotted columns, the first two columns if empty.
	X, Y string
	// Highlight overlays the given cluster.
	Highlight *int
	// Only plots the highlighted cluster alone.
	Only   bool
	Legend model.Legend
	Title  string
	Width  vg.Length
	Height vg.Length
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Axes resolves the plotted columns of the table.
func Axes(t *data.Table, x, y string) (int, int, error) {
	if len(t.Columns) < 2 && (x == "" || y == "") {
		return 0, 0, ErrNoColumns
	}
	column := func(name string, fallback int) (int, error) {
		if name == "" {
			return fallback, nil
		}
		j, ok := t.Column(name)
		if !ok {
			return 0, fmt.Errorf("'%s': %w", name, data.ErrUnknownColumn)
		}
		return j, nil
	}
	xi, err := column(x, 0)
	if err != nil {
		return 0, 0, err
	}
	yi, err := column(y, 1)
	if err != nil {
		return 0, 0, err
	}
	return xi, yi, nil
}

// Scatter renders the two columns of the table coloured by cluster.
func Scatter(t *data.Table, labels model.Labels, opt Options) ([]byte, error) {
	xi, yi, err := Axes(t, opt.X, opt.Y)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = t.Columns[xi]
	p.Y.Label.Text = t.Columns[yi]
	p.Add(plotter.NewGrid())

	groups := make(map[int]plotter.XYs)
	for i, row := range t.Rows {
		if i >= len(labels) {
			break
		}
		x, y := row[xi], row[yi]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		groups[labels[i]] = append(groups[labels[i]], plotter.XY{X: x, Y: y})
	}

	if !opt.Only {
		for _, c := range labels.Clusters() {
			points, ok := groups[c]
			if !ok {
				continue
			}
			s, err := plotter.NewScatter(points)
			if err != nil {
				return nil, fmt.Errorf("could not plot cluster %d: %w", c, err)
			}
			entry := opt.Legend.Entry(c)
			s.GlyphStyle.Color = entry.RGBA()
			s.GlyphStyle.Shape = draw.CircleGlyph{}
			s.GlyphStyle.Radius = vg.Points(3)
			p.Add(s)
			p.Legend.Add(entry.Name(), s)
		}
	}

	if opt.Highlight != nil {
		c := *opt.Highlight
		if points, ok := groups[c]; ok {
			fill, err := plotter.NewScatter(points)
			if err != nil {
				return nil, fmt.Errorf("could not highlight cluster %d: %w", c, err)
			}
			fill.GlyphStyle.Color = black
			fill.GlyphStyle.Shape = draw.CircleGlyph{}
			fill.GlyphStyle.Radius = vg.Points(3.5)

			ring, err := plotter.NewScatter(points)
			if err != nil {
				return nil, fmt.Errorf("could not highlight cluster %d: %w", c, err)
			}
			ring.GlyphStyle.Color = white
			ring.GlyphStyle.Shape = draw.RingGlyph{}
			ring.GlyphStyle.Radius = vg.Points(3.5)

			p.Add(fill, ring)
			p.Legend.Add(fmt.Sprintf("Selected %s", opt.Legend.Entry(c).Name()), fill)
		}
	}

	return render(p, opt)
}

// Box renders one box per cluster for the given column.
// Clusters with no value for the column are skipped.
func Box(t *data.Table, labels model.Labels, column string, clusters []int, opt Options) ([]byte, error) {
	j, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("'%s': %w", column, data.ErrUnknownColumn)
	}
	if len(clusters) == 0 {
		clusters = labels.Clusters()
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.Y.Label.Text = column
	p.Add(plotter.NewGrid())

	names := make([]string, 0, len(clusters))
	for _, c := range clusters {
		values := make(plotter.Values, 0)
		for i, row := range t.Rows {
			if i < len(labels) && labels[i] == c && !math.IsNaN(row[j]) {
				values = append(values, row[j])
			}
		}
		if len(values) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(20), float64(len(names)), values)
		if err != nil {
			return nil, fmt.Errorf("could not plot cluster %d: %w", c, err)
		}
		b.FillColor = opt.Legend.Entry(c).RGBA()
		p.Add(b)
		names = append(names, opt.Legend.Entry(c).Name())
	}
	if len(names) > 0 {
		p.NominalX(names...)
	}

	return render(p, opt)
}

func render(p *plot.Plot, opt Options) ([]byte, error) {
	w, h := opt.size()
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return nil, fmt.Errorf("could not create %s canvas: %w", format, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("could not render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

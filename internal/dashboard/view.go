package dashboard

import (
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/drakos74/devcluster/infra/config"
	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/math"
	"github.com/drakos74/devcluster/internal/model"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templates embed.FS

var formatter model.Formatter = model.NewFormatter(2)

var page = template.Must(template.New("dashboard.html").
	Funcs(template.FuncMap{
		"format": formatter.Format,
		"statistics": func() []string {
			return math.StatisticNames
		},
	}).
	ParseFS(templates, "templates/*.html"))

// Option is one choice of a form control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Table is a printable part of the dataset.
type Table struct {
	Columns []string
	Rows    [][]string
}

// View is everything the dashboard page shows for a request.
type View struct {
	Title       string
	Background  string
	MultiSelect bool
	Request     Request
	Query       string
	Clusters    []Option
	Modes       []Option
	Features    []Option
	XAxis       []Option
	YAxis       []Option
	BoxColumns  []Option
	Prompt      string
	Warning     string
	Rows        int
	Selection   *Selection
	Legend      model.Legend
	Scatter     template.URL
	Focus       template.URL
	Box         template.URL
	Raw         *Table
}

// Render runs the pipeline and collects the page contents.
func (s *Service) Render(ctx context.Context, req Request) (*View, error) {
	v := &View{
		Title:       s.config.Title,
		Background:  s.config.Background,
		MultiSelect: s.config.MultiSelect,
		Request:     req,
		Query:       req.Query().Encode(),
		Modes: []Option{
			{Value: string(Precomputed), Label: "Precomputed clusters", Selected: req.Mode != Predict},
			{Value: string(Predict), Label: "Predict from features", Selected: req.Mode == Predict},
		},
	}

	st, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	v.Prompt = st.prompt
	v.Warning = st.warning
	if st.table == nil {
		return v, nil
	}

	v.Rows = st.table.Len()
	v.Legend = st.legend
	numeric := st.table.Numeric()
	v.Features = options(numeric, req.Features...)
	v.Clusters = make([]Option, len(st.legend))
	for i, e := range st.legend {
		v.Clusters[i] = Option{
			Value:    strconv.Itoa(i + 1),
			Label:    e.Name(),
			Selected: req.Selected(i),
		}
	}
	x, y, box := defaults(st.table, req)
	v.XAxis = options(numeric, x)
	v.YAxis = options(numeric, y)
	v.BoxColumns = options(numeric, box)

	if !st.ready() {
		return v, nil
	}

	v.Selection = s.describe(st, req)

	if v.Scatter, err = s.image(s.scatter(st, req)); err != nil {
		return nil, err
	}
	if req.Only {
		if v.Focus, err = s.image(s.focus(st, req)); err != nil {
			return nil, err
		}
	}
	if v.Box, err = s.image(s.box(st, req)); err != nil {
		return nil, err
	}

	if req.Raw {
		v.Raw = printable(st.labels.Filter(st.table, req.Clusters...).Head(s.config.RawRows), formatter)
	}
	return v, nil
}

// image embeds the svg as a data url.
// Plots that cannot be drawn for the data are left out of the page.
func (s *Service) image(b []byte, err error) (template.URL, error) {
	if err != nil {
		if errors.Is(err, ErrNothingToPlot) {
			log.Debug().Err(err).Msg("skipping plot")
			return "", nil
		}
		return "", err
	}
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(b)), nil
}

func options(values []string, selected ...string) []Option {
	is := make(map[string]bool, len(selected))
	for _, s := range selected {
		is[s] = true
	}
	oo := make([]Option, len(values))
	for i, v := range values {
		oo[i] = Option{
			Value:    v,
			Label:    v,
			Selected: is[v],
		}
	}
	return oo
}

func printable(t *data.Table, f model.Formatter) *Table {
	raw := &Table{
		Columns: append([]string{"#"}, t.Columns...),
		Rows:    make([][]string, t.Len()),
	}
	for i, row := range t.Rows {
		r := make([]string, 0, len(row)+1)
		r = append(r, strconv.Itoa(t.Index[i]))
		for _, value := range row {
			r = append(r, f.Format(value))
		}
		raw.Rows[i] = r
	}
	return raw
}

// Page writes the html page of the view in the given theme.
func Page(w io.Writer, v *View, theme string) error {
	switch theme {
	case config.ThemeImage, config.ThemeGradient, config.ThemePlain:
	default:
		return fmt.Errorf("unknown theme '%s'", theme)
	}
	err := page.Execute(w, struct {
		*View
		Theme string
	}{
		View:  v,
		Theme: theme,
	})
	if err != nil {
		return fmt.Errorf("could not render page: %w", err)
	}
	return nil
}

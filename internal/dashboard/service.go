package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/drakos74/devcluster/infra/config"
	"github.com/drakos74/devcluster/internal/artifact"
	"github.com/drakos74/devcluster/internal/chart"
	"github.com/drakos74/devcluster/internal/cluster"
	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/math"
	"github.com/drakos74/devcluster/internal/model"
	"github.com/drakos74/devcluster/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot/vg"
)

const (
	uploadLabel = "dataset"

	PromptUpload   = "Please upload a CSV file to get started."
	PromptExpired  = "The uploaded dataset is no longer available, please upload it again."
	PromptFeatures = "Please select at least one feature to predict clusters."
)

// ErrNothingToPlot is returned for plots of a selection without cluster labels.
var ErrNothingToPlot = errors.New("nothing to plot")

// Service runs the dashboard pipeline for every request.
type Service struct {
	source  artifact.Source
	uploads storage.Persistence
	legend  model.Legend
	config  config.Dashboard
}

// NewService creates a dashboard over the given artifacts and upload store.
func NewService(source artifact.Source, uploads storage.Persistence, cfg *config.Config) *Service {
	return &Service{
		source:  source,
		uploads: uploads,
		legend:  cfg.Legend,
		config:  cfg.Dashboard,
	}
}

// Config returns the dashboard configuration.
func (s *Service) Config() config.Dashboard {
	return s.config
}

// state is the outcome of the pipeline up to the cluster assignment.
// Labels are nil when a prompt or a warning stopped the pipeline.
type state struct {
	table   *data.Table
	model   *model.Model
	labels  model.Labels
	legend  model.Legend
	prompt  string
	warning string
}

func (st *state) ready() bool {
	return st.labels != nil
}

func (st *state) message() string {
	if st.prompt != "" {
		return st.prompt
	}
	return st.warning
}

func (s *Service) run(ctx context.Context, req Request) (*state, error) {
	st := &state{}

	table, prompt, err := s.dataset(ctx, req)
	if err != nil {
		return nil, err
	}
	if prompt != "" {
		st.prompt = prompt
		return st, nil
	}
	st.table = table

	m, err := s.source.Model(ctx)
	if err != nil {
		return nil, err
	}
	st.model = m
	st.legend = s.legend.For(m.K)

	for _, c := range req.Clusters {
		if c < 0 || c >= m.K {
			return nil, fmt.Errorf("cluster %d is outside [1,%d]: %w", c+1, m.K, ErrBadRequest)
		}
	}

	var assigner cluster.Assigner
	switch req.Mode {
	case Predict:
		assigner = cluster.NewPredictor(m, req.Features...)
	default:
		assigner = cluster.NewPrecomputed(m)
	}

	labels, err := assigner.Assign(ctx, table)
	switch {
	case err == nil:
		st.labels = labels
	case errors.Is(err, cluster.ErrNoFeatures):
		st.prompt = PromptFeatures
	case errors.Is(err, cluster.ErrRowMismatch), errors.Is(err, cluster.ErrTooFewRows):
		st.warning = err.Error()
	case errors.Is(err, data.ErrUnknownColumn):
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrBadRequest)
	default:
		return nil, fmt.Errorf("could not assign clusters: %w", err)
	}
	return st, nil
}

func (s *Service) dataset(ctx context.Context, req Request) (*data.Table, string, error) {
	if req.Dataset != "" {
		var raw data.Raw
		err := s.uploads.Load(uploadKey(req.Dataset), &raw)
		if errors.Is(err, storage.NotFoundErr) {
			return nil, PromptExpired, nil
		}
		if err != nil {
			return nil, "", fmt.Errorf("could not load upload '%s': %w", req.Dataset, err)
		}
		return data.Clean(&raw), "", nil
	}
	if !s.source.Bundled() {
		return nil, PromptUpload, nil
	}
	t, err := s.source.Dataset(ctx)
	if err != nil {
		return nil, "", err
	}
	return t, "", nil
}

// Upload stores the given CSV and returns the id to render it with.
func (s *Service) Upload(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := data.ReadCSV(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", err.Error(), ErrBadRequest)
	}
	id := uuid.New().String()
	if err := s.uploads.Store(uploadKey(id), raw); err != nil {
		return "", fmt.Errorf("could not store upload: %w", err)
	}
	log.Info().
		Str("id", id).
		Int("rows", len(raw.Records)).
		Int("columns", len(raw.Header)).
		Msg("stored upload")
	return id, nil
}

func uploadKey(id string) storage.Key {
	return storage.Key{
		Name:  id,
		Label: uploadLabel,
	}
}

// Selection is the description of the selected clusters.
type Selection struct {
	Clusters []int        `json:"clusters"`
	Rows     int          `json:"rows"`
	Summary  math.Summary `json:"summary"`
	Prompt   string       `json:"prompt,omitempty"`
	Warning  string       `json:"warning,omitempty"`
}

// Describe returns the statistics of the rows in the selected clusters.
func (s *Service) Describe(ctx context.Context, req Request) (*Selection, error) {
	st, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.describe(st, req), nil
}

func (s *Service) describe(st *state, req Request) *Selection {
	display := make([]int, len(req.Clusters))
	for i, c := range req.Clusters {
		display[i] = c + 1
	}
	sel := &Selection{
		Clusters: display,
		Prompt:   st.prompt,
		Warning:  st.warning,
	}
	if !st.ready() {
		return sel
	}
	selected := st.labels.Filter(st.table, req.Clusters...)
	sel.Rows = selected.Len()
	sel.Summary = math.Describe(selected)
	return sel
}

// Scatter renders the scatter plot of all clusters with the selection highlighted.
func (s *Service) Scatter(ctx context.Context, req Request) ([]byte, error) {
	st, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	if !st.ready() {
		return nil, fmt.Errorf("%s: %w", st.message(), ErrNothingToPlot)
	}
	if req.Only {
		return s.focus(st, req)
	}
	return s.scatter(st, req)
}

// defaults fills the plotted columns missing from the request with the first numeric columns.
func defaults(t *data.Table, req Request) (x, y, box string) {
	x, y, box = req.X, req.Y, req.Box
	numeric := t.Numeric()
	if x == "" && len(numeric) > 0 {
		x = numeric[0]
	}
	if y == "" && len(numeric) > 1 {
		y = numeric[1]
	}
	if box == "" && len(numeric) > 0 {
		box = numeric[0]
	}
	return x, y, box
}

func (s *Service) options(st *state, req Request) chart.Options {
	x, y, _ := defaults(st.table, req)
	return chart.Options{
		X:      x,
		Y:      y,
		Legend: st.legend,
		Width:  vg.Length(s.config.Width),
		Height: vg.Length(s.config.Height),
	}
}

func (s *Service) scatter(st *state, req Request) ([]byte, error) {
	opt := s.options(st, req)
	opt.Title = "Visualizing Clusters"
	if len(req.Clusters) == 1 {
		opt.Highlight = &req.Clusters[0]
	}
	return s.plot(chart.Scatter(st.table, st.labels, opt))
}

// focus plots the selected clusters alone.
func (s *Service) focus(st *state, req Request) ([]byte, error) {
	opt := s.options(st, req)
	if len(req.Clusters) == 1 {
		opt.Title = fmt.Sprintf("%s only", st.legend.Entry(req.Clusters[0]).Name())
		opt.Highlight = &req.Clusters[0]
		opt.Only = true
		return s.plot(chart.Scatter(st.table, st.labels, opt))
	}
	opt.Title = "Selected clusters only"
	selected := st.labels.Filter(st.table, req.Clusters...)
	labels := make(model.Labels, selected.Len())
	for i := range labels {
		labels[i] = st.labels[selected.Index[i]]
	}
	return s.plot(chart.Scatter(selected, labels, opt))
}

// Box renders the box plot of one column for the selected clusters.
func (s *Service) Box(ctx context.Context, req Request) ([]byte, error) {
	st, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	if !st.ready() {
		return nil, fmt.Errorf("%s: %w", st.message(), ErrNothingToPlot)
	}
	return s.box(st, req)
}

func (s *Service) box(st *state, req Request) ([]byte, error) {
	_, _, column := defaults(st.table, req)
	opt := s.options(st, req)
	opt.Title = fmt.Sprintf("Distribution of %s", column)
	return s.plot(chart.Box(st.table, st.labels, column, req.Clusters, opt))
}

func (s *Service) plot(b []byte, err error) ([]byte, error) {
	if errors.Is(err, data.ErrUnknownColumn) {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrBadRequest)
	}
	if errors.Is(err, chart.ErrNoColumns) {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrNothingToPlot)
	}
	return b, err
}

// Legend returns the legend for the clusters of the current model.
func (s *Service) Legend(ctx context.Context) (model.Legend, error) {
	m, err := s.source.Model(ctx)
	if err != nil {
		return nil, err
	}
	return s.legend.For(m.K), nil
}

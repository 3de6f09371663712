package cluster

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/math/ml"
	"github.com/drakos74/devcluster/internal/model"
	"github.com/rs/zerolog/log"
)

const DefaultIterations = 300

var (
	ErrRowMismatch = errors.New("labels do not match the dataset rows")
	ErrNoFeatures  = errors.New("no features selected")
	ErrTooFewRows  = errors.New("not enough rows for the clusters")
)

// Assigner assigns a cluster to every row of a table.
type Assigner interface {
	Assign(ctx context.Context, t *data.Table) (model.Labels, error)
}

// Precomputed uses the labels the model was fitted with.
type Precomputed struct {
	Model *model.Model
}

// NewPrecomputed creates an assigner for the labels of the given model.
func NewPrecomputed(m *model.Model) *Precomputed {
	return &Precomputed{Model: m}
}

// Assign returns the model labels, if they align with the table rows.
func (p *Precomputed) Assign(ctx context.Context, t *data.Table) (model.Labels, error) {
	if len(p.Model.Labels) != t.Len() {
		return nil, fmt.Errorf("%d labels for %d rows: %w", len(p.Model.Labels), t.Len(), ErrRowMismatch)
	}
	labels := make(model.Labels, len(p.Model.Labels))
	copy(labels, p.Model.Labels)
	return labels, nil
}

// Predictor assigns fresh labels from the selected features.
type Predictor struct {
	Model      *model.Model
	Features   []string
	Iterations int
}

// NewPredictor creates an assigner predicting on the given features.
func NewPredictor(m *model.Model, features ...string) *Predictor {
	return &Predictor{
		Model:      m,
		Features:   features,
		Iterations: DefaultIterations,
	}
}

// Assign standardizes the selected features and assigns each row to its nearest centroid.
// Rows are standardized with the scaler stored in the model when there is one,
// otherwise with the statistics of the table.
// When the selection differs from the features the model was fitted on,
// a model with the same number of clusters is fitted on the selection.
func (p *Predictor) Assign(ctx context.Context, t *data.Table) (model.Labels, error) {
	if len(p.Features) == 0 {
		return nil, ErrNoFeatures
	}

	features := p.Features
	fitted := sameFeatures(p.Features, p.Model.Features)
	if fitted {
		features = p.Model.Features
	}

	scaler := p.Model.Scaler
	if !fitted || scaler == nil {
		var err error
		scaler, err = data.FitScaler(t, features...)
		if err != nil {
			return nil, fmt.Errorf("could not standardize features: %w", err)
		}
	}
	x, err := scaler.Transform(t)
	if err != nil {
		return nil, err
	}

	if fitted {
		return p.predict(ctx, x)
	}
	return p.refit(x)
}

func (p *Predictor) predict(ctx context.Context, x [][]float64) (model.Labels, error) {
	kmeans := ml.FromCentroids(p.Model.Centroids)
	labels := make(model.Labels, len(x))
	for i, v := range x {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := kmeans.Predict(v)
		if err != nil {
			return nil, fmt.Errorf("could not predict row %d: %w", i, err)
		}
		labels[i] = c
	}
	return labels, nil
}

func (p *Predictor) refit(x [][]float64) (model.Labels, error) {
	if len(x) < p.Model.K {
		return nil, fmt.Errorf("%d rows for %d clusters: %w", len(x), p.Model.K, ErrTooFewRows)
	}
	log.Debug().
		Strs("features", p.Features).
		Strs("model", p.Model.Features).
		Int("k", p.Model.K).
		Msg("refitting clusters for feature selection")
	kmeans := ml.NewKMeans(p.Model.K, p.Iterations)
	guesses, err := kmeans.Fit(x)
	if err != nil {
		return nil, err
	}
	return model.Labels(guesses), nil
}

func sameFeatures(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	aa := append([]string(nil), a...)
	bb := append([]string(nil), b...)
	sort.Strings(aa)
	sort.Strings(bb)
	for i := range aa {
		if aa[i] != bb[i] {
			return false
		}
	}
	return true
}

package cluster

import (
	"fmt"

	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/math/ml"
	"github.com/drakos74/devcluster/internal/model"
	"github.com/rs/zerolog/log"
)

// Train fits a model of k clusters on the standardized features of the table.
// Without features every numeric column is used.
func Train(t *data.Table, k, iterations int, features ...string) (*model.Model, error) {
	if len(features) == 0 {
		features = t.Numeric()
	}
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}
	if t.Len() < k {
		return nil, fmt.Errorf("%d rows for %d clusters: %w", t.Len(), k, ErrTooFewRows)
	}

	scaler, err := data.FitScaler(t, features...)
	if err != nil {
		return nil, fmt.Errorf("could not standardize features: %w", err)
	}
	x, err := scaler.Transform(t)
	if err != nil {
		return nil, err
	}

	kmeans := ml.NewKMeans(k, iterations)
	labels, err := kmeans.Fit(x)
	if err != nil {
		return nil, err
	}

	m := &model.Model{
		K:         k,
		Features:  scaler.Columns,
		Centroids: kmeans.Centroids(),
		Labels:    labels,
		Scaler:    scaler,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	log.Info().
		Int("k", k).
		Int("rows", t.Len()).
		Strs("features", m.Features).
		Interface("counts", m.Labels.Counts()).
		Msg("trained model")
	return m, nil
}

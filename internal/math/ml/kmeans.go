package ml

import (
	"errors"
	"fmt"
	"math"

	"github.com/cdipaolo/goml/cluster"
	"github.com/rs/zerolog/log"
)

var ErrNotFitted = errors.New("no model present")

// KMeans wraps a k-means model fitted on standardized vectors.
type KMeans struct {
	k          int
	iterations int
	model      *cluster.KMeans
}

// NewKMeans creates an un-fitted model with k clusters.
func NewKMeans(k int, iterations int) *KMeans {
	return &KMeans{
		k:          k,
		iterations: iterations,
	}
}

// FromCentroids restores a fitted model from its centroids.
func FromCentroids(centroids [][]float64) *KMeans {
	model := cluster.NewKMeans(len(centroids), 0, nil)
	model.Centroids = centroids
	return &KMeans{
		k:     len(centroids),
		model: model,
	}
}

// Fit learns the centroids from the given vectors and returns the cluster of each.
func (k *KMeans) Fit(x [][]float64) ([]int, error) {
	if len(x) < k.k {
		return nil, fmt.Errorf("need at least %d vectors to fit %d clusters, got %d", k.k, k.k, len(x))
	}
	model := cluster.NewKMeans(k.k, k.iterations, x)
	model.Output = log.Logger
	if err := model.Learn(); err != nil {
		log.Error().
			Err(err).
			Int("k", k.k).
			Int("vectors", len(x)).
			Msg("error during training on k-means")
		return nil, fmt.Errorf("could not train: %w", err)
	}
	k.model = model
	guesses := model.Guesses()
	if len(guesses) != len(x) {
		return nil, fmt.Errorf("could not align guesses with data [ %d | %d ]", len(guesses), len(x))
	}
	return guesses, nil
}

// Predict returns the index of the centroid closest to x.
func (k *KMeans) Predict(x []float64) (int, error) {
	if k.model == nil || len(k.model.Centroids) == 0 {
		return 0, ErrNotFitted
	}
	if len(x) != len(k.model.Centroids[0]) {
		return 0, fmt.Errorf("vector of %d dimensions for centroids of %d", len(x), len(k.model.Centroids[0]))
	}
	guess, err := k.model.Predict(x)
	if err != nil {
		return 0, fmt.Errorf("could not predict: %w", err)
	}
	return int(math.Round(guess[0])), nil
}

// Centroids returns the fitted centroids.
func (k *KMeans) Centroids() [][]float64 {
	if k.model == nil {
		return nil
	}
	return k.model.Centroids
}

// K returns the number of clusters.
func (k *KMeans) K() int {
	return k.k
}

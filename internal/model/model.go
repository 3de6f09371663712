package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/storage"
)

const (
	// DefaultName is the storage name of the bundled model.
	DefaultName = "kmeans"
	artifact    = "model"
)

var ErrInvalidModel = errors.New("invalid model")

// Key returns the storage key of the model with the given name.
func Key(name string) storage.Key {
	return storage.Key{
		Name:  name,
		Label: artifact,
	}
}

// Model is an already fitted clustering model.
type Model struct {
	K         int          `json:"k"`
	Features  []string     `json:"features"`
	Centroids [][]float64  `json:"centroids"`
	Labels    Labels       `json:"labels"`
	Scaler    *data.Scaler `json:"scaler,omitempty"`
}

// Validate checks the model is consistent with its cluster count.
func (m *Model) Validate() error {
	if m == nil {
		return fmt.Errorf("no model: %w", ErrInvalidModel)
	}
	if m.K < 1 {
		return fmt.Errorf("cluster count %d: %w", m.K, ErrInvalidModel)
	}
	if len(m.Centroids) != m.K {
		return fmt.Errorf("%d centroids for %d clusters: %w", len(m.Centroids), m.K, ErrInvalidModel)
	}
	for i, c := range m.Centroids {
		if len(c) != len(m.Features) {
			return fmt.Errorf("centroid %d has %d dimensions for %d features: %w", i, len(c), len(m.Features), ErrInvalidModel)
		}
	}
	if m.Scaler != nil {
		if err := m.validateScaler(); err != nil {
			return err
		}
	}
	if err := m.Labels.Validate(m.K); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), ErrInvalidModel)
	}
	return nil
}

// validateScaler checks the scaler standardizes exactly the model features, in order.
func (m *Model) validateScaler() error {
	s := m.Scaler
	if len(s.Columns) != len(m.Features) || len(s.Mean) != len(m.Features) || len(s.Std) != len(m.Features) {
		return fmt.Errorf("scaler of %d columns for %d features: %w", len(s.Columns), len(m.Features), ErrInvalidModel)
	}
	for i, c := range s.Columns {
		if c != m.Features[i] {
			return fmt.Errorf("scaler column '%s' does not match feature '%s': %w", c, m.Features[i], ErrInvalidModel)
		}
	}
	return nil
}

// Load loads and validates the model from the given storage.
func Load(store storage.Persistence, name string) (*Model, error) {
	var m Model
	if err := store.Load(Key(name), &m); err != nil {
		return nil, fmt.Errorf("could not load model '%s': %w", name, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("could not load model '%s': %w", name, err)
	}
	return &m, nil
}

// Labels holds the cluster of every row of a dataset, by position.
type Labels []int

// Validate checks every label is within [0,k).
func (l Labels) Validate(k int) error {
	for i, label := range l {
		if label < 0 || label >= k {
			return fmt.Errorf("label %d of row %d is outside [0,%d)", label, i, k)
		}
	}
	return nil
}

// Filter returns the rows of the table labelled with any of the given clusters.
// The table and labels are expected to be aligned.
func (l Labels) Filter(t *data.Table, clusters ...int) *data.Table {
	selected := make(map[int]bool, len(clusters))
	for _, c := range clusters {
		selected[c] = true
	}
	return t.Filter(func(i int) bool {
		return i < len(l) && selected[l[i]]
	})
}

// Partition splits the table by label.
func (l Labels) Partition(t *data.Table) map[int]*data.Table {
	partitions := make(map[int]*data.Table)
	for _, c := range l.Clusters() {
		partitions[c] = l.Filter(t, c)
	}
	return partitions
}

// Counts returns the number of rows per cluster.
func (l Labels) Counts() map[int]int {
	counts := make(map[int]int)
	for _, label := range l {
		counts[label]++
	}
	return counts
}

// Clusters returns the distinct labels in ascending order.
func (l Labels) Clusters() []int {
	counts := l.Counts()
	clusters := make([]int, 0, len(counts))
	for c := range counts {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)
	return clusters
}

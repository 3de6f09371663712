package model

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/storage"
	"github.com/drakos74/devcluster/internal/storage/file/json"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(n int) *data.Table {
	var sb strings.Builder
	sb.WriteString("GDP,CO2\n")
	for i := 0; i < n; i++ {
		sb.WriteString(fmt.Sprintf("%d,%d%%\n", i, i*10))
	}
	raw, _ := data.ReadCSV(strings.NewReader(sb.String()))
	return data.Clean(raw)
}

func TestModel_Validate(t *testing.T) {

	type test struct {
		model *Model
		valid bool
	}

	tests := map[string]test{
		"valid": {
			model: &Model{K: 2, Features: []string{"GDP"}, Centroids: [][]float64{{0}, {1}}, Labels: Labels{0, 1, 1}},
			valid: true,
		},
		"no-labels": {
			model: &Model{K: 1, Features: []string{"GDP"}, Centroids: [][]float64{{0}}},
			valid: true,
		},
		"nil": {},
		"zero-clusters": {
			model: &Model{K: 0},
		},
		"missing-centroid": {
			model: &Model{K: 2, Features: []string{"GDP"}, Centroids: [][]float64{{0}}},
		},
		"wrong-dimension": {
			model: &Model{K: 1, Features: []string{"GDP", "CO2"}, Centroids: [][]float64{{0}}},
		},
		"label-out-of-range": {
			model: &Model{K: 2, Features: []string{"GDP"}, Centroids: [][]float64{{0}, {1}}, Labels: Labels{0, 2}},
		},
		"scaler": {
			model: &Model{K: 1, Features: []string{"GDP"}, Centroids: [][]float64{{0}}, Scaler: &data.Scaler{Columns: []string{"GDP"}, Mean: []float64{1}, Std: []float64{2}}},
			valid: true,
		},
		"scaler-other-columns": {
			model: &Model{K: 1, Features: []string{"GDP"}, Centroids: [][]float64{{0}}, Scaler: &data.Scaler{Columns: []string{"CO2"}, Mean: []float64{1}, Std: []float64{2}}},
		},
		"scaler-missing-std": {
			model: &Model{K: 1, Features: []string{"GDP"}, Centroids: [][]float64{{0}}, Scaler: &data.Scaler{Columns: []string{"GDP"}, Mean: []float64{1}}},
		},
		"negative-label": {
			model: &Model{K: 2, Features: []string{"GDP"}, Centroids: [][]float64{{0}, {1}}, Labels: Labels{-1}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidModel))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	store := json.NewLocalStorage()

	_, err := Load(store, DefaultName)
	assert.True(t, errors.Is(err, storage.NotFoundErr))

	require.NoError(t, store.Store(Key(DefaultName), Model{K: 2}))
	_, err = Load(store, DefaultName)
	assert.True(t, errors.Is(err, ErrInvalidModel))

	m := Model{K: 1, Features: []string{"GDP"}, Centroids: [][]float64{{0}}, Labels: Labels{0, 0}}
	require.NoError(t, store.Store(Key(DefaultName), m))
	loaded, err := Load(store, DefaultName)
	require.NoError(t, err)
	assert.Equal(t, m.Labels, loaded.Labels)
}

func TestLabels_Filter(t *testing.T) {
	// 100 rows, 20 of each of the 5 clusters
	table := rows(100)
	labels := make(Labels, 100)
	for i := range labels {
		labels[i] = i % 5
	}

	selected := labels.Filter(table, 2)
	assert.Equal(t, 20, selected.Len())
	for _, i := range selected.Index {
		assert.Equal(t, 2, labels[i])
	}

	multi := labels.Filter(table, 0, 4)
	assert.Equal(t, 40, multi.Len())
	assert.True(t, sort.IntsAreSorted(multi.Index))

	assert.Equal(t, 0, labels.Filter(table).Len())
	assert.Equal(t, 0, labels.Filter(table, 7).Len())

	assert.Equal(t, map[int]int{0: 20, 1: 20, 2: 20, 3: 20, 4: 20}, labels.Counts())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, labels.Clusters())
}

func TestLabels_PartitionCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("partitions reconstruct the row set", prop.ForAll(
		func(labels []int) bool {
			table := rows(len(labels))
			partitions := Labels(labels).Partition(table)

			index := make([]int, 0, table.Len())
			for c, p := range partitions {
				for _, i := range p.Index {
					if labels[i] != c {
						return false
					}
				}
				index = append(index, p.Index...)
			}
			sort.Ints(index)
			if len(index) != table.Len() {
				return false
			}
			for i := range index {
				if index[i] != i {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.TestingRun(t)
}

func TestLegend(t *testing.T) {
	legend := DefaultLegend()
	require.Equal(t, 5, len(legend))
	assert.Equal(t, "Cluster 1", legend[0].Name())
	assert.Equal(t, "Blue", legend[0].Title())
	assert.Equal(t, color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}, legend[0].RGBA())

	extended := legend.For(7)
	require.Equal(t, 7, len(extended))
	assert.Equal(t, legend[4], extended[4])
	assert.Equal(t, 6, extended[6].Index)
	assert.Equal(t, "pink", extended[6].Color)

	assert.Equal(t, 3, len(legend.For(3)))
	assert.Equal(t, "purple", legend.Entry(4).Color)
	assert.Equal(t, 8, legend.Entry(8).Index)

	outside := legend.Entry(-1)
	assert.Equal(t, -1, outside.Index)
	assert.Equal(t, "", outside.Title())
	assert.Equal(t, color.RGBA{A: 255}, outside.RGBA())

	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 255}, LegendEntry{Hex: "#fff"}.RGBA())
	assert.Equal(t, color.RGBA{A: 255}, LegendEntry{Hex: "blue"}.RGBA())
}

func TestFormatter(t *testing.T) {
	var f Formatter = NewFormatter(3)
	assert.Equal(t, "12", f.Format(12))
	assert.Equal(t, "1.235", f.Format(1.23456))
	assert.Equal(t, Missing, f.Format(math.NaN()))
}

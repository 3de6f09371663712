package chart

import (
	"errors"
	"strings"
	"testing"

	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func world(t *testing.T) (*data.Table, model.Labels) {
	raw, err := data.ReadCSV(strings.NewReader(`GDP,CO2 Emissions,Birth Rate
100,10,1%
110,,2%
1000,500,3%
1100,520,
50%,5,5%
`))
	require.NoError(t, err)
	return data.Clean(raw), model.Labels{0, 0, 1, 1, 2}
}

func TestScatter(t *testing.T) {
	table, labels := world(t)
	highlight := 1

	type test struct {
		opt      Options
		contains []string
		missing  []string
	}

	tests := map[string]test{
		"all-clusters": {
			opt:      Options{Legend: model.DefaultLegend(), Title: "Visualizing Clusters"},
			contains: []string{"Cluster 1", "Cluster 3", "GDP", "CO2 Emissions"},
			missing:  []string{"Selected"},
		},
		"highlight": {
			opt:      Options{Legend: model.DefaultLegend(), Highlight: &highlight},
			contains: []string{"Cluster 1", "Selected Cluster 2"},
		},
		"only-selected": {
			opt:      Options{Legend: model.DefaultLegend(), Highlight: &highlight, Only: true},
			contains: []string{"Selected Cluster 2"},
			missing:  []string{"Cluster 1"},
		},
		"custom-axes": {
			opt:      Options{X: "Birth Rate", Y: "GDP"},
			contains: []string{"Birth Rate"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svg, err := Scatter(table, labels, tt.opt)
			require.NoError(t, err)
			s := string(svg)
			assert.True(t, strings.HasPrefix(strings.TrimSpace(s), "<?xml") || strings.Contains(s, "<svg"))
			for _, c := range tt.contains {
				assert.Contains(t, s, c)
			}
			for _, m := range tt.missing {
				assert.NotContains(t, s, m)
			}
		})
	}
}

func TestScatter_Errors(t *testing.T) {
	table, labels := world(t)

	_, err := Scatter(table, labels, Options{X: "Life Expectancy"})
	assert.True(t, errors.Is(err, data.ErrUnknownColumn))

	single, err := table.Select("GDP")
	require.NoError(t, err)
	_, err = Scatter(single, labels, Options{})
	assert.True(t, errors.Is(err, ErrNoColumns))

	// an empty selection still renders
	empty := table.Filter(func(i int) bool { return false })
	svg, err := Scatter(empty, model.Labels{}, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestBox(t *testing.T) {
	table, labels := world(t)

	svg, err := Box(table, labels, "CO2 Emissions", nil, Options{Legend: model.DefaultLegend()})
	require.NoError(t, err)
	s := string(svg)
	assert.Contains(t, s, "Cluster 1")
	assert.Contains(t, s, "Cluster 2")
	assert.Contains(t, s, "Cluster 3")

	// clusters without values are skipped
	svg, err = Box(table, labels, "GDP", []int{1, 4}, Options{Legend: model.DefaultLegend()})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "Cluster 2")
	assert.NotContains(t, string(svg), "Cluster 5")

	_, err = Box(table, labels, "Life Expectancy", nil, Options{})
	assert.True(t, errors.Is(err, data.ErrUnknownColumn))
}

package data

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestScaler(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader("a,b,c,d\n1,10,5,\n2,20,5,\n3,,5,\n4,40,5,\n"))
	require.NoError(t, err)
	table := Clean(raw)

	scaler, err := FitScaler(table, "a", "b", "c", "d")
	require.NoError(t, err)

	assert.InDelta(t, 2.5, scaler.Mean[0], 1e-9)
	assert.InDelta(t, math.Sqrt(1.25), scaler.Std[0], 1e-9)
	// missing value is ignored
	assert.InDelta(t, 70.0/3, scaler.Mean[1], 1e-9)
	// constant and empty columns
	assert.Equal(t, 0.0, scaler.Std[2])
	assert.Equal(t, 0.0, scaler.Mean[3])

	x, err := scaler.Transform(table)
	require.NoError(t, err)
	require.Equal(t, 4, len(x))

	a := make([]float64, len(x))
	for i := range x {
		a[i] = x[i][0]
		// constant and empty columns map to the centre
		assert.Equal(t, 0.0, x[i][2])
		assert.Equal(t, 0.0, x[i][3])
	}
	assert.InDelta(t, 0, stat.Mean(a, nil), 1e-9)
	assert.InDelta(t, 1, stat.Variance(a, nil)*3/4, 1e-9)

	// the missing b value is imputed with the mean
	assert.Equal(t, 0.0, x[2][1])

	_, err = FitScaler(table, "e")
	assert.Error(t, err)

	other := &Table{Columns: []string{"a"}, Rows: [][]float64{{1}}, Index: []int{0}}
	_, err = scaler.Transform(other)
	assert.Error(t, err)
}

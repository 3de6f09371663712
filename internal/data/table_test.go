package data

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const world = `Country,GDP,CO2 Emissions,Birth Rate
Albania,"$12,000",4000,1.20%
Algeria,50%,121000,2.00%
Angola,75,,5.10%
Benin,n/a,1500,
`

func TestCleanCell(t *testing.T) {

	type test struct {
		cell    string
		value   float64
		missing bool
	}

	tests := map[string]test{
		"percent":        {cell: "50%", value: 50},
		"percent-space":  {cell: " 12.5 % ", value: 12.5},
		"many-percent":   {cell: "%1%", value: 1},
		"plain":          {cell: "3", value: 3},
		"negative":       {cell: "-0.25", value: -0.25},
		"scientific":     {cell: "1e3", value: 1000},
		"empty":          {cell: "", missing: true},
		"text":           {cell: "Albania", missing: true},
		"currency":       {cell: "$12,000", missing: true},
		"infinite":       {cell: "Inf", missing: true},
		"only-percent":   {cell: "%", missing: true},
		"nan-text":       {cell: "nan", missing: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v := CleanCell(tt.cell)
			if tt.missing {
				assert.True(t, math.IsNaN(v), "expected missing value for %q but got %v", tt.cell, v)
			} else {
				assert.Equal(t, tt.value, v)
			}
		})
	}
}

func TestClean(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(world))
	require.NoError(t, err)
	assert.Equal(t, []string{"Country", "GDP", "CO2 Emissions", "Birth Rate"}, raw.Header)
	assert.Equal(t, 4, len(raw.Records))

	table := Clean(raw)
	assert.Equal(t, 4, table.Len())
	assert.Equal(t, []int{0, 1, 2, 3}, table.Index)

	gdp, ok := table.Column("GDP")
	require.True(t, ok)
	assert.True(t, math.IsNaN(table.Rows[0][gdp]))
	assert.Equal(t, 50.0, table.Rows[1][gdp])
	assert.Equal(t, 75.0, table.Rows[2][gdp])

	rate, ok := table.Column("Birth Rate")
	require.True(t, ok)
	assert.Equal(t, 1.2, table.Rows[0][rate])
	assert.True(t, math.IsNaN(table.Rows[3][rate]))

	// the country column survives, with no value
	assert.Equal(t, []string{"GDP", "CO2 Emissions", "Birth Rate"}, table.Numeric())
}

func TestClean_SingleCell(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader("GDP\n50%\n"))
	require.NoError(t, err)
	table := Clean(raw)
	assert.Equal(t, [][]float64{{50.0}}, table.Rows)
}

func TestReadCSV_Ragged(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2", ""}, {"1", "2", "3"}}, raw.Records)

	_, err = ReadCSV(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.csv")
	require.NoError(t, os.WriteFile(path, []byte(world), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestTable_SelectFilterHead(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(world))
	require.NoError(t, err)
	table := Clean(raw)

	selected, err := table.Select("Birth Rate", "GDP")
	require.NoError(t, err)
	assert.Equal(t, []string{"Birth Rate", "GDP"}, selected.Columns)
	assert.Equal(t, 2.0, selected.Rows[1][0])
	assert.Equal(t, 50.0, selected.Rows[1][1])

	_, err = table.Select("Life Expectancy")
	assert.True(t, errors.Is(err, ErrUnknownColumn))

	odd := table.Filter(func(i int) bool { return i%2 == 1 })
	assert.Equal(t, []int{1, 3}, odd.Index)
	assert.Equal(t, 2, odd.Len())

	// filtering again keeps the original positions
	last := odd.Filter(func(i int) bool { return i == 1 })
	assert.Equal(t, []int{3}, last.Index)

	assert.Equal(t, 2, table.Head(2).Len())
	assert.Equal(t, 4, table.Head(10).Len())
}

func TestCleanProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("percent sign is stripped before parsing", prop.ForAll(
		func(v float64) bool {
			cell := fmt.Sprintf("%v%%", v)
			return CleanCell(cell) == v
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("cleaned cells are finite or missing", prop.ForAll(
		func(cell string) bool {
			v := CleanCell(cell)
			return math.IsNaN(v) || !math.IsInf(v, 0)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

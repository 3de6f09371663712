package math

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/drakos74/devcluster/internal/buffer"
	"github.com/drakos74/devcluster/internal/data"
)

// Description holds the descriptive statistics of one column.
// Undefined statistics are NaN.
type Description struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// Summary is the description of every column of a table.
type Summary struct {
	Rows    int           `json:"rows"`
	Columns []Description `json:"columns"`
}

// Empty is true when the summary was built from no rows.
func (s Summary) Empty() bool {
	return s.Rows == 0
}

// Describe computes count, mean, sample standard deviation, min, quartiles and max
// for every column of the table, skipping missing values.
func Describe(t *data.Table) Summary {
	if t == nil {
		return Summary{}
	}

	collector := buffer.NewStatsCollector(len(t.Columns))
	for _, row := range t.Rows {
		collector.Push(row...)
	}

	stats := collector.Stats()
	columns := make([]Description, len(t.Columns))
	for j, c := range t.Columns {
		s := stats[j]
		values := make([]float64, 0, s.Count())
		for _, row := range t.Rows {
			if !math.IsNaN(row[j]) {
				values = append(values, row[j])
			}
		}
		sort.Float64s(values)
		columns[j] = Description{
			Column: c,
			Count:  s.Count(),
			Mean:   s.Avg(),
			Std:    s.SampleStDev(),
			Min:    s.Min(),
			Q25:    Quantile(values, 0.25),
			Q50:    Quantile(values, 0.5),
			Q75:    Quantile(values, 0.75),
			Max:    s.Max(),
		}
	}

	return Summary{
		Rows:    t.Len(),
		Columns: columns,
	}
}

// Quantile returns the p-quantile of the sorted values,
// interpolating linearly between the closest ranks at (n-1)*p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || p < 0 || p > 1 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Statistics lists the statistics in display order.
func (d Description) Statistics() []float64 {
	return []float64{float64(d.Count), d.Mean, d.Std, d.Min, d.Q25, d.Q50, d.Q75, d.Max}
}

// StatisticNames are the labels of Description.Statistics.
var StatisticNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// MarshalJSON encodes undefined statistics as null.
func (d Description) MarshalJSON() ([]byte, error) {
	value := func(f float64) *float64 {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		Q25    *float64 `json:"25%"`
		Q50    *float64 `json:"50%"`
		Q75    *float64 `json:"75%"`
		Max    *float64 `json:"max"`
	}{
		Column: d.Column,
		Count:  d.Count,
		Mean:   value(d.Mean),
		Std:    value(d.Std),
		Min:    value(d.Min),
		Q25:    value(d.Q25),
		Q50:    value(d.Q50),
		Q75:    value(d.Q75),
		Max:    value(d.Max),
	})
}

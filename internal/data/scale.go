package data

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes columns to zero mean and unit variance.
type Scaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Std     []float64 `json:"std"`
}

// FitScaler computes the population mean and standard deviation of the given columns.
// Missing values are ignored.
func FitScaler(t *Table, columns ...string) (*Scaler, error) {
	selected, err := t.Select(columns...)
	if err != nil {
		return nil, err
	}

	scaler := &Scaler{
		Columns: selected.Columns,
		Mean:    make([]float64, len(columns)),
		Std:     make([]float64, len(columns)),
	}
	for j := range selected.Columns {
		values := present(selected.Values(j))
		switch len(values) {
		case 0:
			// nothing to go by, leave the column centered on 0
		case 1:
			scaler.Mean[j] = values[0]
		default:
			mean, variance := stat.MeanVariance(values, nil)
			n := float64(len(values))
			scaler.Mean[j] = mean
			scaler.Std[j] = math.Sqrt(variance * (n - 1) / n)
		}
	}
	return scaler, nil
}

// Transform returns the standardized matrix of the scaler columns.
// Missing values map to 0, the column mean, as does any value of a constant column.
func (s *Scaler) Transform(t *Table) ([][]float64, error) {
	selected, err := t.Select(s.Columns...)
	if err != nil {
		return nil, fmt.Errorf("could not apply scaler: %w", err)
	}

	x := make([][]float64, len(selected.Rows))
	for i, row := range selected.Rows {
		scaled := make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) || s.Std[j] == 0 {
				continue
			}
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		x[i] = scaled
	}
	return x, nil
}

func present(values []float64) []float64 {
	pp := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			pp = append(pp, v)
		}
	}
	return pp
}

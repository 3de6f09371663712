package model

import (
	"math"
	"strconv"
)

// Missing is how an undefined number is displayed.
const Missing = "–"

// Formatter is a number formatter interface to format floats to readable strings.
type Formatter interface {
	Format(f float64) string
}

// PrecisionFormatter formats numbers with a fixed precision.
type PrecisionFormatter struct {
	precision int
}

// NewFormatter creates a formatter with the given number of decimals.
func NewFormatter(precision int) PrecisionFormatter {
	return PrecisionFormatter{precision: precision}
}

// Format formats the given value, integers without decimals.
func (p PrecisionFormatter) Format(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', p.precision, 64)
}

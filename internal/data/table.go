package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrEmpty         = errors.New("empty dataset")
)

// Raw is the dataset as read from the csv source.
type Raw struct {
	Header  []string   `json:"header"`
	Records [][]string `json:"records"`
}

// Table is a cleaned dataset.
// Every cell is either a finite number or NaN for a missing value.
type Table struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"-"`
	// Index holds the original row position for every row.
	Index []int `json:"index"`
}

// ReadCSV reads a csv document with a header row.
// Records are padded or truncated to the header width.
func ReadCSV(r io.Reader) (*Raw, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no header row: %w", ErrEmpty)
		}
		return nil, fmt.Errorf("could not read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([][]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read record %d: %w", len(records)+1, err)
		}
		row := make([]string, len(header))
		copy(row, record)
		records = append(records, row)
	}

	return &Raw{
		Header:  header,
		Records: records,
	}, nil
}

// Load reads and cleans the csv file at the given path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset '%s': %w", path, err)
	}
	defer f.Close()

	raw, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("could not read dataset '%s': %w", path, err)
	}
	t := Clean(raw)
	log.Debug().
		Str("path", path).
		Int("rows", t.Len()).
		Int("columns", len(t.Columns)).
		Msg("loaded dataset")
	return t, nil
}

// Clean strips the percentage signs from every cell and coerces it to a number.
// Cells that cannot be parsed become NaN.
func Clean(raw *Raw) *Table {
	columns := make([]string, len(raw.Header))
	copy(columns, raw.Header)

	rows := make([][]float64, len(raw.Records))
	index := make([]int, len(raw.Records))
	for i, record := range raw.Records {
		row := make([]float64, len(columns))
		for j := range columns {
			if j < len(record) {
				row[j] = CleanCell(record[j])
			} else {
				row[j] = math.NaN()
			}
		}
		rows[i] = row
		index[i] = i
	}

	return &Table{
		Columns: columns,
		Rows:    rows,
		Index:   index,
	}
}

// CleanCell parses a single cell.
func CleanCell(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the position of the named column.
func (t *Table) Column(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Values returns a copy of the given column.
func (t *Table) Values(col int) []float64 {
	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[col]
	}
	return values
}

// Numeric returns the columns that hold at least one value.
func (t *Table) Numeric() []string {
	numeric := make([]string, 0, len(t.Columns))
	for j, c := range t.Columns {
		for _, row := range t.Rows {
			if !math.IsNaN(row[j]) {
				numeric = append(numeric, c)
				break
			}
		}
	}
	return numeric
}

// Select returns a table with only the given columns, in the given order.
func (t *Table) Select(columns ...string) (*Table, error) {
	positions := make([]int, len(columns))
	for i, c := range columns {
		j, ok := t.Column(c)
		if !ok {
			return nil, fmt.Errorf("'%s': %w", c, ErrUnknownColumn)
		}
		positions[i] = j
	}

	rows := make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		selected := make([]float64, len(positions))
		for k, j := range positions {
			selected[k] = row[j]
		}
		rows[i] = selected
	}

	names := make([]string, len(columns))
	copy(names, columns)
	return &Table{
		Columns: names,
		Rows:    rows,
		Index:   t.index(),
	}, nil
}

// Filter returns the rows at the positions for which keep returns true.
// Rows are shared with the source table.
func (t *Table) Filter(keep func(i int) bool) *Table {
	rows := make([][]float64, 0)
	index := make([]int, 0)
	for i, row := range t.Rows {
		if keep(i) {
			rows = append(rows, row)
			index = append(index, t.Index[i])
		}
	}
	return &Table{
		Columns: t.Columns,
		Rows:    rows,
		Index:   index,
	}
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{
		Columns: t.Columns,
		Rows:    t.Rows[:n],
		Index:   t.Index[:n],
	}
}

func (t *Table) index() []int {
	index := make([]int, len(t.Index))
	copy(index, t.Index)
	return index
}

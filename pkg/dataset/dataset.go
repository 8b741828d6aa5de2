// Package dataset reads delimited tabular data with a header row.
// Columns keep their on-disk order; columns with a blank header are dropped.
// Header names are trimmed and made unique; data cells are kept verbatim.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrNoHeader indicates the input did not contain a header row.
	ErrNoHeader = errors.New("dataset has no header row")
	// ErrColumnNotFound indicates a requested column is not present.
	ErrColumnNotFound = errors.New("column not found")
)

// Dataset is an in-memory table of string cells.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// Load opens and reads the CSV file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return ds, nil
}

// Read parses CSV data from r. Every row must have as many fields as the header.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(bufio.NewReader(r))

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	keep := make([]int, 0, len(header))
	columns := make([]string, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		keep = append(keep, i)
		columns = append(columns, name)
	}

	ds := &Dataset{Columns: UniqueColumns(columns)}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(ds.Rows)+1, err)
		}

		row := make([]string, len(keep))
		for j, i := range keep {
			row[j] = rec[i]
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// UniqueColumns renames repeated names in order of appearance: the second
// "a" becomes "a.1", the third "a.2", skipping any suffix already taken.
// Names that are already unique come back unchanged.
func UniqueColumns(names []string) []string {
	out := make([]string, len(names))
	counts := make(map[string]int, len(names))

	for i, name := range names {
		n := counts[name]
		for n > 0 {
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
			n = counts[name]
		}
		out[i] = name
		counts[name] = n + 1
	}
	return out
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Index returns the position of the named column, or -1 if absent.
func (d *Dataset) Index(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns every cell of the named column in row order.
func (d *Dataset) Column(name string) ([]string, error) {
	idx := d.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[idx]
	}
	return out, nil
}
